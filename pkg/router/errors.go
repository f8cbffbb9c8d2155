package router

import (
	"errors"
	"fmt"
)

// ErrRoute matches every error raised while resolving a service, method,
// module or function.
var ErrRoute = errors.New("route resolution failed")

// ServiceModuleNotDefinedError is returned by Register for a service that
// does not name its implementation module.
type ServiceModuleNotDefinedError struct {
	Service string
}

func (e *ServiceModuleNotDefinedError) Error() string {
	return fmt.Sprintf("%s - no implementation module defined for service %s", logPrefix, e.Service)
}

// UnknownServiceError is returned when no service is registered under a name.
type UnknownServiceError struct {
	Service string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("%s - unknown service %s", logPrefix, e.Service)
}

func (e *UnknownServiceError) Is(target error) bool { return target == ErrRoute }

// UnknownMethodError is returned when a registered service has no such method.
type UnknownMethodError struct {
	Service string
	Method  string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("%s - unknown method %s for service %s", logPrefix, e.Method, e.Service)
}

func (e *UnknownMethodError) Is(target error) bool { return target == ErrRoute }

// ServiceModuleNotFoundError is returned when the module named by a service
// was never registered.
type ServiceModuleNotFoundError struct {
	Service string
	Module  string
}

func (e *ServiceModuleNotFoundError) Error() string {
	return fmt.Sprintf("%s - module %s for service %s not found", logPrefix, e.Module, e.Service)
}

func (e *ServiceModuleNotFoundError) Is(target error) bool { return target == ErrRoute }

// MethodNotFoundError is returned when a module lacks the function a method
// resolves to.
type MethodNotFoundError struct {
	Module   string
	Function string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("%s - function %s not found in module %s", logPrefix, e.Function, e.Module)
}

func (e *MethodNotFoundError) Is(target error) bool { return target == ErrRoute }
