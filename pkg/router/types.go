// Package router routes "Service/Method" invocations to statically
// registered implementation functions, marshaling request and response
// messages to and from JSON.
package router

import (
	"context"

	"github.com/morezero/build-api/pkg/message"
)

// MethodDescriptor describes one method of a service.
type MethodDescriptor struct {
	Name       string
	InputType  string
	OutputType string
	// ImplementationName overrides the function looked up in the service's
	// module. Empty means the method name is used.
	ImplementationName string
}

// FunctionName returns the implementation function name for the method.
func (m MethodDescriptor) FunctionName() string {
	if m.ImplementationName != "" {
		return m.ImplementationName
	}
	return m.Name
}

// ServiceDescriptor describes a service and the module implementing it.
type ServiceDescriptor struct {
	FullName string
	Module   string
	Methods  []MethodDescriptor
}

// Method returns the named method of the service.
func (s *ServiceDescriptor) Method(name string) (MethodDescriptor, bool) {
	for _, m := range s.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodDescriptor{}, false
}

// Schema is a compiled schema module: the services it declares and the
// constructors of the message types they reference.
type Schema struct {
	Name     string
	Services []ServiceDescriptor
	Types    []message.Constructor
}

// Handler implements one method. in is nil when the method's input type is
// the Empty marker. A nil output keeps the empty output instance.
type Handler func(ctx context.Context, in message.Message) (message.Message, error)

// Module is an implementation module: a named table of functions.
type Module struct {
	Name      string
	Functions map[string]Handler
}
