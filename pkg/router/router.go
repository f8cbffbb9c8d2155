package router

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/morezero/build-api/pkg/events"
	"github.com/morezero/build-api/pkg/message"
)

const logPrefix = "router:router"

// Router holds the registered services, implementation modules and message
// types, and dispatches calls between them.
type Router struct {
	mu        sync.RWMutex
	services  map[string]ServiceDescriptor
	modules   map[string]Module
	types     *message.TypeRegistry
	publisher events.Publisher
}

// NewRouterParams holds parameters for NewRouter.
type NewRouterParams struct {
	// Types is the message type registry. Nil creates a fresh one.
	Types *message.TypeRegistry
	// Publisher receives a RouteEvent after every Route call. Nil disables
	// events.
	Publisher events.Publisher
}

// NewRouter creates a new Router.
func NewRouter(params NewRouterParams) *Router {
	types := params.Types
	if types == nil {
		types = message.NewTypeRegistry()
	}
	pub := params.Publisher
	if pub == nil {
		pub = &events.NoOpPublisher{}
	}
	return &Router{
		services:  make(map[string]ServiceDescriptor),
		modules:   make(map[string]Module),
		types:     types,
		publisher: pub,
	}
}

// Types returns the router's message type registry.
func (r *Router) Types() *message.TypeRegistry {
	return r.types
}

// Register adds every service of schema and its message types. All services
// are checked before any is added, so a failed Register changes nothing.
// Registering a service name again replaces the earlier entry.
func (r *Router) Register(schema Schema) error {
	for _, svc := range schema.Services {
		if svc.Module == "" {
			return &ServiceModuleNotDefinedError{Service: svc.FullName}
		}
	}

	for _, ctor := range schema.Types {
		r.types.Register(ctor)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, svc := range schema.Services {
		if _, exists := r.services[svc.FullName]; exists {
			slog.Warn(fmt.Sprintf("%s - service %s registered again, replacing", logPrefix, svc.FullName))
		}
		svc.Methods = append([]MethodDescriptor(nil), svc.Methods...)
		r.services[svc.FullName] = svc
		slog.Debug(fmt.Sprintf("%s - registered service %s (%d methods, module %s)", logPrefix, svc.FullName, len(svc.Methods), svc.Module))
	}
	return nil
}

// RegisterModule adds an implementation module. A module registered under an
// existing name replaces it.
func (r *Router) RegisterModule(module Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[module.Name]; exists {
		slog.Warn(fmt.Sprintf("%s - module %s registered again, replacing", logPrefix, module.Name))
	}
	r.modules[module.Name] = module
}

// Service returns the descriptor registered under name.
func (r *Router) Service(name string) (ServiceDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[name]
	return svc, ok
}

// ListMethods returns every registered method as "Service/Method", sorted.
func (r *Router) ListMethods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for name, svc := range r.services {
		for _, m := range svc.Methods {
			out = append(out, name+"/"+m.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Route calls serviceName/methodName with input, a JSON encoded request, and
// returns the response message.
func (r *Router) Route(ctx context.Context, serviceName, methodName string, input []byte) (out message.Message, err error) {
	start := time.Now()
	event := events.NewRouteEvent(serviceName, methodName)
	defer func() {
		event.DurationMs = time.Since(start).Milliseconds()
		if err != nil {
			event.Error = err.Error()
		}
		if perr := r.publisher.Publish(ctx, event); perr != nil {
			slog.Warn(fmt.Sprintf("%s - failed to publish route event %s: %v", logPrefix, event.ID, perr))
		}
	}()

	svc, method, err := r.lookup(serviceName, methodName)
	if err != nil {
		return nil, err
	}
	event.Module = svc.Module
	event.Function = method.FunctionName()

	var in message.Message
	if !message.IsEmpty(method.InputType) {
		in, err = r.types.New(method.InputType)
		if err != nil {
			return nil, fmt.Errorf("%s - input of %s/%s: %w", logPrefix, serviceName, methodName, err)
		}
		if err := message.Decode(input, in); err != nil {
			return nil, err
		}
	}

	out, err = r.types.New(method.OutputType)
	if err != nil {
		return nil, fmt.Errorf("%s - output of %s/%s: %w", logPrefix, serviceName, methodName, err)
	}

	handler, err := r.implementation(svc, method)
	if err != nil {
		return nil, err
	}

	slog.Debug(fmt.Sprintf("%s - calling %s.%s for %s/%s", logPrefix, svc.Module, method.FunctionName(), serviceName, methodName))
	result, err := handler(ctx, in)
	if err != nil {
		return nil, err
	}

	if message.IsEmpty(method.OutputType) || result == nil {
		return out, nil
	}
	if result.MessageName() != method.OutputType {
		return nil, fmt.Errorf("%s - %s.%s returned %s, want %s", logPrefix, svc.Module, method.FunctionName(), result.MessageName(), method.OutputType)
	}
	return result, nil
}

// lookup finds the registered service and method for a call.
func (r *Router) lookup(serviceName, methodName string) (ServiceDescriptor, MethodDescriptor, error) {
	r.mu.RLock()
	svc, ok := r.services[serviceName]
	r.mu.RUnlock()
	if !ok {
		return ServiceDescriptor{}, MethodDescriptor{}, &UnknownServiceError{Service: serviceName}
	}
	method, ok := svc.Method(methodName)
	if !ok {
		return ServiceDescriptor{}, MethodDescriptor{}, &UnknownMethodError{Service: serviceName, Method: methodName}
	}
	return svc, method, nil
}

// implementation finds the function implementing method in the service's
// module.
func (r *Router) implementation(svc ServiceDescriptor, method MethodDescriptor) (Handler, error) {
	r.mu.RLock()
	module, ok := r.modules[svc.Module]
	r.mu.RUnlock()
	if !ok {
		return nil, &ServiceModuleNotFoundError{Service: svc.FullName, Module: svc.Module}
	}
	handler, ok := module.Functions[method.FunctionName()]
	if !ok || handler == nil {
		return nil, &MethodNotFoundError{Module: module.Name, Function: method.FunctionName()}
	}
	return handler, nil
}
