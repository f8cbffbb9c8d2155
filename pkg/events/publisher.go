package events

import "context"

// Publisher receives a RouteEvent once per routed call. Publish errors are
// logged by the router and never fail the call.
type Publisher interface {
	Publish(ctx context.Context, event *RouteEvent) error
}

// NoOpPublisher drops route events. The router uses it when no publisher is
// configured.
type NoOpPublisher struct{}

func (p *NoOpPublisher) Publish(_ context.Context, _ *RouteEvent) error {
	return nil
}

// CallbackPublisher hands each route event to a function, typically a test
// collecting the events of a sequence of Route calls.
type CallbackPublisher struct {
	callback func(ctx context.Context, event *RouteEvent) error
}

func NewCallbackPublisher(cb func(ctx context.Context, event *RouteEvent) error) *CallbackPublisher {
	return &CallbackPublisher{callback: cb}
}

func (p *CallbackPublisher) Publish(ctx context.Context, event *RouteEvent) error {
	return p.callback(ctx, event)
}
