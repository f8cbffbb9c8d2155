// Package events defines the event emitted after every routed call and the
// publishers that receive it.
package events

import "github.com/google/uuid"

// RouteEvent is emitted once a Route call has finished, successfully or not.
type RouteEvent struct {
	ID         uuid.UUID `json:"id"`
	Service    string    `json:"service"`
	Method     string    `json:"method"`
	Function   string    `json:"function,omitempty"`
	Module     string    `json:"module,omitempty"`
	DurationMs int64     `json:"durationMs"`
	Error      string    `json:"error,omitempty"`
}

// NewRouteEvent creates a RouteEvent with a fresh ID.
func NewRouteEvent(service, method string) *RouteEvent {
	return &RouteEvent{
		ID:      uuid.New(),
		Service: service,
		Method:  method,
	}
}

// Failed reports whether the routed call returned an error.
func (e *RouteEvent) Failed() bool {
	return e.Error != ""
}
