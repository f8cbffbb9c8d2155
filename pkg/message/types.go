package message

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

const typesLogPrefix = "message:types"

// ErrUnknownType is returned when a type name has no registered constructor.
var ErrUnknownType = errors.New("unknown message type")

// Constructor returns a new, empty instance of a message type.
type Constructor func() Message

// TypeRegistry maps full type names to constructors.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]Constructor
}

// NewTypeRegistry creates a TypeRegistry that already knows the Empty marker.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{types: make(map[string]Constructor)}
	r.Register(func() Message { return &Empty{} })
	return r
}

// Register adds a constructor keyed by the name of the message it builds.
// Registering the same name again replaces the previous constructor.
func (r *TypeRegistry) Register(ctor Constructor) {
	name := ctor().MessageName()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = ctor
}

// New builds an empty instance of typeName.
func (r *TypeRegistry) New(typeName string) (Message, error) {
	r.mu.RLock()
	ctor, ok := r.types[typeName]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s - %w: %s", typesLogPrefix, ErrUnknownType, typeName)
	}
	return ctor(), nil
}

// Has reports whether typeName is registered.
func (r *TypeRegistry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[typeName]
	return ok
}

// Names returns all registered type names, sorted.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
