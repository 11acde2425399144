package registry

import (
	"fmt"
	"sync"
)

// Action is a host behavior bound to an action reference.
type Action func()

// Guard is a host predicate bound to a guard method name.
type Guard func() bool

// Registry maps the names used in a machine declaration to the Go functions
// the interpreter calls. Generated code does not need it; it calls host
// methods directly.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Action
	guards  map[string]Guard
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]Action),
		guards:  make(map[string]Guard),
	}
}

// RegisterAction binds an action name.
// If an action with the same name exists, it is overwritten.
func (r *Registry) RegisterAction(name string, fn Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = fn
}

// RegisterGuard binds a guard method name. Negated references ("!name")
// resolve to the same binding.
func (r *Registry) RegisterGuard(name string, fn Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[name] = fn
}

// Action looks up an action by name.
func (r *Registry) Action(name string) (Action, error) {
	r.mu.RLock()
	fn, ok := r.actions[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("action not registered: %s", name)
	}
	return fn, nil
}

// Guard looks up a guard by method name.
func (r *Registry) Guard(name string) (Guard, error) {
	r.mu.RLock()
	fn, ok := r.guards[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("guard not registered: %s", name)
	}
	return fn, nil
}
