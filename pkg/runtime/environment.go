package runtime

import (
	"sort"
	"sync"
)

// Environment provides lexical scoping for Egg runtime values.
type Environment struct {
	values map[string]Value
	parent *Environment
	mu     sync.RWMutex
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil for the root).
func (e *Environment) Parent() *Environment {
	e.mu.RLock()
	parent := e.parent
	e.mu.RUnlock()
	return parent
}

// Define creates or overwrites a binding in the current scope only.
func (e *Environment) Define(name string, value Value) {
	e.mu.Lock()
	e.values[name] = value
	e.mu.Unlock()
}

// Assign overwrites the binding in the nearest scope that owns name.
func (e *Environment) Assign(name string, value Value) error {
	for scope := e; scope != nil; scope = scope.Parent() {
		scope.mu.Lock()
		if _, ok := scope.values[name]; ok {
			scope.values[name] = value
			scope.mu.Unlock()
			return nil
		}
		scope.mu.Unlock()
	}
	return NewError(ReferenceError, "Setting undefined variable "+name)
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}
	return nil, NewError(ReferenceError, "Undefined binding: "+name)
}

// Lookup is Get without the error allocation.
func (e *Environment) Lookup(name string) (Value, bool) {
	for scope := e; scope != nil; scope = scope.Parent() {
		scope.mu.RLock()
		v, ok := scope.values[name]
		scope.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Keys returns the local bindings in sorted order.
func (e *Environment) Keys() []string {
	e.mu.RLock()
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	e.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Extend creates a child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
