package tsuiseki

import "sync"

// Registry tracks which modules have been instrumented under one Tracer.
// Each Tracer owns its own Registry, so independent instrumentation instances
// in one process do not interfere, and tests can reset state deterministically.
type Registry struct {
	mu      sync.Mutex
	applied map[string]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{applied: make(map[string]bool)}
}

// Apply runs patch if module has not been instrumented under this registry
// yet, and reports whether it ran. Applying the same module twice is a no-op:
// the second patch never runs, so methods are never double-wrapped.
func (r *Registry) Apply(module string, patch func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.applied[module] {
		return false
	}
	r.applied[module] = true
	if patch != nil {
		patch()
	}
	return true
}

// Instrumented reports whether module has been instrumented.
func (r *Registry) Instrumented(module string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applied[module]
}

// Reset forgets all instrumented modules. Intended for tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = make(map[string]bool)
}
