package host

import "sync"

// Registry is a hierarchical injector. Lookups that miss fall back to the
// parent registry.
type Registry struct {
	mu     sync.RWMutex
	parent *Registry
	values map[any]any
}

// NewRegistry creates a registry. parent may be nil.
func NewRegistry(parent *Registry) *Registry {
	return &Registry{
		parent: parent,
		values: make(map[any]any),
	}
}

// Provide registers value under key, replacing an earlier value.
// It returns the registry for chaining.
func (r *Registry) Provide(key, value any) *Registry {
	r.mu.Lock()
	r.values[key] = value
	r.mu.Unlock()
	return r
}

// Get implements reactive.Injector.
func (r *Registry) Get(key any) (any, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		reg.mu.RLock()
		v, ok := reg.values[key]
		reg.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Child creates a registry whose lookups fall back to r.
func (r *Registry) Child() *Registry {
	return NewRegistry(r)
}
