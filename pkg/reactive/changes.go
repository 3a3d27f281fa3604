package reactive

import "sort"

// Change describes one property that changed during a cycle.
type Change struct {
	// PreviousValue is the value held before the most recent write.
	// Meaningful only when HasPrevious is true.
	PreviousValue any

	// CurrentValue is the value after the most recent write.
	CurrentValue any

	// HasPrevious is false when the property had no earlier write in the
	// current instance lifetime.
	HasPrevious bool

	// FirstChange is true for the first write after Init.
	FirstChange bool
}

// Changes maps property names to the changes of one cycle.
type Changes map[string]*Change

// Has reports whether name changed.
func (c Changes) Has(name string) bool {
	return c[name] != nil
}

// Names returns the changed property names in lexical order.
func (c Changes) Names() []string {
	names := make([]string, 0, len(c))
	for name, ch := range c {
		if ch != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// merge returns input overlaid with reactive. Reactive changes win on key
// collision.
func merge(input, reactive Changes) Changes {
	out := make(Changes, len(input)+len(reactive))
	for k, v := range input {
		out[k] = v
	}
	for k, v := range reactive {
		out[k] = v
	}
	return out
}

// UpdateOn reports whether at least one of changes is non-nil. Use it inside
// Update to test whether any of a group of properties changed this cycle:
//
//	if reactive.UpdateOn(changes["Query"], changes["Page"]) {
//	    c.reload()
//	}
func UpdateOn(changes ...*Change) bool {
	for _, c := range changes {
		if c != nil {
			return true
		}
	}
	return false
}

// ComputeChanges collects the pending changes of instance and clears them.
// It returns an empty set when nothing was written since the previous call.
func ComputeChanges(instance any) (Changes, error) {
	rec := lookupRecord(instance)
	if rec == nil {
		if _, ok := instanceKey(instance); !ok {
			return nil, errInvalidInstance("ComputeChanges received a value that is not a struct pointer.")
		}
		return nil, ErrNotInitialized
	}

	changes := Changes{}
	if !rec.pending.Swap(false) {
		return changes, nil
	}
	for _, c := range rec.cells() {
		if ch := c.takeChange(); ch != nil {
			changes[c.Name()] = ch
		}
	}
	return changes, nil
}

// Current returns the current value of change as T.
func Current[T any](change *Change) (T, bool) {
	var zero T
	if change == nil {
		return zero, false
	}
	v, ok := change.CurrentValue.(T)
	return v, ok
}

// Previous returns the previous value of change as T. ok is false when the
// change has no previous value or it is not a T.
func Previous[T any](change *Change) (T, bool) {
	var zero T
	if change == nil || !change.HasPrevious {
		return zero, false
	}
	v, ok := change.PreviousValue.(T)
	return v, ok
}
