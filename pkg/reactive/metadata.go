package reactive

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// instanceRecord is the per-instance metadata: patched flag, pending-change
// flag and the cells discovered by Init in declaration order.
type instanceRecord struct {
	id        uint64
	component string

	mu         sync.Mutex
	patched    bool
	order      []string
	properties map[string]cell

	// pending is set by every write to one of the instance's cells.
	pending atomic.Bool

	// destroyed is set by Deinit. Cells keep pointing at a destroyed record
	// and refuse writes.
	destroyed atomic.Bool

	caps capabilities
}

// instances maps instance pointers to their records.
var instances sync.Map

// instanceKey validates that instance is a non-nil struct pointer and
// returns its reflected value.
func instanceKey(instance any) (reflect.Value, bool) {
	v := reflect.ValueOf(instance)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, false
	}
	if v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return v, true
}

// lookupRecord returns the live record of instance, or nil.
func lookupRecord(instance any) *instanceRecord {
	if _, ok := instanceKey(instance); !ok {
		return nil
	}
	raw, ok := instances.Load(instance)
	if !ok {
		return nil
	}
	return raw.(*instanceRecord)
}

// cells returns the instance's cells in declaration order.
func (r *instanceRecord) cells() []cell {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]cell, 0, len(r.order))
	for _, name := range r.order {
		if c, ok := r.properties[name]; ok {
			out = append(out, c)
		}
	}
	return out
}
