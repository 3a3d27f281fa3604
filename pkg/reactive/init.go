package reactive

import (
	"fmt"
	"reflect"
)

// discovered is a cell found on an instance during Init.
type discovered struct {
	name string
	cell cell
}

// Init consumes the state tokens of instance, turning each into a live,
// tracked cell. instance must be a non-nil pointer to a struct; its
// exported *State fields are discovered in declaration order.
//
// The change detector is resolved from injector under ChangeDetectorKey;
// failing to resolve it is an error. Sources attached to tokens with Bind
// are subscribed after every cell of the instance has been patched.
//
// Init is idempotent: calling it on an initialized instance does nothing.
func Init(instance any, injector Injector) error {
	v, ok := instanceKey(instance)
	if !ok {
		return errInvalidInstance(fmt.Sprintf("Init received %T.", instance))
	}
	schema := schemaFor(v.Elem().Type())

	raw, _ := instances.LoadOrStore(instance, &instanceRecord{
		id:         nextID(),
		component:  schema.name,
		properties: make(map[string]cell),
	})
	rec := raw.(*instanceRecord)

	rec.mu.Lock()
	if rec.patched {
		rec.mu.Unlock()
		return nil
	}

	found, err := discover(v, schema, rec)
	if err == nil {
		rec.caps, err = resolveCapabilities(schema.name, injector)
	}
	if err != nil {
		rec.mu.Unlock()
		instances.CompareAndDelete(instance, rec)
		return err
	}

	// Pending bindings are buffered until every cell is patched so that no
	// subscription callback observes a sibling that is still a token.
	type pendingBinding struct {
		name      string
		subscribe func() error
	}
	var pending []pendingBinding

	for _, d := range found {
		if subscribe := d.cell.patch(rec, d.name); subscribe != nil {
			pending = append(pending, pendingBinding{name: d.name, subscribe: subscribe})
		}
		rec.properties[d.name] = d.cell
		rec.order = append(rec.order, d.name)
	}
	rec.patched = true

	for _, p := range pending {
		if _, ok := rec.properties[p.name]; !ok {
			rec.mu.Unlock()
			return errPatchFailed(rec.component, p.name)
		}
	}
	rec.mu.Unlock()

	for _, p := range pending {
		if err := p.subscribe(); err != nil {
			return err
		}
	}

	rec.caps.observer.OnInit(rec.component, len(found))
	if DebugMode {
		rec.caps.logger.Debug("reactive: instance initialized",
			"component", rec.component,
			"id", rec.id,
			"cells", len(found),
			"bindings", len(pending),
		)
	}
	return nil
}

// discover collects the cells of v. A cell that still belongs to another
// live instance, or appears twice, is rejected before anything is patched.
func discover(v reflect.Value, schema *typeSchema, rec *instanceRecord) ([]discovered, error) {
	elem := v.Elem()
	found := make([]discovered, 0, len(schema.fields))
	seen := make(map[cell]bool, len(schema.fields))

	for _, f := range schema.fields {
		fv := elem.FieldByIndex(f.index)
		if fv.IsNil() {
			continue
		}
		c := fv.Interface().(cell)

		if seen[c] {
			return nil, errSharedCell(schema.name, f.name)
		}
		seen[c] = true

		if owner := c.owner(); owner != nil && owner != rec && !owner.destroyed.Load() {
			return nil, errSharedCell(schema.name, f.name)
		}
		found = append(found, discovered{name: f.name, cell: c})
	}
	return found, nil
}

// Inited reports whether instance has been initialized and not torn down.
func Inited(instance any) bool {
	rec := lookupRecord(instance)
	if rec == nil {
		return false
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.patched
}

// Deinit cancels every live subscription of instance and drops its record.
// Later writes to its cells panic; values still emitted by previously bound
// sources are discarded. Deinit on an instance that is not initialized does
// nothing.
func Deinit(instance any) {
	if _, ok := instanceKey(instance); !ok {
		return
	}
	raw, ok := instances.LoadAndDelete(instance)
	if !ok {
		return
	}
	rec := raw.(*instanceRecord)
	cells := rec.cells()

	rec.mu.Lock()
	caps := rec.caps
	rec.destroyed.Store(true)
	rec.patched = false
	rec.properties = make(map[string]cell)
	rec.order = nil
	rec.mu.Unlock()

	cancelled := 0
	for _, c := range cells {
		if c.release() {
			cancelled++
		}
	}
	dropActiveReads(rec)

	if caps.observer == nil {
		// Init failed before capabilities were resolved.
		return
	}
	caps.observer.OnDeinit(rec.component, cancelled)
	if DebugMode {
		caps.logger.Debug("reactive: instance torn down",
			"component", rec.component,
			"id", rec.id,
			"cancelled", cancelled,
		)
	}
}
