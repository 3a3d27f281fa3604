package host

import "sync/atomic"

// Detector is the mark-dirty notifier of one view. It implements
// reactive.ChangeDetector.
type Detector struct {
	dirty  atomic.Bool
	marks  atomic.Uint64
	notify chan struct{}
}

// NewDetector creates a clean detector.
func NewDetector() *Detector {
	return &Detector{notify: make(chan struct{}, 1)}
}

// MarkForCheck flags the view dirty and wakes a waiting Run loop. It never
// blocks.
func (d *Detector) MarkForCheck() {
	d.marks.Add(1)
	d.dirty.Store(true)
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// Dirty reports whether the view was marked since the last TakeDirty.
func (d *Detector) Dirty() bool {
	return d.dirty.Load()
}

// TakeDirty clears the dirty flag and reports its previous state.
func (d *Detector) TakeDirty() bool {
	return d.dirty.Swap(false)
}

// Marks returns the total number of MarkForCheck calls.
func (d *Detector) Marks() uint64 {
	return d.marks.Load()
}

// Notify returns a channel that receives after MarkForCheck. Several marks
// may collapse into one receive.
func (d *Detector) Notify() <-chan struct{} {
	return d.notify
}
