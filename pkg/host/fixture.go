package host

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/vango-dev/reactive/pkg/reactive"
)

var (
	// ErrDestroyed is returned when a destroyed fixture is asked to run a
	// detection cycle.
	ErrDestroyed = errors.New("host: fixture destroyed")

	// ErrUnstable is returned by DetectUntilStable when the component keeps
	// marking itself dirty.
	ErrUnstable = errors.New("host: view did not stabilize")
)

// Fixture drives one mounted component through detection cycles.
// Cycles are serialized; it is safe to call its methods from several
// goroutines.
type Fixture struct {
	host      *Host
	component any

	mu        sync.Mutex
	inputs    map[string]any
	pending   reactive.Changes
	inited    bool
	destroyed bool
	view      string
	cycles    int
}

// Component returns the mounted component.
func (f *Fixture) Component() any {
	return f.component
}

// SetInput records a new value for an externally bound input. The change is
// delivered through OnChanges on the next cycle. Setting an input to its
// current value is not a change.
func (f *Fixture) SetInput(name string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, seen := f.inputs[name]
	if seen && reflect.DeepEqual(prev, value) {
		return
	}
	f.inputs[name] = value

	if f.pending == nil {
		f.pending = reactive.Changes{}
	}
	f.pending[name] = &reactive.Change{
		PreviousValue: prev,
		CurrentValue:  value,
		HasPrevious:   seen,
		FirstChange:   !seen,
	}
}

// Input returns the current value of an input.
func (f *Fixture) Input(name string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.inputs[name]
	return v, ok
}

// DetectChanges runs one detection cycle: OnChanges when inputs changed,
// OnInit on the first cycle, DoCheck, Render and AfterViewChecked.
func (f *Fixture) DetectChanges() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cycle()
}

func (f *Fixture) cycle() error {
	if f.destroyed {
		return ErrDestroyed
	}
	f.host.detector.TakeDirty()

	if len(f.pending) > 0 {
		if h, ok := f.component.(ChangesHook); ok {
			h.OnChanges(f.pending)
		}
		f.pending = nil
	}

	if !f.inited {
		if h, ok := f.component.(InitHook); ok {
			if err := h.OnInit(); err != nil {
				return fmt.Errorf("host: init: %w", err)
			}
		}
		f.inited = true
	}

	if h, ok := f.component.(CheckHook); ok {
		if err := h.DoCheck(); err != nil {
			return fmt.Errorf("host: check: %w", err)
		}
	}

	if r, ok := f.component.(Renderer); ok {
		f.view = r.Render()
	}

	if h, ok := f.component.(ViewCheckedHook); ok {
		h.AfterViewChecked()
	}

	f.cycles++
	f.host.logger.Debug("host: cycle",
		"component", fmt.Sprintf("%T", f.component),
		"cycle", f.cycles,
	)
	return nil
}

// DetectUntilStable runs cycles until one completes without the view being
// marked dirty, at most limit cycles.
func (f *Fixture) DetectUntilStable(limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := 0; i < limit; i++ {
		if err := f.cycle(); err != nil {
			return err
		}
		if !f.host.detector.Dirty() {
			return nil
		}
	}
	return ErrUnstable
}

// Run performs a cycle immediately and then one every time the view is
// marked dirty, until ctx is done. onCycle, when non-nil, receives the
// rendered view after each cycle. Run returns nil when ctx is done and
// the first cycle error otherwise.
func (f *Fixture) Run(ctx context.Context, onCycle func(view string)) error {
	step := func() error {
		if err := f.DetectChanges(); err != nil {
			return err
		}
		if onCycle != nil {
			onCycle(f.Text())
		}
		return nil
	}

	if err := step(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-f.host.detector.Notify():
			if !f.host.detector.Dirty() {
				continue
			}
			if err := step(); err != nil {
				return err
			}
		}
	}
}

// Destroy runs OnDestroy once. Later cycles fail with ErrDestroyed.
func (f *Fixture) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.destroyed {
		return
	}
	f.destroyed = true
	if h, ok := f.component.(DestroyHook); ok {
		h.OnDestroy()
	}
}

// Text returns the view rendered by the last cycle.
func (f *Fixture) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

// Cycles returns the number of completed cycles.
func (f *Fixture) Cycles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cycles
}
