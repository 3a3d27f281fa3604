package reactive

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
)

// Updater is implemented by components embedding Reactive.
type Updater interface {
	// Update receives the merged input and reactive changes of a cycle.
	// first is true exactly once, for the update issued by OnInit.
	Update(changes Changes, first bool)
}

// ContextUpdater is implemented by components whose Update needs the
// context produced by the middleware chain, for example to reach the span
// opened by tracing middleware. When implemented, UpdateContext is called
// instead of Update.
type ContextUpdater interface {
	UpdateContext(ctx context.Context, changes Changes, first bool)
}

// Reactive is the lifecycle adapter embedded by components. It implements
// the host hooks and drives Init, change aggregation, Update invocation,
// deferred view actions and teardown.
//
//	type Clock struct {
//	    reactive.Reactive
//	    Now *reactive.State[time.Time]
//	}
//
//	func NewClock(inj reactive.Injector) *Clock {
//	    c := &Clock{Now: reactive.NewState(time.Time{})}
//	    c.Setup(c, inj)
//	    return c
//	}
//
//	func (c *Clock) Update(changes reactive.Changes, first bool) {
//	    if first {
//	        reactive.Bind(c.Now, ticks)
//	    }
//	}
type Reactive struct {
	mu       sync.Mutex
	self     Updater
	injector Injector
	opts     options
	name     string

	// input holds changes delivered by OnChanges until the next cycle.
	input    Changes
	hasInput bool

	// deferred holds view actions captured during updates, drained by
	// AfterViewChecked.
	deferred []func()
}

// Setup wires the base to the component embedding it. self must be the
// pointer to that component; it is the instance passed to Init.
func (r *Reactive) Setup(self Updater, injector Injector, opts ...Option) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.self = self
	r.injector = injector
	r.opts = applyOptions(opts)
	r.name = componentTypeName(self)
}

func componentTypeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

func (r *Reactive) target() (Updater, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.self == nil {
		return nil, errBaseNotSetUp()
	}
	return r.self, nil
}

// OnChanges stashes changes of externally bound inputs. They are merged
// into the change set of the next OnInit or DoCheck.
func (r *Reactive) OnChanges(changes Changes) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.input = changes
	r.hasInput = true
}

// takeInput returns and clears the stashed input changes.
func (r *Reactive) takeInput() (Changes, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	input, ok := r.input, r.hasInput
	r.input = nil
	r.hasInput = false
	return input, ok
}

// OnInit initializes the component and runs the first Update with the
// stashed input changes.
func (r *Reactive) OnInit() error {
	self, err := r.target()
	if err != nil {
		return err
	}
	if err := Init(self, r.injector); err != nil {
		return err
	}

	input, _ := r.takeInput()
	r.invokeUpdate(self, merge(input, nil), true)
	return nil
}

// DoCheck runs on every detection cycle. It merges the stashed input
// changes with the pending reactive changes and calls Update when the
// merged set is not empty.
func (r *Reactive) DoCheck() error {
	self, err := r.target()
	if err != nil {
		return err
	}
	changes, err := ComputeChanges(self)
	if err != nil {
		return err
	}
	if input, ok := r.takeInput(); ok {
		changes = merge(input, changes)
	}
	if len(changes) > 0 {
		r.invokeUpdate(self, changes, false)
	}
	return nil
}

// AfterViewChecked runs the view actions captured during updates, in the
// order they were scheduled, and clears the queue.
func (r *Reactive) AfterViewChecked() {
	r.mu.Lock()
	actions := r.deferred
	r.deferred = nil
	r.mu.Unlock()

	for _, fn := range actions {
		fn()
	}
}

// OnDestroy tears the component down.
func (r *Reactive) OnDestroy() {
	r.mu.Lock()
	self := r.self
	r.deferred = nil
	r.mu.Unlock()

	if self != nil {
		Deinit(self)
	}
}

// invokeUpdate calls Update through the middleware chain with a fresh
// view-action buffer, then queues the captured actions.
func (r *Reactive) invokeUpdate(self Updater, changes Changes, first bool) {
	r.mu.Lock()
	opts := r.opts
	name := r.name
	r.mu.Unlock()

	info := UpdateInfo{Component: name, First: first, Changes: changes}
	run := chain(opts.middleware, info, func(ctx context.Context) {
		if cu, ok := self.(ContextUpdater); ok {
			cu.UpdateContext(ctx, changes, first)
			return
		}
		self.Update(changes, first)
	})

	restore := pushViewActions()
	func() {
		// Restore even when Update panics so the goroutine does not keep a
		// stale buffer.
		defer func() {
			actions := restore()
			if len(actions) == 0 {
				return
			}
			r.mu.Lock()
			r.deferred = append(r.deferred, actions...)
			r.mu.Unlock()
		}()
		run(opts.ctx)
	}()

	if DebugMode {
		r.logger().Debug("reactive: update",
			"component", name,
			"first", first,
			"changes", changes.Names(),
		)
	}
}

func (r *Reactive) logger() *slog.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.opts.logger != nil {
		return r.opts.logger
	}
	if rec := lookupRecord(r.self); rec != nil {
		return rec.caps.logger
	}
	return slog.Default()
}
