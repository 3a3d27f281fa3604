package reactive

import "sync"

// binding is one subscription of a cell to a source. Once cancelled, values
// still in flight from the source are discarded.
type binding struct {
	mu        sync.Mutex
	sub       Subscription
	cancelled bool
}

// attach stores sub, or cancels it right away if the binding was cancelled
// while Subscribe was running.
func (b *binding) attach(sub Subscription) {
	b.mu.Lock()
	if b.cancelled {
		b.mu.Unlock()
		if sub != nil {
			sub.Unsubscribe()
		}
		return
	}
	b.sub = sub
	b.mu.Unlock()
}

// cancel unsubscribes exactly once. Reports whether this call cancelled.
func (b *binding) cancel() bool {
	b.mu.Lock()
	if b.cancelled {
		b.mu.Unlock()
		return false
	}
	b.cancelled = true
	sub := b.sub
	b.sub = nil
	b.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	return true
}

// activeCell is the type-erased view of a cell held by the active-read
// context.
type activeCell interface {
	Name() string
	componentName() string
	resetLive() error
	unbindLive() error
}

// Bind connects target to src. Called on a token, src is attached to the
// token and subscribed by Init. Called on a live cell, any existing
// subscription is cancelled first and every value src emits is written
// through the tracked setter path. A nil src behaves like Unbind.
func Bind[T any](target *State[T], src Source[T]) error {
	if target == nil {
		return errNotProperlyInitialized("", "")
	}
	defer clearActiveRead(target)

	if target.bindToken(src) {
		return nil
	}
	return target.bindLive(src)
}

// Unbind cancels target's subscription without altering its value. On a
// token it drops the pending source.
func Unbind[T any](target *State[T]) error {
	if target == nil {
		return errNotProperlyInitialized("", "")
	}
	defer clearActiveRead(target)

	if target.bindToken(nil) {
		return nil
	}
	return target.unbindLive()
}

// Reset writes target's default value back through the tracked setter
// path. It is a no-op on a token.
func Reset[T any](target *State[T]) error {
	if target == nil {
		return errNotProperlyInitialized("", "")
	}
	defer clearActiveRead(target)

	if target.IsToken() {
		return nil
	}
	return target.resetLive()
}

// BindActive binds the cell read last by Get on the calling goroutine.
// The active read is consumed whether or not the call succeeds.
func BindActive[T any](src Source[T]) error {
	c := takeActiveRead()
	if c == nil {
		return errNoActiveRead("BindActive")
	}
	s, ok := c.(*State[T])
	if !ok {
		return errActiveTypeMismatch(c.componentName(), c.Name())
	}
	return s.bindLive(src)
}

// UnbindActive unbinds the cell read last by Get on the calling goroutine.
func UnbindActive() error {
	c := takeActiveRead()
	if c == nil {
		return errNoActiveRead("UnbindActive")
	}
	return c.unbindLive()
}

// ResetActive resets the cell read last by Get on the calling goroutine.
func ResetActive() error {
	c := takeActiveRead()
	if c == nil {
		return errNoActiveRead("ResetActive")
	}
	return c.resetLive()
}

// bindToken replaces the pending source when s is still a token.
// Reports whether s was a token.
func (s *State[T]) bindToken(src Source[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec != nil {
		return false
	}
	s.source = src
	return true
}

func (s *State[T]) bindLive(src Source[T]) error {
	if src == nil {
		return s.unbindLive()
	}

	s.mu.Lock()
	rec := s.rec
	if rec == nil || rec.destroyed.Load() {
		name := s.name
		s.mu.Unlock()
		return errNotProperlyInitialized(recordName(rec), name)
	}
	old := s.binding
	b := &binding{}
	s.binding = b
	name := s.name
	s.mu.Unlock()

	if old != nil && old.cancel() {
		rec.caps.observer.OnUnbind(rec.component, name)
		rec.caps.logger.Debug("reactive: binding replaced",
			"component", rec.component,
			"property", name,
		)
	}

	b.attach(src.Subscribe(func(v T) {
		s.emitFrom(b, v)
	}))
	rec.caps.observer.OnBind(rec.component, name)
	return nil
}

func (s *State[T]) unbindLive() error {
	s.mu.Lock()
	rec := s.rec
	if rec == nil || rec.destroyed.Load() {
		name := s.name
		s.mu.Unlock()
		return errNotProperlyInitialized(recordName(rec), name)
	}
	b := s.binding
	s.binding = nil
	name := s.name
	s.mu.Unlock()

	if b != nil && b.cancel() {
		rec.caps.observer.OnUnbind(rec.component, name)
	}
	return nil
}

func (s *State[T]) resetLive() error {
	if rec, name := s.liveRecord(); rec == nil {
		return errNotProperlyInitialized(recordName(s.owner()), name)
	}
	return s.write(s.defaultValue)
}

func recordName(rec *instanceRecord) string {
	if rec == nil {
		return ""
	}
	return rec.component
}
