package reactive

import "sync"

// State is a reactive cell declared as a struct field.
//
// NewState returns the cell in its token form: it carries the default value
// and, once Bind is called on it, a pending source. Init consumes the token
// in place and the same handle becomes the live cell whose Get and Set run
// the tracked accessor path.
type State[T any] struct {
	mu sync.Mutex

	defaultValue T

	// source is the pending source attached to the token before Init.
	source Source[T]

	// rec is the owning instance record. nil while the cell is a token.
	rec  *instanceRecord
	name string

	value       T
	previous    T
	hasPrevious bool

	// pending is set by every write and consumed by the change aggregator.
	pending bool

	// changes counts writes since Init. Never decreases.
	changes uint64

	binding *binding
}

// NewState creates a state token with the given default value.
func NewState[T any](defaultValue T) *State[T] {
	return &State[T]{
		defaultValue: defaultValue,
		value:        defaultValue,
	}
}

// IsToken reports whether the cell has not been consumed by Init yet.
func (s *State[T]) IsToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec == nil
}

// Get returns the current value. On a live cell the read is recorded as the
// active read of the calling goroutine, which the implicit BindActive,
// UnbindActive and ResetActive forms consume. Goroutines that never call an
// implicit form should read with Peek; Deinit drops the reads left behind.
func (s *State[T]) Get() T {
	s.mu.Lock()
	value := s.value
	live := s.rec != nil
	s.mu.Unlock()

	if live {
		setActiveRead(s)
	}
	return value
}

// Peek returns the current value without recording an active read.
func (s *State[T]) Peek() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set writes v through the tracked path: the current value shifts into the
// previous value, the change count increments, the cell and its instance
// are flagged pending and the host view is marked dirty.
//
// Set panics with an error wrapping ErrUsageOrder when the cell is still a
// token or its instance has been torn down.
func (s *State[T]) Set(v T) {
	if err := s.write(v); err != nil {
		panic(err)
	}
}

// Update writes fn(current) through the tracked path. fn runs under the
// cell lock, so no other write lands between the read and the write. fn must
// not access s.
func (s *State[T]) Update(fn func(T) T) {
	if err := s.apply(nil, fn); err != nil {
		panic(err)
	}
}

// Default returns the declared default value.
func (s *State[T]) Default() T {
	return s.defaultValue
}

// Previous returns the value held before the most recent write. ok is false
// when no write happened during the current instance lifetime.
func (s *State[T]) Previous() (value T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previous, s.hasPrevious
}

// ChangesCount returns the number of writes since Init.
func (s *State[T]) ChangesCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changes
}

// Pending reports whether a write has not been collected into a change set.
func (s *State[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Bound reports whether the cell holds a live subscription, or for a token,
// a pending source.
func (s *State[T]) Bound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return s.source != nil
	}
	return s.binding != nil
}

// Name returns the property name assigned by Init, or "" for a token.
func (s *State[T]) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *State[T]) componentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return ""
	}
	return s.rec.component
}

// liveRecord returns the owning record when it is still alive.
func (s *State[T]) liveRecord() (*instanceRecord, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil || s.rec.destroyed.Load() {
		return nil, s.name
	}
	return s.rec, s.name
}

// write runs the setter path.
func (s *State[T]) write(v T) error {
	return s.apply(nil, func(T) T { return v })
}

// emitFrom delivers a value emitted by b. It is dropped unless b is still
// the cell's binding, checked under the same lock as the write.
func (s *State[T]) emitFrom(b *binding, v T) {
	_ = s.apply(b, func(T) T { return v })
}

// apply writes fn(current) through the setter path. A non-nil from limits
// the write to emissions of the current binding.
func (s *State[T]) apply(from *binding, fn func(T) T) error {
	s.mu.Lock()
	rec := s.rec
	if rec == nil || rec.destroyed.Load() {
		name := s.name
		s.mu.Unlock()
		component := ""
		if rec != nil {
			component = rec.component
		}
		return errUsedBeforeInit(component, name)
	}
	if from != nil && s.binding != from {
		s.mu.Unlock()
		return nil
	}
	next := fn(s.value)
	s.previous = s.value
	s.hasPrevious = true
	s.value = next
	s.pending = true
	s.changes++
	name := s.name
	s.mu.Unlock()

	rec.pending.Store(true)
	rec.caps.observer.OnWrite(rec.component, name)
	rec.caps.detector.MarkForCheck()
	return nil
}

// owner returns the record the cell was patched into, alive or not.
func (s *State[T]) owner() *instanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec
}

// patch consumes the token into rec under name, seeding every tracked field
// from the default. It returns the deferred subscription of the pending
// source, or nil.
func (s *State[T]) patch(rec *instanceRecord, name string) func() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	s.rec = rec
	s.name = name
	s.value = s.defaultValue
	s.previous = zero
	s.hasPrevious = false
	s.pending = false
	s.changes = 0
	s.binding = nil

	src := s.source
	s.source = nil
	if src == nil {
		return nil
	}
	return func() error {
		return s.bindLive(src)
	}
}

// takeChange returns the pending change and clears the pending flag.
func (s *State[T]) takeChange() *Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending {
		return nil
	}
	s.pending = false
	return &Change{
		PreviousValue: s.previous,
		CurrentValue:  s.value,
		HasPrevious:   s.hasPrevious,
		FirstChange:   s.changes == 1,
	}
}

// release cancels the live subscription. Reports whether one was cancelled.
func (s *State[T]) release() bool {
	s.mu.Lock()
	b := s.binding
	s.binding = nil
	s.mu.Unlock()

	return b != nil && b.cancel()
}
