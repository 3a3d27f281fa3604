package reactive

import "sync"

// Subscription is a live connection to a Source. Unsubscribe cancels it;
// implementations must tolerate repeated calls and act only on the first.
type Subscription interface {
	Unsubscribe()
}

// Source is an asynchronous stream of values a cell can be bound to.
// Subscribe registers next and returns the cancelable connection. Sources
// may call next from any goroutine, one value at a time.
type Source[T any] interface {
	Subscribe(next func(T)) Subscription
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc[T any] func(next func(T)) Subscription

// Subscribe implements Source.
func (f SourceFunc[T]) Subscribe(next func(T)) Subscription {
	return f(next)
}

// subscriptionFunc runs its cancel function at most once.
type subscriptionFunc struct {
	once   sync.Once
	cancel func()
}

// NewSubscription returns a Subscription that runs cancel on the first
// Unsubscribe call. A nil cancel yields a no-op subscription.
func NewSubscription(cancel func()) Subscription {
	return &subscriptionFunc{cancel: cancel}
}

// Unsubscribe implements Subscription.
func (s *subscriptionFunc) Unsubscribe() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Map returns a Source emitting fn(v) for every value v emitted by src.
func Map[T, U any](src Source[T], fn func(T) U) Source[U] {
	return SourceFunc[U](func(next func(U)) Subscription {
		return src.Subscribe(func(v T) {
			next(fn(v))
		})
	})
}

// Subject is a synchronous multicast Source. Next delivers a value to every
// current subscriber on the caller's goroutine, in subscription order.
type Subject[T any] struct {
	mu        sync.Mutex
	observers []*subjectObserver[T]
	completed bool
}

type subjectObserver[T any] struct {
	next func(T)
}

// NewSubject creates an empty Subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Subscribe implements Source. Subscribing to a completed Subject returns a
// no-op subscription.
func (s *Subject[T]) Subscribe(next func(T)) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return NewSubscription(nil)
	}

	o := &subjectObserver[T]{next: next}
	s.observers = append(s.observers, o)

	return NewSubscription(func() {
		s.remove(o)
	})
}

// remove detaches an observer.
func (s *Subject[T]) remove(o *subjectObserver[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Next emits v to every current subscriber. Observers are copied before
// delivery so a subscriber may unsubscribe from within its callback.
func (s *Subject[T]) Next(v T) {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return
	}
	observers := make([]*subjectObserver[T], len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		if s.attached(o) {
			o.next(v)
		}
	}
}

// attached reports whether o is still subscribed.
func (s *Subject[T]) attached(o *subjectObserver[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.observers {
		if existing == o {
			return true
		}
	}
	return false
}

// Complete detaches every subscriber. Later Next calls are ignored.
func (s *Subject[T]) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = true
	s.observers = nil
}

// Observed returns the number of current subscribers.
func (s *Subject[T]) Observed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}
