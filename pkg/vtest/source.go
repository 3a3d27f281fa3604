package vtest

import (
	"sync"
	"testing"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Source is a synchronous reactive.Source for tests. Emit delivers to every
// live subscriber on the caller's goroutine. It counts subscriptions and
// cancellations.
type Source[T any] struct {
	mu           sync.Mutex
	subject      *reactive.Subject[T]
	subscribed   int
	unsubscribed int
	emitted      []T
}

// NewSource creates a test source.
func NewSource[T any]() *Source[T] {
	return &Source[T]{subject: reactive.NewSubject[T]()}
}

// Subscribe implements reactive.Source.
func (s *Source[T]) Subscribe(next func(T)) reactive.Subscription {
	s.mu.Lock()
	s.subscribed++
	s.mu.Unlock()

	sub := s.subject.Subscribe(next)
	return reactive.NewSubscription(func() {
		s.mu.Lock()
		s.unsubscribed++
		s.mu.Unlock()
		sub.Unsubscribe()
	})
}

// Emit delivers v to the live subscribers.
func (s *Source[T]) Emit(v T) {
	s.mu.Lock()
	s.emitted = append(s.emitted, v)
	s.mu.Unlock()
	s.subject.Next(v)
}

// Live returns the number of live subscribers.
func (s *Source[T]) Live() int {
	return s.subject.Observed()
}

// Counts returns how many times the source was subscribed and unsubscribed.
func (s *Source[T]) Counts() (subscribed, unsubscribed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribed, s.unsubscribed
}

// Emitted returns every value passed to Emit.
func (s *Source[T]) Emitted() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.emitted...)
}

// ExpectSubscriptions asserts the subscription counters of src.
func ExpectSubscriptions[T any](t testing.TB, src *Source[T], subscribed, unsubscribed int) {
	t.Helper()
	gotSub, gotUnsub := src.Counts()
	if gotSub != subscribed || gotUnsub != unsubscribed {
		t.Errorf("expected %d subscriptions and %d cancellations, got %d and %d",
			subscribed, unsubscribed, gotSub, gotUnsub)
	}
}
