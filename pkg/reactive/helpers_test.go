package reactive

import (
	"sync"
	"sync/atomic"
)

// countingDetector counts MarkForCheck calls.
type countingDetector struct {
	marks atomic.Int64
}

func (d *countingDetector) MarkForCheck() { d.marks.Add(1) }

func (d *countingDetector) count() int64 { return d.marks.Load() }

// injectorWith resolves the given capabilities by key.
func injectorWith(values map[any]any) Injector {
	return InjectorFunc(func(key any) (any, bool) {
		v, ok := values[key]
		return v, ok
	})
}

func detectorInjector(d ChangeDetector) Injector {
	return injectorWith(map[any]any{ChangeDetectorKey: d})
}

type fooBar struct {
	Foo *State[int]
	Bar *State[int]
}

func newFooBar() *fooBar {
	return &fooBar{
		Foo: NewState(0),
		Bar: NewState(1),
	}
}

// recordingObserver records every observer event.
type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (o *recordingObserver) add(e string) {
	o.mu.Lock()
	o.events = append(o.events, e)
	o.mu.Unlock()
}

func (o *recordingObserver) OnInit(component string, cells int) {
	o.add("init " + component)
}

func (o *recordingObserver) OnWrite(component, property string) {
	o.add("write " + component + "." + property)
}

func (o *recordingObserver) OnBind(component, property string) {
	o.add("bind " + component + "." + property)
}

func (o *recordingObserver) OnUnbind(component, property string) {
	o.add("unbind " + component + "." + property)
}

func (o *recordingObserver) OnDeinit(component string, cancelled int) {
	o.add("deinit " + component)
}

func (o *recordingObserver) snapshot() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.events...)
}

// countingSource counts live subscriptions and lets tests emit values.
type countingSource[T any] struct {
	subject      *Subject[T]
	subscribed   atomic.Int64
	unsubscribed atomic.Int64
}

func newCountingSource[T any]() *countingSource[T] {
	return &countingSource[T]{subject: NewSubject[T]()}
}

func (s *countingSource[T]) Subscribe(next func(T)) Subscription {
	s.subscribed.Add(1)
	sub := s.subject.Subscribe(next)
	return NewSubscription(func() {
		s.unsubscribed.Add(1)
		sub.Unsubscribe()
	})
}

func (s *countingSource[T]) emit(v T) { s.subject.Next(v) }

// activeReadsOf counts goroutines whose active read is c.
func activeReadsOf(c activeCell) int {
	n := 0
	trackingContexts.Range(func(_, value any) bool {
		if value.(*trackingContext).active == c {
			n++
		}
		return true
	})
	return n
}
