package reactive

import "testing"

func TestSubscriptionRunsOnce(t *testing.T) {
	calls := 0
	sub := NewSubscription(func() { calls++ })

	sub.Unsubscribe()
	sub.Unsubscribe()

	if calls != 1 {
		t.Errorf("cancel ran %d times, want 1", calls)
	}

	NewSubscription(nil).Unsubscribe()
}

func TestSubjectMulticast(t *testing.T) {
	s := NewSubject[int]()
	var a, b []int

	subA := s.Subscribe(func(v int) { a = append(a, v) })
	s.Subscribe(func(v int) { b = append(b, v) })

	if s.Observed() != 2 {
		t.Errorf("Observed = %d, want 2", s.Observed())
	}

	s.Next(1)
	subA.Unsubscribe()
	s.Next(2)

	if len(a) != 1 || a[0] != 1 {
		t.Errorf("a = %v, want [1]", a)
	}
	if len(b) != 2 {
		t.Errorf("b = %v, want [1 2]", b)
	}
}

func TestSubjectUnsubscribeDuringNext(t *testing.T) {
	s := NewSubject[int]()
	var got []int

	var second Subscription
	s.Subscribe(func(v int) {
		got = append(got, v)
		second.Unsubscribe()
	})
	second = s.Subscribe(func(v int) {
		t.Errorf("unsubscribed observer received %d", v)
	})

	s.Next(1)

	if len(got) != 1 {
		t.Errorf("got = %v", got)
	}
	if s.Observed() != 1 {
		t.Errorf("Observed = %d, want 1", s.Observed())
	}
}

func TestSubjectComplete(t *testing.T) {
	s := NewSubject[string]()
	received := 0
	s.Subscribe(func(string) { received++ })

	s.Complete()
	s.Next("ignored")
	late := s.Subscribe(func(string) { received++ })
	s.Next("ignored")
	late.Unsubscribe()

	if received != 0 {
		t.Errorf("received %d values after Complete", received)
	}
	if s.Observed() != 0 {
		t.Errorf("Observed = %d after Complete", s.Observed())
	}
}
