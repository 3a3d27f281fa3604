package vtest_test

import (
	"fmt"
	"testing"

	"github.com/vango-dev/reactive/pkg/reactive"
	"github.com/vango-dev/reactive/pkg/vtest"
)

type Counter struct {
	reactive.Reactive

	Count *reactive.State[int]
	Label *reactive.State[string]
}

func NewCounter(inj reactive.Injector) *Counter {
	c := &Counter{
		Count: reactive.NewState(0),
		Label: reactive.NewState("count"),
	}
	c.Setup(c, inj)
	return c
}

func (c *Counter) Update(reactive.Changes, bool) {}

func (c *Counter) Render() string {
	return fmt.Sprintf("%s: %d", c.Label.Peek(), c.Count.Peek())
}

func TestMountAndDetect(t *testing.T) {
	c, f := vtest.Mount(t, vtest.NewHost(t).Build(), NewCounter)

	vtest.Detect(t, f)
	vtest.ExpectView(t, f, "count: 0")

	c.Count.Set(2)
	vtest.Detect(t, f)
	vtest.ExpectViewContains(t, f, ": 2")
}

func TestExpectChange(t *testing.T) {
	c, f := vtest.Mount(t, vtest.NewHost(t).Build(), NewCounter)
	vtest.Detect(t, f)

	c.Count.Set(1)
	c.Count.Set(5)
	c.Label.Set("n")

	changes, err := reactive.ComputeChanges(c)
	if err != nil {
		t.Fatal(err)
	}
	vtest.ExpectChanged(t, changes, "Label", "Count")
	vtest.ExpectChange(t, changes, "Count", vtest.Ptr(1), 5)
	vtest.ExpectChange(t, changes, "Label", vtest.Ptr("count"), "n")
}

func TestRecorder(t *testing.T) {
	rec := vtest.NewRecorder()
	c, f := vtest.Mount(t, vtest.NewHost(t).WithObserver(rec).Build(), NewCounter)
	vtest.Detect(t, f)

	src := vtest.NewSource[int]()
	if err := reactive.Bind(c.Count, reactive.Source[int](src)); err != nil {
		t.Fatal(err)
	}
	src.Emit(3)
	f.Destroy()

	want := []string{"init Counter", "bind Counter.Count", "write Counter.Count", "deinit Counter"}
	events := rec.Events()
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i, e := range events {
		if e.String() != want[i] {
			t.Errorf("event %d = %q, want %q", i, e, want[i])
		}
	}
	if events[0].Count != 2 {
		t.Errorf("init cells = %d, want 2", events[0].Count)
	}
	if events[3].Count != 1 {
		t.Errorf("deinit cancelled = %d, want 1", events[3].Count)
	}
	if rec.Count("write") != 1 {
		t.Errorf("Count(write) = %d", rec.Count("write"))
	}

	rec.Reset()
	if len(rec.Events()) != 0 {
		t.Error("Reset should drop events")
	}
}

func TestSource(t *testing.T) {
	src := vtest.NewSource[string]()
	var got []string

	sub := src.Subscribe(func(v string) { got = append(got, v) })
	src.Emit("a")
	sub.Unsubscribe()
	sub.Unsubscribe()
	src.Emit("b")

	vtest.ExpectSubscriptions(t, src, 1, 1)
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("got = %v", got)
	}
	if e := src.Emitted(); len(e) != 2 {
		t.Errorf("Emitted = %v", e)
	}
	if src.Live() != 0 {
		t.Errorf("Live = %d", src.Live())
	}
}
