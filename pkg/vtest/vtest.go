package vtest

import (
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/vango-dev/reactive/pkg/host"
	"github.com/vango-dev/reactive/pkg/reactive"
)

// HostBuilder allows fluent construction of test hosts.
type HostBuilder struct {
	t    testing.TB
	opts []host.Option
}

// NewHost creates a new host builder whose logger writes to t.Log.
//
// Example:
//
//	h := vtest.NewHost(t).WithObserver(rec).Build()
func NewHost(t testing.TB) *HostBuilder {
	return &HostBuilder{
		t:    t,
		opts: []host.Option{host.WithLogger(Logger(t))},
	}
}

// WithObserver provides o to mounted components.
func (b *HostBuilder) WithObserver(o reactive.Observer) *HostBuilder {
	b.opts = append(b.opts, host.WithObserver(o))
	return b
}

// WithProvider registers an additional capability.
//
// Example:
//
//	h := vtest.NewHost(t).WithProvider(clockKey, fake).Build()
func (b *HostBuilder) WithProvider(key, value any) *HostBuilder {
	b.opts = append(b.opts, host.WithProvider(key, value))
	return b
}

// Build returns the host.
func (b *HostBuilder) Build() *host.Host {
	return host.New(b.opts...)
}

// Logger returns a debug-level logger writing to t.Log.
func Logger(t testing.TB) *slog.Logger {
	return slog.New(slog.NewTextHandler(logWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type logWriter struct {
	t testing.TB
}

func (w logWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// Mount constructs a component with the host injector and mounts it. The
// component is destroyed when the test ends.
//
// Example:
//
//	c, f := vtest.Mount(t, h, NewCounter)
func Mount[C any](t testing.TB, h *host.Host, build func(reactive.Injector) C) (C, *host.Fixture) {
	t.Helper()
	c := build(h.Injector())
	f := h.Mount(c)
	t.Cleanup(f.Destroy)
	return c, f
}

// Detect runs one detection cycle and fails the test on error.
func Detect(t testing.TB, f *host.Fixture) {
	t.Helper()
	if err := f.DetectChanges(); err != nil {
		t.Fatalf("DetectChanges: %v", err)
	}
}

// ExpectView asserts that the last rendered view equals want.
func ExpectView(t testing.TB, f *host.Fixture, want string) {
	t.Helper()
	if got := f.Text(); got != want {
		t.Errorf("expected view %q, got %q", want, truncate(got, 500))
	}
}

// ExpectViewContains asserts that the last rendered view contains expected.
//
// Example:
//
//	vtest.ExpectViewContains(t, f, "Welcome")
func ExpectViewContains(t testing.TB, f *host.Fixture, expected string) {
	t.Helper()
	view := f.Text()
	if !strings.Contains(view, expected) {
		t.Errorf("expected view to contain %q, got:\n%s", expected, truncate(view, 500))
	}
}

// ExpectChanged asserts that exactly names changed.
//
// Example:
//
//	changes, _ := reactive.ComputeChanges(c)
//	vtest.ExpectChanged(t, changes, "Count", "Label")
func ExpectChanged(t testing.TB, changes reactive.Changes, names ...string) {
	t.Helper()
	got := changes.Names()
	want := append([]string(nil), names...)
	sort.Strings(want)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected changes %v, got %v", want, got)
	}
}

// ExpectChange asserts the values recorded for one changed property. When
// prev is nil the change must have no previous value.
func ExpectChange[T comparable](t testing.TB, changes reactive.Changes, name string, prev *T, cur T) {
	t.Helper()
	ch := changes[name]
	if ch == nil {
		t.Errorf("expected %s to change, changes: %v", name, changes.Names())
		return
	}
	if v, ok := reactive.Current[T](ch); !ok || v != cur {
		t.Errorf("%s: expected current %v, got %v", name, cur, ch.CurrentValue)
	}
	v, ok := reactive.Previous[T](ch)
	switch {
	case prev == nil && ok:
		t.Errorf("%s: expected no previous value, got %v", name, v)
	case prev != nil && (!ok || v != *prev):
		t.Errorf("%s: expected previous %v, got %v", name, *prev, ch.PreviousValue)
	}
}

// Ptr returns a pointer to v. Handy for ExpectChange.
func Ptr[T any](v T) *T {
	return &v
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
