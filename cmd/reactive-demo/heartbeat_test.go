package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/reactive/pkg/host"
	"github.com/vango-dev/reactive/pkg/reactive"
	"github.com/vango-dev/reactive/pkg/sources"
)

func TestHeartbeatCountsTicks(t *testing.T) {
	a, _ := testApp(t)
	ticks := reactive.NewSubject[int]()

	var published []reactive.Changes
	h := host.New(host.WithLogger(a.logger))
	hb := NewHeartbeat(h.Injector(), ticks, a.logger, func(c reactive.Changes) {
		published = append(published, c)
	})
	f := h.Mount(hb)
	defer f.Destroy()

	if err := f.DetectChanges(); err != nil {
		t.Fatalf("DetectChanges() error = %v", err)
	}
	if f.Text() != "heartbeat: 0" {
		t.Errorf("view = %q, want heartbeat: 0", f.Text())
	}
	if !hb.Count.Bound() {
		t.Fatal("Count should be bound after the first update")
	}
	if len(published) != 0 {
		t.Errorf("published %d change sets before any tick", len(published))
	}

	ticks.Next(0)
	if err := f.DetectChanges(); err != nil {
		t.Fatalf("DetectChanges() error = %v", err)
	}
	if f.Text() != "heartbeat: 1" {
		t.Errorf("view = %q, want heartbeat: 1", f.Text())
	}

	ticks.Next(1)
	f.DetectChanges()
	if f.Text() != "heartbeat: 2" {
		t.Errorf("view = %q, want heartbeat: 2", f.Text())
	}

	if len(published) != 2 {
		t.Fatalf("published %d change sets, want 2", len(published))
	}
	prev, _ := reactive.Previous[int](published[1]["Count"])
	cur, _ := reactive.Current[int](published[1]["Count"])
	if prev != 1 || cur != 2 {
		t.Errorf("second change = %d -> %d, want 1 -> 2", prev, cur)
	}
}

func TestHeartbeatDestroyUnsubscribes(t *testing.T) {
	a, _ := testApp(t)
	ticks := reactive.NewSubject[int]()

	h := host.New(host.WithLogger(a.logger))
	f := h.Mount(NewHeartbeat(h.Injector(), ticks, a.logger, nil))
	f.DetectChanges()

	if ticks.Observed() != 1 {
		t.Fatalf("Observed() = %d, want 1", ticks.Observed())
	}
	f.Destroy()
	if ticks.Observed() != 0 {
		t.Errorf("Observed() after destroy = %d, want 0", ticks.Observed())
	}
}

func TestRunHeartbeatStopsAtLimit(t *testing.T) {
	a, out := testApp(t)

	ch := make(chan int, 3)
	ch <- 0
	ch <- 1
	ch <- 2

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.runHeartbeat(ctx, sources.Channel(ch), 3); err != nil {
		t.Fatalf("runHeartbeat() error = %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("runHeartbeat() returned only after the deadline")
	}

	text := out.String()
	if !strings.Contains(text, "heartbeat: 3") {
		t.Errorf("output = %q", text)
	}
	if !strings.Contains(text, "Stopped after") {
		t.Errorf("output missing summary: %q", text)
	}
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "--ticks=2", "--interval=5ms")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, "heartbeat: ") || !strings.Contains(out, "Stopped after") {
		t.Errorf("output = %q", out)
	}
}

func TestRunCommandRejectsInvalidInterval(t *testing.T) {
	_, err := execute(t, "run", "--interval=-1s")
	if err == nil {
		t.Error("expected an error for a negative interval")
	}
}

func TestHeartbeatLogsRejectedViewUpdate(t *testing.T) {
	logs := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	h := host.New(host.WithLogger(logger))
	called := false
	hb := NewHeartbeat(h.Injector(), reactive.NewSubject[int](), logger, func(reactive.Changes) {
		called = true
	})

	// Outside of a detection cycle there is no view to defer to.
	hb.Update(reactive.Changes{"Count": &reactive.Change{CurrentValue: 1}}, false)

	if called {
		t.Error("onChange ran outside of a detection cycle")
	}
	if !strings.Contains(logs.String(), "publish heartbeat") {
		t.Errorf("logs = %q, want the rejected view update", logs.String())
	}
}

func TestRunPrintsCodedErrors(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "version"})

	var stderr bytes.Buffer
	if code := run(cmd, &stderr); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	for _, want := range []string{"R081", "Configuration file unreadable", "--config"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("stderr missing %q: %q", want, stderr.String())
		}
	}
}

func TestRunExitsZero(t *testing.T) {
	t.Chdir(t.TempDir())
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"version", "--short"})

	var stderr bytes.Buffer
	if code := run(cmd, &stderr); code != 0 {
		t.Errorf("exit code = %d, want 0; stderr = %q", code, stderr.String())
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("output = %q, want %q", out, version)
	}
}
