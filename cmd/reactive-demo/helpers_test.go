package main

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/vango-dev/reactive/internal/config"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testApp(t *testing.T) (*app, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	return &app{
		cfg:    config.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		out:    out,
	}, out
}

// execute runs the root command with args in a clean working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	out := &syncBuffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
