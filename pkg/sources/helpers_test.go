package sources

import (
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

type settings struct {
	Name  string `json:"name" yaml:"name" validate:"required"`
	Level int    `json:"level" yaml:"level" validate:"gte=0"`
}

const waitTimeout = 2 * time.Second

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitTimeout):
		var zero T
		t.Fatalf("timed out waiting for a value")
		return zero
	}
}

func expectNone[T any](t *testing.T, ch <-chan T, wait time.Duration) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected value %v", v)
	case <-time.After(wait):
	}
}

// advanceUntil advances clock by step until a value arrives on ch.
func advanceUntil[T any](t *testing.T, clock *clockz.FakeClock, step time.Duration, ch <-chan T) T {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		clock.Advance(step)
		clock.BlockUntilReady()
		select {
		case v := <-ch:
			return v
		case <-time.After(20 * time.Millisecond):
		}
	}
	var zero T
	t.Fatalf("timed out advancing clock")
	return zero
}

func errorSink() (Option, <-chan error) {
	errs := make(chan error, 16)
	return WithErrorHandler(func(err error) {
		select {
		case errs <- err:
		default:
		}
	}), errs
}
