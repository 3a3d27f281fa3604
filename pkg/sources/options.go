package sources

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/zoobzio/clockz"
)

// Option configures a source.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	clock     clockz.Clock
	format    Format
	onError   func(error)
	reconnect time.Duration
	header    http.Header
}

func defaultOptions() options {
	return options{
		logger: slog.Default(),
		clock:  clockz.RealClock,
		format: FormatAuto,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used to report failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the clock driving timers.
// Use this with clockz.FakeClock for deterministic tests.
func WithClock(clock clockz.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithFormat sets the payload format of decoding sources.
func WithFormat(format Format) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithErrorHandler sets a callback receiving decode and transport errors.
// It runs on the source goroutine.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// WithReconnect makes the WebSocket source redial after delay when the
// connection fails. Without it the subscription stops on the first error.
func WithReconnect(delay time.Duration) Option {
	return func(o *options) {
		o.reconnect = delay
	}
}

// WithHeader sets the request header of the WebSocket handshake.
func WithHeader(header http.Header) Option {
	return func(o *options) {
		o.header = header
	}
}
