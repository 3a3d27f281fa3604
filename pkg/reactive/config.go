package reactive

import (
	"context"
	"log/slog"
)

// =============================================================================
// Debug Mode
// =============================================================================

// DebugMode enables debug logging of instance lifecycles.
// Set it at startup; it is not meant to change while components run.
//
//	reactive.DebugMode = os.Getenv("REACTIVE_DEBUG") == "1"
var DebugMode = false

// =============================================================================
// Update Middleware
// =============================================================================

// UpdateInfo describes one invocation of a component's Update callback.
type UpdateInfo struct {
	// Component is the Go type name of the component.
	Component string

	// First is true for the update issued by OnInit.
	First bool

	// Changes is the merged change set passed to Update.
	Changes Changes
}

// Middleware wraps Update invocations.
type Middleware interface {
	// Handle runs around one update. It must call next exactly once unless
	// it intends to skip the update.
	Handle(ctx context.Context, info UpdateInfo, next func(ctx context.Context))
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx context.Context, info UpdateInfo, next func(ctx context.Context))

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx context.Context, info UpdateInfo, next func(ctx context.Context)) {
	f(ctx, info, next)
}

// =============================================================================
// Options
// =============================================================================

// Option configures a Reactive base.
type Option func(*options)

type options struct {
	middleware []Middleware
	ctx        context.Context
	logger     *slog.Logger
}

// WithMiddleware appends update middleware. The first one given is the
// outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, mw...)
	}
}

// WithContext sets the context passed through the middleware chain.
// Defaults to context.Background().
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

// WithLogger sets the logger used by the base. When absent the logger
// resolved from the injector is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) options {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ctx == nil {
		o.ctx = context.Background()
	}
	return o
}

// chain composes mw around final.
func chain(mw []Middleware, info UpdateInfo, final func(ctx context.Context)) func(ctx context.Context) {
	next := final
	for i := len(mw) - 1; i >= 0; i-- {
		m, inner := mw[i], next
		next = func(ctx context.Context) {
			m.Handle(ctx, info, inner)
		}
	}
	return next
}
