package sources

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// producer runs the goroutine behind one subscription.
type producer struct {
	kind     string
	target   string
	interval time.Duration
	opts     options
	emitted  atomic.Int64
}

func newProducer(kind, target string, opts options) *producer {
	return &producer{kind: kind, target: target, opts: opts}
}

// start runs produce on a new goroutine. The returned subscription cancels
// the context passed to produce.
func (p *producer) start(produce func(ctx context.Context)) reactive.Subscription {
	ctx, cancel := context.WithCancel(context.Background())

	if p.interval > 0 {
		capitan.Emit(ctx, SourceStarted,
			KeyKind.Field(p.kind),
			KeyTarget.Field(p.target),
			KeyInterval.Field(p.interval),
		)
	} else {
		capitan.Emit(ctx, SourceStarted,
			KeyKind.Field(p.kind),
			KeyTarget.Field(p.target),
		)
	}

	go func() {
		defer func() {
			capitan.Emit(context.Background(), SourceStopped,
				KeyKind.Field(p.kind),
				KeyTarget.Field(p.target),
				KeyEmitted.Field(int(p.emitted.Load())),
			)
		}()
		produce(ctx)
	}()

	return reactive.NewSubscription(cancel)
}

// fail reports err on signal, the logger and the error handler.
func (p *producer) fail(ctx context.Context, signal capitan.Signal, err error) {
	capitan.Emit(ctx, signal,
		KeyKind.Field(p.kind),
		KeyTarget.Field(p.target),
		KeyError.Field(err.Error()),
	)
	p.opts.logger.Warn("source failed",
		"kind", p.kind,
		"target", p.target,
		"error", err,
	)
	if p.opts.onError != nil {
		p.opts.onError(err)
	}
}

// deliver passes v to next unless the subscription was cancelled.
func deliver[T any](ctx context.Context, p *producer, next func(T), v T) bool {
	if ctx.Err() != nil {
		return false
	}
	next(v)
	p.emitted.Add(1)
	return true
}
