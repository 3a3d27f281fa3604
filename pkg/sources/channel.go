package sources

import (
	"context"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Channel returns a source forwarding values received from ch.
//
// Subscriptions stop when ch is closed or when they are cancelled.
// Concurrent subscriptions compete for values; use reactive.Subject to
// multicast.
func Channel[T any](ch <-chan T, opts ...Option) reactive.Source[T] {
	o := applyOptions(opts)
	return reactive.SourceFunc[T](func(next func(T)) reactive.Subscription {
		p := newProducer("channel", "", o)
		return p.start(func(ctx context.Context) {
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-ch:
					if !ok {
						return
					}
					if !deliver(ctx, p, next, v) {
						return
					}
				}
			}
		})
	})
}
