package sources

import (
	"context"
	"time"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Interval returns a source emitting 0, 1, 2, ... every period.
// The first value arrives one period after Subscribe.
//
// Each subscription counts from zero on its own timer. A non-positive
// period is treated as one millisecond.
func Interval(period time.Duration, opts ...Option) reactive.Source[int] {
	if period <= 0 {
		period = time.Millisecond
	}
	o := applyOptions(opts)
	return reactive.SourceFunc[int](func(next func(int)) reactive.Subscription {
		p := newProducer("interval", period.String(), o)
		p.interval = period
		timer := o.clock.NewTimer(period)
		return p.start(func(ctx context.Context) {
			defer timer.Stop()
			for n := 0; ; n++ {
				select {
				case <-ctx.Done():
					return
				case <-timer.C():
				}
				// Re-arm before delivering so the next tick does not depend on
				// how long next takes.
				timer.Reset(period)
				if !deliver(ctx, p, next, n) {
					return
				}
			}
		})
	})
}
