package main

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Heartbeat counts ticks of a source. Count is bound on the first update
// and every change is logged and handed to onChange.
type Heartbeat struct {
	reactive.Reactive

	Count *reactive.State[int]

	ticks    reactive.Source[int]
	logger   *slog.Logger
	onChange func(reactive.Changes)
}

// NewHeartbeat creates a heartbeat counting ticks. onChange may be nil.
func NewHeartbeat(inj reactive.Injector, ticks reactive.Source[int], logger *slog.Logger, onChange func(reactive.Changes), opts ...reactive.Option) *Heartbeat {
	h := &Heartbeat{
		Count:    reactive.NewState(0),
		ticks:    ticks,
		logger:   logger,
		onChange: onChange,
	}
	h.Setup(h, inj, append(opts, reactive.WithLogger(logger))...)
	return h
}

// Update implements reactive.Updater.
func (h *Heartbeat) Update(changes reactive.Changes, first bool) {
	if first {
		next := reactive.Map(h.ticks, func(x int) int { return x + 1 })
		if err := reactive.Bind(h.Count, next); err != nil {
			h.logger.Error("bind heartbeat", "error", err)
		}
	}

	if reactive.UpdateOn(changes["Count"]) {
		count := h.Count.Peek()
		h.logger.Info("count changed", "count", count)
		if h.onChange != nil {
			if err := reactive.ViewUpdate(func() { h.onChange(changes) }); err != nil {
				h.logger.Error("publish heartbeat", "error", err)
			}
		}
	}
}

// Render implements host.Renderer.
func (h *Heartbeat) Render() string {
	return fmt.Sprintf("heartbeat: %d", h.Count.Peek())
}
