package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/pkg/host"
	"github.com/vango-dev/reactive/pkg/reactive"
	"github.com/vango-dev/reactive/pkg/sources"
)

func runCmd(a *app) *cobra.Command {
	var (
		ticks    int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the heartbeat counter in the console",
		Long: `Run the heartbeat counter in the console.

The counter binds its Count cell to an interval source on its first
update. Every tick marks the view dirty, a change-detection cycle runs
and the rendered view is printed.

Examples:
  reactive-demo run
  reactive-demo run --ticks=10 --interval=250ms
  reactive-demo run --ticks=0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Apply command-line overrides
			if cmd.Flags().Changed("ticks") {
				a.cfg.Run.Ticks = ticks
			}
			if cmd.Flags().Changed("interval") {
				a.cfg.Run.Interval = interval
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src := sources.Interval(a.cfg.Run.Interval, sources.WithLogger(a.logger))
			return a.runHeartbeat(ctx, src, a.cfg.Run.Ticks)
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "n", 0, "Stop once the count reaches this value, 0 runs until interrupted (default from config)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Heartbeat period (default from config)")

	return cmd
}

// runHeartbeat mounts a heartbeat counting ticks and prints its view after
// every cycle that changed the count. It returns once the count reaches
// limit (when positive) or ctx is done.
func (a *app) runHeartbeat(ctx context.Context, ticks reactive.Source[int], limit int) error {
	h := host.New(host.WithLogger(a.logger))
	hb := NewHeartbeat(h.Injector(), ticks, a.logger, nil)

	f := h.Mount(hb)
	defer f.Destroy()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	last := -1
	err := f.Run(ctx, func(view string) {
		count := hb.Count.Peek()
		if count == last {
			return
		}
		last = count
		a.info("%s", view)
		if limit > 0 && count >= limit {
			cancel()
		}
	})
	if err != nil {
		return err
	}

	a.success("Stopped after %d cycles", f.Cycles())
	return nil
}
