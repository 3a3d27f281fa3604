package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"

	"github.com/vango-dev/reactive/pkg/host"
	"github.com/vango-dev/reactive/pkg/middleware"
	"github.com/vango-dev/reactive/pkg/reactive"
	"github.com/vango-dev/reactive/pkg/sources"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(a *app) *cobra.Command {
	var (
		addr     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve metrics and a live feed of the heartbeat",
		Long: `Serve metrics and a live feed of the heartbeat.

Routes:
  /healthz   liveness probe
  /metrics   Prometheus metrics
  /ws        WebSocket feed of the heartbeat's change sets as JSON

Examples:
  reactive-demo serve
  reactive-demo serve --addr=127.0.0.1:9090 --interval=500ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Apply command-line overrides
			if cmd.Flags().Changed("addr") {
				a.cfg.Serve.Addr = addr
			}
			if cmd.Flags().Changed("interval") {
				a.cfg.Serve.Interval = interval
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Heartbeat period (default from config)")

	return cmd
}

// routes builds the HTTP router.
func (a *app) routes(f *feed) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", f.ServeHTTP)

	return r
}

// serve runs the heartbeat in the background and the HTTP server until
// ctx is done.
func (a *app) serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics := middleware.Prometheus(
		middleware.WithNamespace(a.cfg.Metrics.Namespace),
		middleware.WithSubsystem(a.cfg.Metrics.Subsystem),
	)
	hookSourceMetrics()

	f := newFeed(a.logger)
	defer f.Close()

	h := host.New(host.WithLogger(a.logger), host.WithObserver(metrics))
	hb := NewHeartbeat(h.Injector(),
		sources.Interval(a.cfg.Serve.Interval, sources.WithLogger(a.logger)),
		a.logger,
		f.publisher("Heartbeat"),
		reactive.WithMiddleware(metrics, middleware.OpenTelemetry()),
		reactive.WithContext(ctx),
	)
	fixture := h.Mount(hb)
	defer fixture.Destroy()

	srv := &http.Server{
		Addr:              a.cfg.Serve.Addr,
		Handler:           a.routes(f),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		if err := fixture.Run(ctx, nil); err != nil {
			errCh <- err
		}
	}()
	go func() {
		a.logger.Info("server starting", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
	}
	cancel()

	a.logger.Info("shutting down...")
	f.Close()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

var sourceMetricsOnce sync.Once

// hookSourceMetrics counts source failures in the Prometheus collectors.
func hookSourceMetrics() {
	sourceMetricsOnce.Do(func() {
		count := func(_ context.Context, e *capitan.Event) {
			kind, _ := sources.KeyKind.From(e)
			middleware.RecordSourceError(kind)
		}
		capitan.Hook(sources.SourceError, count)
		capitan.Hook(sources.SourceDecodeFailed, count)
	})
}
