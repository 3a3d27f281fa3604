// Package middleware provides observability for reactive components.
//
// This package includes:
//   - OpenTelemetry tracing of Update calls
//   - Prometheus metrics for cells, bindings, teardown and updates
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware wraps every Update call of a component in a
// span named "reactive.update <Component>":
//
//	c := NewCounter(h.Injector(), reactive.WithMiddleware(
//	    middleware.OpenTelemetry(),
//	))
//
// Configure with options:
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithIncludeChanges(false),
//	    middleware.WithUpdateFilter(func(info reactive.UpdateInfo) bool {
//	        return !info.First
//	    }),
//	)
//
// # Prometheus Metrics
//
// The Prometheus collector is both a cell observer and update middleware:
//
//	m := middleware.Prometheus()
//	h := host.New(host.WithObserver(m))
//	c := NewCounter(h.Injector(), reactive.WithMiddleware(m))
//
//	http.Handle("/metrics", promhttp.Handler())
package middleware
