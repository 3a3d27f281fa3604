package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for update duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collector.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "reactive",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// Metrics collects Prometheus metrics for reactive components. It is both a
// reactive.Observer, provided to components under reactive.ObserverKey, and
// a reactive.Middleware wrapping their Update calls.
type Metrics struct {
	initsTotal     *prometheus.CounterVec
	writesTotal    *prometheus.CounterVec
	bindsTotal     *prometheus.CounterVec
	unbindsTotal   *prometheus.CounterVec
	cancelledTotal *prometheus.CounterVec
	liveInstances  *prometheus.GaugeVec
	updatesTotal   *prometheus.CounterVec
	updateDuration *prometheus.HistogramVec
	changedProps   *prometheus.HistogramVec
	feedClients    prometheus.Gauge
	sourceErrors   *prometheus.CounterVec
}

// globalMetrics is the singleton metrics instance.
// Created on first call to Prometheus().
var (
	globalMetrics   *Metrics
	globalMetricsMu sync.Mutex
)

// initMetrics initializes the Prometheus metrics.
func initMetrics(config MetricsConfig) *Metrics {
	factory := promauto.With(config.Registry)

	return &Metrics{
		initsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "inits_total",
			Help:        "Total number of initialized component instances",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		writesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Total number of tracked writes to state cells",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "property"}),

		bindsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "binds_total",
			Help:        "Total number of cell subscriptions to sources",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "property"}),

		unbindsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "unbinds_total",
			Help:        "Total number of subscriptions cancelled by unbind or rebinding",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "property"}),

		cancelledTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "teardown_cancellations_total",
			Help:        "Total number of subscriptions cancelled by teardown",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		liveInstances: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_instances",
			Help:        "Number of initialized, not yet torn down instances",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		updatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "updates_total",
			Help:        "Total number of Update invocations",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "first"}),

		updateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "update_duration_seconds",
			Help:        "Update callback duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),

		changedProps: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "update_changed_properties",
			Help:        "Number of changed properties delivered per update",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32},
		}, []string{"component"}),

		feedClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "feed_clients",
			Help:        "Number of connected change-feed clients",
			ConstLabels: config.ConstLabels,
		}),

		sourceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "source_errors_total",
			Help:        "Total source errors by source kind",
			ConstLabels: config.ConstLabels,
		}, []string{"source"}),
	}
}

// Prometheus returns the process-wide metrics collector, creating and
// registering it on first use. Options are honored only by the first call.
//
// Metrics collected:
//   - reactive_inits_total: Counter of initialized instances by component
//   - reactive_writes_total: Counter of tracked writes by component and property
//   - reactive_binds_total / reactive_unbinds_total: subscription churn
//   - reactive_teardown_cancellations_total: subscriptions cancelled by Deinit
//   - reactive_live_instances: Gauge of live instances by component
//   - reactive_updates_total: Counter of Update calls by component and first
//   - reactive_update_duration_seconds: Histogram of Update duration
//   - reactive_update_changed_properties: Histogram of change-set sizes
//   - reactive_feed_clients: Gauge of change-feed clients (RecordFeedConnect)
//   - reactive_source_errors_total: Counter of source errors (RecordSourceError)
//
// Example:
//
//	m := middleware.Prometheus(middleware.WithNamespace("myapp"))
//	h := host.New(host.WithObserver(m))
//	c := NewCounter(h.Injector(), reactive.WithMiddleware(m))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Initialize metrics once
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	return globalMetrics
}

// Handle implements reactive.Middleware.
func (m *Metrics) Handle(ctx context.Context, info reactive.UpdateInfo, next func(ctx context.Context)) {
	start := time.Now()
	next(ctx)

	m.updateDuration.WithLabelValues(info.Component).Observe(time.Since(start).Seconds())
	m.updatesTotal.WithLabelValues(info.Component, strconv.FormatBool(info.First)).Inc()
	m.changedProps.WithLabelValues(info.Component).Observe(float64(len(info.Changes)))
}

// OnInit implements reactive.Observer.
func (m *Metrics) OnInit(component string, cells int) {
	m.initsTotal.WithLabelValues(component).Inc()
	m.liveInstances.WithLabelValues(component).Inc()
}

// OnWrite implements reactive.Observer.
func (m *Metrics) OnWrite(component, property string) {
	m.writesTotal.WithLabelValues(component, property).Inc()
}

// OnBind implements reactive.Observer.
func (m *Metrics) OnBind(component, property string) {
	m.bindsTotal.WithLabelValues(component, property).Inc()
}

// OnUnbind implements reactive.Observer.
func (m *Metrics) OnUnbind(component, property string) {
	m.unbindsTotal.WithLabelValues(component, property).Inc()
}

// OnDeinit implements reactive.Observer.
func (m *Metrics) OnDeinit(component string, cancelled int) {
	m.liveInstances.WithLabelValues(component).Dec()
	m.cancelledTotal.WithLabelValues(component).Add(float64(cancelled))
}

var (
	_ reactive.Observer   = (*Metrics)(nil)
	_ reactive.Middleware = (*Metrics)(nil)
)

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordFeedConnect records a change-feed client connecting.
func RecordFeedConnect() {
	if m := current(); m != nil {
		m.feedClients.Inc()
	}
}

// RecordFeedDisconnect records a change-feed client going away.
func RecordFeedDisconnect() {
	if m := current(); m != nil {
		m.feedClients.Dec()
	}
}

// RecordSourceError records a failure reported by a source of the given
// kind ("file", "websocket", "s3", ...).
func RecordSourceError(kind string) {
	if m := current(); m != nil {
		m.sourceErrors.WithLabelValues(kind).Inc()
	}
}

func current() *Metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}
