package middleware

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Default tracer name for reactive components.
const defaultTracerName = "reactive"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "reactive").
	TracerName string

	// TracerProvider resolves the tracer. Defaults to the global provider.
	TracerProvider trace.TracerProvider

	// IncludeChanges records the changed property names on the span.
	// Enabled by default.
	IncludeChanges bool

	// Filter determines which updates to trace.
	// Return true to trace the update, false to skip.
	// If nil, all updates are traced.
	Filter func(info reactive.UpdateInfo) bool

	// AttributeExtractor adds custom attributes for each traced update.
	AttributeExtractor func(info reactive.UpdateInfo) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeChanges enables/disables recording changed property names.
func WithIncludeChanges(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeChanges = include
	}
}

// WithUpdateFilter sets a filter function for updates.
func WithUpdateFilter(filter func(info reactive.UpdateInfo) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(info reactive.UpdateInfo) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:     defaultTracerName,
		IncludeChanges: true,
		Filter:         nil,
	}
}

// OpenTelemetry creates middleware that traces every Update call.
//
// The middleware:
//   - Creates a span "reactive.update <Component>" for each update
//   - Records the first-cycle flag and the change-set size (and names)
//   - Passes the span context down the chain and to ContextUpdater components
//   - Marks the span as failed and re-panics when Update panics
//
// Example:
//
//	c := NewCounter(h.Injector(), reactive.WithMiddleware(
//	    middleware.OpenTelemetry(middleware.WithTracerName("my-app")),
//	))
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main():
//
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) reactive.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Resolve tracer
	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}

	return reactive.MiddlewareFunc(func(ctx context.Context, info reactive.UpdateInfo, next func(ctx context.Context)) {
		// Apply filter if configured
		if config.Filter != nil && !config.Filter(info) {
			next(ctx)
			return
		}

		attrs := []attribute.KeyValue{
			attribute.String("reactive.component", info.Component),
			attribute.Bool("reactive.first", info.First),
			attribute.Int("reactive.change_count", len(info.Changes)),
		}
		if config.IncludeChanges {
			attrs = append(attrs, attribute.StringSlice("reactive.changes", info.Changes.Names()))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(info)...)
		}

		spanCtx, span := config.tracer.Start(
			ctx,
			formatSpanName(info),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("update panicked: %v", r)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				panic(r)
			}
		}()

		next(spanCtx)
		span.SetStatus(codes.Ok, "")
	})
}

// formatSpanName creates a span name for an update.
func formatSpanName(info reactive.UpdateInfo) string {
	component := strings.TrimSpace(info.Component)
	if component == "" {
		component = "component"
	}
	return "reactive.update " + component
}

// SpanFromContext returns the span opened by the middleware for the current
// update, or nil when the update is not traced.
//
// Example:
//
//	func (c *Search) UpdateContext(ctx context.Context, changes reactive.Changes, first bool) {
//	    if span := middleware.SpanFromContext(ctx); span != nil {
//	        span.SetAttributes(attribute.Int("search.results", c.Results.Peek()))
//	    }
//	}
func SpanFromContext(ctx context.Context) trace.Span {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() && !span.IsRecording() {
		return nil
	}
	return span
}
