package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records docmatch metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records a single document evaluation.
	RecordEvaluation(ctx context.Context, matched bool, duration time.Duration, err error)

	// RecordFilter records a batch filter run.
	RecordFilter(ctx context.Context, scanned, matched int, duration time.Duration, err error)

	// RecordCacheLookup records a compiled-query cache lookup.
	RecordCacheLookup(ctx context.Context, hit bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	evaluations   metric.Int64Counter
	evalLatency   metric.Float64Histogram
	invalidQuery  metric.Int64Counter
	filterRuns    metric.Int64Counter
	filterLatency metric.Float64Histogram
	scanned       metric.Int64Counter
	cacheLookups  metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("docmatch")

	evaluations, err := meter.Int64Counter("docmatch.evaluations",
		metric.WithDescription("Number of document evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalLatency, err := meter.Float64Histogram("docmatch.evaluation.latency_ms",
		metric.WithDescription("Document evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	invalidQuery, err := meter.Int64Counter("docmatch.evaluation.errors",
		metric.WithDescription("Number of evaluations rejected as invalid queries"),
	)
	if err != nil {
		return nil, err
	}

	filterRuns, err := meter.Int64Counter("docmatch.filter.runs",
		metric.WithDescription("Number of batch filter runs"),
	)
	if err != nil {
		return nil, err
	}

	filterLatency, err := meter.Float64Histogram("docmatch.filter.latency_ms",
		metric.WithDescription("Batch filter latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	scanned, err := meter.Int64Counter("docmatch.filter.documents",
		metric.WithDescription("Number of documents scanned by filter runs"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter("docmatch.cache.lookups",
		metric.WithDescription("Compiled query cache lookups"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations:   evaluations,
		evalLatency:   evalLatency,
		invalidQuery:  invalidQuery,
		filterRuns:    filterRuns,
		filterLatency: filterLatency,
		scanned:       scanned,
		cacheLookups:  cacheLookups,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvaluation records a single document evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, matched bool, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.Bool("matched", matched),
	}

	m.evaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.evalLatency.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(attrs...))

	if err != nil {
		m.invalidQuery.Add(ctx, 1)
	}
}

// RecordFilter records a batch filter run.
func (m *otelMetrics) RecordFilter(ctx context.Context, scanned, matched int, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
	}
	m.filterRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.filterLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.scanned.Add(ctx, int64(scanned), metric.WithAttributes(attribute.String("outcome", "scanned")))
	m.scanned.Add(ctx, int64(matched), metric.WithAttributes(attribute.String("outcome", "matched")))
}

// RecordCacheLookup records a compiled-query cache lookup.
func (m *otelMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}
