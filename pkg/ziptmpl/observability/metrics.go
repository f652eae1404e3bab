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

// Parse sources reported by RecordParse and LogParse.
const (
	SourceParser = "parser"
	SourceStore  = "store"
)

// MetricsRecorder records template engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordParse records a cache miss resolved from source.
	RecordParse(ctx context.Context, source string, placeholders int)

	// RecordRender records a render with its latency, output size and error status.
	RecordRender(ctx context.Context, duration time.Duration, outputBytes int, err error)

	// RecordMissing records placeholders that had no value during a render.
	RecordMissing(ctx context.Context, count int, strict bool)

	// RecordCacheLookup records a parsed-template cache lookup.
	RecordCacheLookup(ctx context.Context, hit bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	parses        metric.Int64Counter
	renders       metric.Int64Counter
	renderLatency metric.Float64Histogram
	outputSize    metric.Int64Histogram
	missing       metric.Int64Counter
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
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.GetMeterProvider())
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates the instruments on a meter from provider.
func newOtelMetrics(provider metric.MeterProvider) (*otelMetrics, error) {
	meter := provider.Meter("ziptmpl")

	parses, err := meter.Int64Counter("ziptmpl.parse.count",
		metric.WithDescription("Number of templates parsed or loaded on a cache miss"),
	)
	if err != nil {
		return nil, err
	}

	renders, err := meter.Int64Counter("ziptmpl.render.count",
		metric.WithDescription("Number of renders"),
	)
	if err != nil {
		return nil, err
	}

	renderLatency, err := meter.Float64Histogram("ziptmpl.render.latency_ms",
		metric.WithDescription("Render latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	outputSize, err := meter.Int64Histogram("ziptmpl.render.output_bytes",
		metric.WithDescription("Rendered output size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	missing, err := meter.Int64Counter("ziptmpl.render.missing",
		metric.WithDescription("Number of placeholders rendered without a value"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter("ziptmpl.cache.lookups",
		metric.WithDescription("Number of parsed-template cache lookups"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		parses:        parses,
		renders:       renders,
		renderLatency: renderLatency,
		outputSize:    outputSize,
		missing:       missing,
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

// NewMetricsRecorderFromProvider returns a MetricsRecorder bound to provider
// instead of the global one.
func NewMetricsRecorderFromProvider(provider metric.MeterProvider) (MetricsRecorder, error) {
	m, err := newOtelMetrics(provider)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordParse records a parse.
func (m *otelMetrics) RecordParse(ctx context.Context, source string, placeholders int) {
	m.parses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.Int("placeholders", placeholders),
	))
}

// RecordRender records a render.
func (m *otelMetrics) RecordRender(ctx context.Context, duration time.Duration, outputBytes int, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.renders.Add(ctx, 1, attrs)
	m.renderLatency.Record(ctx, float64(duration)/float64(time.Millisecond), attrs)
	if err == nil {
		m.outputSize.Record(ctx, int64(outputBytes))
	}
}

// RecordMissing records missing placeholders.
func (m *otelMetrics) RecordMissing(ctx context.Context, count int, strict bool) {
	if count <= 0 {
		return
	}
	m.missing.Add(ctx, int64(count), metric.WithAttributes(attribute.Bool("strict", strict)))
}

// RecordCacheLookup records a cache lookup.
func (m *otelMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}
