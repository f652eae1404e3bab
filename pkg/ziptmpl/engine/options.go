package engine

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/observability"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/store"
)

// settings holds engine construction options.
type settings struct {
	syntax         ziptmpl.Syntax
	store          store.Store
	storePath      string
	cacheSize      int
	cacheTTL       time.Duration
	logger         *slog.Logger
	metricsEnabled bool
	tracingEnabled bool
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	renderDefaults []ziptmpl.Option
}

// defaultSettings returns the default engine configuration.
func defaultSettings() settings {
	return settings{
		syntax: ziptmpl.DefaultSyntax,
	}
}

// Option configures an Engine.
type Option func(*settings)

// WithSyntax sets the placeholder markers.
// Default: ziptmpl.DefaultSyntax ("{{" and "}}")
func WithSyntax(syntax ziptmpl.Syntax) Option {
	return func(s *settings) {
		s.syntax = syntax
	}
}

// WithStore persists parsed templates so later engines skip parsing.
// The caller keeps ownership: Close does not close it.
//
// Example:
//
//	st, _ := store.NewSQLiteStore("./templates.db")
//	defer st.Close()
//	e, _ := engine.New(engine.WithStore(st))
func WithStore(st store.Store) Option {
	return func(s *settings) {
		s.store = st
		s.storePath = ""
	}
}

// WithStorePath opens a SQLite store at path when the engine is created.
// The engine owns it and closes it on Close. ":memory:" is allowed.
func WithStorePath(path string) Option {
	return func(s *settings) {
		s.storePath = path
		s.store = nil
	}
}

// WithCacheSize bounds the number of cached parsed templates.
// Default: 0 (unbounded)
func WithCacheSize(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.cacheSize = n
		}
	}
}

// WithCacheTTL expires cached parsed templates after ttl.
// Default: 0 (never)
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl >= 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithLogger enables debug logging of cache, parse and render activity.
// Default: nil (no logging)
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics on the global meter provider.
// Default: false
func WithMetrics(enabled bool) Option {
	return func(s *settings) {
		s.metricsEnabled = enabled
	}
}

// WithTracing enables OpenTelemetry spans on the global tracer provider.
// Default: false
func WithTracing(enabled bool) Option {
	return func(s *settings) {
		s.tracingEnabled = enabled
	}
}

// WithMetricsRecorder sets the recorder used when metrics are enabled.
// Implies WithMetrics(true).
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(s *settings) {
		s.metrics = m
		s.metricsEnabled = m != nil
	}
}

// WithSpanManager sets the span manager used when tracing is enabled.
// Implies WithTracing(true).
func WithSpanManager(sm observability.SpanManager) Option {
	return func(s *settings) {
		s.spans = sm
		s.tracingEnabled = sm != nil
	}
}

// WithRenderDefaults sets render options applied before per-call options.
//
// Example:
//
//	e, _ := engine.New(engine.WithRenderDefaults(
//	    ziptmpl.WithStrict(true),
//	    ziptmpl.WithEscape(html.EscapeString),
//	))
func WithRenderDefaults(opts ...ziptmpl.Option) Option {
	return func(s *settings) {
		s.renderDefaults = append(s.renderDefaults, opts...)
	}
}
