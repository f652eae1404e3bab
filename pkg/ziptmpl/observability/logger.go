// Package observability provides logging, metrics and tracing helpers for
// the template engine.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// shortDigest is the digest prefix used in log fields.
const shortDigest = 12

// ShortDigest truncates a template digest for display.
func ShortDigest(digest string) string {
	if len(digest) > shortDigest {
		return digest[:shortDigest]
	}
	return digest
}

// EnrichLogger adds template context to a logger.
// Returns a new logger with a template field holding the short digest.
//
// Example:
//
//	enriched := EnrichLogger(logger, digest)
//	enriched.Info("rendering") // includes template
func EnrichLogger(logger *slog.Logger, digest string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("template", ShortDigest(digest)))
}

// LogParse logs a template being split into parts.
// Source is where the parsed form came from: parser or store.
func LogParse(logger *slog.Logger, source string, placeholders int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("template parsed",
		slog.String("source", source),
		slog.Int("placeholders", placeholders),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCacheHit logs a parsed template served from the cache.
func LogCacheHit(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Debug("template cache hit")
}

// LogRenderComplete logs a successful render.
func LogRenderComplete(logger *slog.Logger, outputBytes int, missing int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("template rendered",
		slog.Int("output_bytes", outputBytes),
		slog.Int("missing", missing),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogRenderError logs a failed render.
func LogRenderError(logger *slog.Logger, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("template render failed",
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStoreError logs a template store failure (non-fatal).
func LogStoreError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("template store failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start)) / float64(time.Millisecond)
	}
}
