package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/cache"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/observability"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/store"
)

// ErrClosed is returned by operations on a closed Engine.
var ErrClosed = errors.New("engine closed")

// Engine parses each distinct template text once and renders it many times.
// Parsed templates are kept in a cache and, when a store is configured,
// persisted across processes.
//
// Engine is safe for concurrent use.
type Engine struct {
	parser    *ziptmpl.Parser
	syntax    ziptmpl.Syntax
	cache     *cache.Cache[*ziptmpl.ParsedTemplate]
	store     store.Store
	ownsStore bool
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
	defaults  []ziptmpl.Option

	// mu is held shared by in-flight parses and exclusively by Close.
	mu     sync.RWMutex
	closed bool
}

// New creates an Engine.
//
// Returns an error if the syntax is invalid or the store cannot be opened.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	parser, err := ziptmpl.NewParser(cfg.syntax)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		parser:   parser,
		syntax:   cfg.syntax,
		cache:    cache.New[*ziptmpl.ParsedTemplate](cache.WithMaxSize(cfg.cacheSize), cache.WithTTL(cfg.cacheTTL)),
		store:    cfg.store,
		logger:   cfg.logger,
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
		defaults: cfg.renderDefaults,
	}

	if cfg.storePath != "" {
		st, err := store.NewSQLiteStore(cfg.storePath)
		if err != nil {
			return nil, fmt.Errorf("open template store: %w", err)
		}
		e.store = st
		e.ownsStore = true
	}

	if cfg.metricsEnabled {
		e.metrics = cfg.metrics
		if e.metrics == nil {
			e.metrics = observability.NewMetricsRecorder()
		}
	}
	if cfg.tracingEnabled {
		e.spans = cfg.spans
		if e.spans == nil {
			e.spans = observability.NewSpanManager()
		}
	}

	return e, nil
}

// Syntax returns the placeholder markers the engine parses with.
func (e *Engine) Syntax() ziptmpl.Syntax {
	return e.syntax
}

// Key returns the identity under which text is cached and stored.
// It is text itself for the default syntax and is qualified by the
// markers otherwise, so engines with different markers can share a store.
func (e *Engine) Key(text string) string {
	if e.syntax == ziptmpl.DefaultSyntax {
		return text
	}
	return e.syntax.Start + "\x00" + e.syntax.End + "\x00" + text
}

// Parse returns the parsed form of text, parsing it at most once per engine.
// On a cache miss the store is consulted before parsing, and freshly parsed
// templates are saved to it. A failed save is logged, not returned.
func (e *Engine) Parse(ctx context.Context, text string) (*ziptmpl.ParsedTemplate, error) {
	key := e.Key(text)
	return e.parse(ctx, key, text, observability.EnrichLogger(e.logger, store.Digest(key)))
}

func (e *Engine) parse(ctx context.Context, key, text string, logger *slog.Logger) (*ziptmpl.ParsedTemplate, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created := false
	t, err := e.cache.GetOrCreate(key, func() (*ziptmpl.ParsedTemplate, error) {
		created = true
		return e.load(ctx, key, text, logger)
	})

	e.metrics.RecordCacheLookup(ctx, !created)
	if err != nil {
		return nil, err
	}
	if !created {
		observability.LogCacheHit(logger)
		e.spans.AddSpanEvent(ctx, "cache.hit",
			attribute.Int("placeholders", t.NumPlaceholders()))
	}
	return t, nil
}

// load resolves a cache miss from the store or the parser.
func (e *Engine) load(ctx context.Context, key, text string, logger *slog.Logger) (t *ziptmpl.ParsedTemplate, err error) {
	ctx, span := e.spans.StartParseSpan(ctx, store.Digest(key))
	defer func() {
		e.spans.EndSpanWithError(span, err)
	}()

	done := observability.TimedOperation()
	source := observability.SourceParser

	if e.store != nil {
		t, err = e.store.Load(key)
		switch {
		case err == nil:
			source = observability.SourceStore
		case errors.Is(err, store.ErrNotFound):
			t = nil
		default:
			observability.LogStoreError(logger, "load", err)
			return nil, fmt.Errorf("load template: %w", err)
		}
	}

	if t == nil {
		t = e.parser.Parse(text)
		if e.store != nil {
			if saveErr := e.store.Save(key, t); saveErr != nil {
				observability.LogStoreError(logger, "save", saveErr)
			}
		}
	}

	e.metrics.RecordParse(ctx, source, t.NumPlaceholders())
	observability.LogParse(logger, source, t.NumPlaceholders(), done())
	return t, nil
}

// Render parses text (see Parse) and renders it against values.
// The engine's render defaults apply first, then opts.
//
// Example:
//
//	out, err := e.Render(ctx, "Hello, {{user.name}}!", ziptmpl.Mapping{
//	    "user": map[string]any{"name": "Sam"},
//	})
func (e *Engine) Render(ctx context.Context, text string, values ziptmpl.ValueSource, opts ...ziptmpl.Option) (out string, err error) {
	cfg := ziptmpl.NewRenderConfig(append(e.defaults[:len(e.defaults):len(e.defaults)], opts...)...)

	key := e.Key(text)
	digest := store.Digest(key)
	logger := observability.EnrichLogger(e.logger, digest)

	start := time.Now()
	ctx, span := e.spans.StartRenderSpan(ctx, digest, cfg.Strict)
	defer func() {
		e.spans.EndSpanWithError(span, err)
	}()

	missing := 0
	onMissing := cfg.OnMissing
	cfg.OnMissing = func(k string) {
		missing++
		if onMissing != nil {
			onMissing(k)
		}
	}

	t, err := e.parse(ctx, key, text, logger)
	if err == nil {
		out, err = ziptmpl.RenderConfigured(t, values, cfg)
		e.metrics.RecordMissing(ctx, missing, cfg.Strict)
	}

	duration := time.Since(start)
	durationMs := float64(duration) / float64(time.Millisecond)
	e.metrics.RecordRender(ctx, duration, len(out), err)
	if err != nil {
		observability.LogRenderError(logger, err, durationMs)
		return "", err
	}
	observability.LogRenderComplete(logger, len(out), missing, durationMs)
	return out, nil
}

// CacheStats returns hit, miss and eviction counts of the parse cache.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// Cached reports how many parsed templates are held in memory.
func (e *Engine) Cached() int {
	return e.cache.Len()
}

// Forget drops text from the cache. The store is left untouched.
func (e *Engine) Forget(text string) {
	e.cache.Delete(e.Key(text))
}

// Close releases the engine. A store opened through WithStorePath is
// closed; a store passed with WithStore is left open.
//
// Close waits for in-flight Parse and Render calls to finish. Calls made
// after Close return ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.cache.Purge()
	if e.ownsStore {
		return e.store.Close()
	}
	return nil
}
