package engine

import (
	"fmt"

	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/config"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/escape"
)

// Configuration keys read by FromConfig.
const (
	KeySyntaxStart  = "syntax.start"
	KeySyntaxEnd    = "syntax.end"
	KeyStrict       = "strict"
	KeyEscape       = "escape"
	KeyCacheMaxSize = "cache.max_size"
	KeyCacheTTL     = "cache.ttl"
	KeyStorePath    = "store.path"
	KeyMetrics      = "metrics"
	KeyTracing      = "tracing"
)

// FromConfig translates a configuration into engine options.
// Only keys present in cfg produce options, so the result can be combined
// with explicit options that follow it.
//
// Example (TOML):
//
//	strict = true
//	escape = "html"
//
//	[syntax]
//	start = "<%"
//	end = "%>"
//
//	[cache]
//	max_size = 500
//	ttl = "10m"
//
//	[store]
//	path = "./templates.db"
func FromConfig(cfg config.Config) ([]Option, error) {
	var opts []Option

	if cfg.Has(KeySyntaxStart) || cfg.Has(KeySyntaxEnd) {
		// A custom start marker without an end marker is unterminated ("$name").
		start := cfg.String(KeySyntaxStart, ziptmpl.DefaultSyntax.Start)
		end := ""
		if start == ziptmpl.DefaultSyntax.Start {
			end = ziptmpl.DefaultSyntax.End
		}
		syntax := ziptmpl.Syntax{Start: start, End: cfg.String(KeySyntaxEnd, end)}
		if err := syntax.Validate(); err != nil {
			return nil, err
		}
		opts = append(opts, WithSyntax(syntax))
	}

	var renderOpts []ziptmpl.Option
	if cfg.Has(KeyStrict) {
		renderOpts = append(renderOpts, ziptmpl.WithStrict(cfg.Bool(KeyStrict, false)))
	}
	if cfg.Has(KeyEscape) {
		fn, err := escape.Lookup(cfg.String(KeyEscape, ""))
		if err != nil {
			return nil, err
		}
		renderOpts = append(renderOpts, ziptmpl.WithEscape(fn))
	}
	if len(renderOpts) > 0 {
		opts = append(opts, WithRenderDefaults(renderOpts...))
	}

	if cfg.Has(KeyCacheMaxSize) {
		n := cfg.Int(KeyCacheMaxSize, -1)
		if n < 0 {
			return nil, fmt.Errorf("%s: want a non-negative integer, got %v", KeyCacheMaxSize, cfg.Any(KeyCacheMaxSize, nil))
		}
		opts = append(opts, WithCacheSize(n))
	}
	if cfg.Has(KeyCacheTTL) {
		ttl := cfg.Duration(KeyCacheTTL, -1)
		if ttl < 0 {
			return nil, fmt.Errorf("%s: want a non-negative duration, got %v", KeyCacheTTL, cfg.Any(KeyCacheTTL, nil))
		}
		opts = append(opts, WithCacheTTL(ttl))
	}

	if path := cfg.String(KeyStorePath, ""); path != "" {
		opts = append(opts, WithStorePath(path))
	}

	if cfg.Has(KeyMetrics) {
		opts = append(opts, WithMetrics(cfg.Bool(KeyMetrics, false)))
	}
	if cfg.Has(KeyTracing) {
		opts = append(opts, WithTracing(cfg.Bool(KeyTracing, false)))
	}

	return opts, nil
}
