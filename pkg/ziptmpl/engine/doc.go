/*
Package engine wires parsing, caching, persistence and observability into a
single entry point for rendering template text.

# Overview

ziptmpl.Parse and ziptmpl.Render are pure functions. An Engine adds the parts
a long-running process needs around them:

  - a cache so each distinct text is parsed once
  - an optional store so parsed templates survive restarts
  - render defaults (strict mode, escaping) applied to every call
  - slog logging, OpenTelemetry metrics and spans

# Basic Usage

	e, err := engine.New(
	    engine.WithCacheSize(1000),
	    engine.WithRenderDefaults(ziptmpl.WithStrict(true)),
	)
	if err != nil {
	    return err
	}
	defer e.Close()

	out, err := e.Render(ctx, "Hi, {{user.name}}!", ziptmpl.Mapping{
	    "user": map[string]any{"name": "Sam"},
	})

Per-call options follow the defaults, so a single call can relax them:

	out, _ = e.Render(ctx, text, values, ziptmpl.WithStrict(false))

# Persistence

With a store, a cache miss first tries the store and only parses when the
template was never saved:

	e, _ := engine.New(engine.WithStorePath("./templates.db"))

A failed save is logged and the freshly parsed template is still returned.
Templates parsed with non-default markers are stored under a key qualified by
those markers, so engines with different syntaxes can share one store.

# Configuration

FromConfig turns a config.Config (YAML, JSON or TOML) into options:

	cfg, _ := config.FromFile("ziptmpl.toml")
	opts, err := engine.FromConfig(cfg)
	e, err := engine.New(opts...)

# Observability

	e, _ := engine.New(
	    engine.WithLogger(logger),
	    engine.WithMetrics(true),
	    engine.WithTracing(true),
	)

Metrics and spans use the global OpenTelemetry providers unless a recorder or
span manager is passed explicitly.

# Thread Safety

All Engine methods are safe for concurrent use.
*/
package engine
