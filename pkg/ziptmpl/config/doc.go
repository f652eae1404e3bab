/*
Package config provides type-safe configuration extraction from map[string]any.

# Overview

config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
It backs both engine settings and the value files the CLI renders from.

# Basic Usage

Create a Config from any map and extract values with defaults:

	cfg := config.New(map[string]any{
	    "strict": true,
	    "cache": map[string]any{
	        "max_size": 500,
	        "ttl":      "10m",
	    },
	})

	strict := cfg.Bool("strict", false)                   // true
	size := cfg.Int("cache.max_size", 0)                  // 500
	ttl := cfg.Duration("cache.ttl", 0)                   // 10m
	start := cfg.String("syntax.start", "{{")             // "{{"

Dotted keys walk nested maps. Sub returns a nested map as its own Config:

	cache := cfg.Sub("cache")
	size = cache.Int("max_size", 0)

# Type Coercion

Duration handles multiple input types:
  - string: parsed with time.ParseDuration ("30s", "1h30m")
  - numbers: interpreted as seconds
  - time.Duration: used directly

Numeric accessors accept int, int64, uint64, float64 and json.Number.
All methods return the default value if:
  - The key is missing
  - The value cannot be converted to the requested type
  - The conversion would lose precision (e.g., float to int with fraction)

# File Loading

Load configuration from YAML, JSON or TOML files:

	cfg, err := config.FromFile("ziptmpl.toml")
	if err != nil {
	    log.Fatal(err)
	}

	// Or load from bytes
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)
	cfg, err = config.FromTOML(tomlBytes)

FromJSON keeps numbers as json.Number, so 12.50 in a value file renders as
"12.50" rather than being rounded through float64.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation. However, if the original map is modified
externally, behavior is undefined.
*/
package config
