package config_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/config"
)

// TestNew verifies Config creation from maps.
func TestNew(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"nil map", nil},
		{"empty map", map[string]any{}},
		{"with values", map[string]any{"key": "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.NotNil(t, cfg.Raw())
		})
	}
}

// TestGet verifies dotted key resolution.
func TestGet(t *testing.T) {
	cfg := config.New(map[string]any{
		"syntax": map[string]any{"start": "<%", "end": "%>"},
		"cache":  map[string]any{"limits": map[string]any{"max_size": 10}},
		"legacy": map[any]any{"flag": true},
		"a.b":    "literal",
		"a":      map[string]any{"b": "nested"},
		"plain":  "text",
	})

	tests := []struct {
		key   string
		want  any
		found bool
	}{
		{"syntax.start", "<%", true},
		{"cache.limits.max_size", 10, true},
		{"legacy.flag", true, true},
		{"a.b", "literal", true},
		{"plain", "text", true},
		{"plain.deeper", nil, false},
		{"syntax.missing", nil, false},
		{"missing.key", nil, false},
		{"", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := cfg.Get(tt.key)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestSub verifies nested config extraction.
func TestSub(t *testing.T) {
	cfg := config.New(map[string]any{
		"cache": map[string]any{"max_size": 100, "ttl": "1m"},
		"name":  "scalar",
	})

	cache := cfg.Sub("cache")
	assert.Equal(t, 100, cache.Int("max_size", 0))
	assert.Equal(t, time.Minute, cache.Duration("ttl", 0))

	assert.Empty(t, cfg.Sub("name").Raw())
	assert.Empty(t, cfg.Sub("missing").Raw())
}

// TestString verifies string extraction with defaults.
func TestString(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal string
		want       string
	}{
		{"key exists", map[string]any{"name": "alice"}, "name", "default", "alice"},
		{"key missing", map[string]any{"other": "value"}, "name", "default", "default"},
		{"empty string", map[string]any{"name": ""}, "name", "default", ""},
		{"nested key", map[string]any{"syntax": map[string]any{"end": "]]"}}, "syntax.end", "}}", "]]"},
		{"wrong type int", map[string]any{"name": 123}, "name", "default", "default"},
		{"wrong type bool", map[string]any{"name": true}, "name", "default", "default"},
		{"wrong type slice", map[string]any{"name": []string{"a"}}, "name", "default", "default"},
		{"nil map", nil, "name", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.String(tt.key, tt.defaultVal))
		})
	}
}

// TestDuration verifies duration extraction with various input types.
func TestDuration(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		defaultVal time.Duration
		want       time.Duration
	}{
		{"string duration", "30s", 10 * time.Second, 30 * time.Second},
		{"string complex duration", "1h30m", 0, 90 * time.Minute},
		{"invalid string", "soon", 10 * time.Second, 10 * time.Second},
		{"int seconds", 60, 0, time.Minute},
		{"int64 seconds", int64(5), 0, 5 * time.Second},
		{"float seconds", 1.5, 0, 1500 * time.Millisecond},
		{"json number seconds", json.Number("2"), 0, 2 * time.Second},
		{"duration", 3 * time.Second, 0, 3 * time.Second},
		{"zero int", 0, time.Second, 0},
		{"negative string", "-5s", time.Second, -5 * time.Second},
		{"milliseconds string", "500ms", time.Second, 500 * time.Millisecond},
		{"wrong type", true, time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"d": tt.value})
			assert.Equal(t, tt.want, cfg.Duration("d", tt.defaultVal))
		})
	}

	assert.Equal(t, time.Hour, config.New(nil).Duration("d", time.Hour))
}

// TestBool verifies boolean extraction.
func TestBool(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		defaultVal bool
		want       bool
	}{
		{"true", true, false, true},
		{"false", false, true, false},
		{"string true", "true", false, false},
		{"int", 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"b": tt.value})
			assert.Equal(t, tt.want, cfg.Bool("b", tt.defaultVal))
		})
	}
}

// TestInt verifies integer extraction and conversion.
func TestInt(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 42, 42},
		{"int64", int64(42), 42},
		{"uint64", uint64(42), 42},
		{"whole float", 42.0, 42},
		{"fractional float", 42.5, -1},
		{"json integer", json.Number("42"), 42},
		{"json whole float", json.Number("42.0"), 42},
		{"json fraction", json.Number("4.2"), -1},
		{"large int64", int64(9223372036854775807), 9223372036854775807},
		{"large float64 whole", float64(1e10), 10000000000},
		{"float beyond int range", 1e30, -1},
		{"string", "42", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"n": tt.value})
			assert.Equal(t, tt.want, cfg.Int("n", -1))
		})
	}
}

// TestFloat verifies float extraction and conversion.
func TestFloat(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"float", 1.5, 1.5},
		{"int", 2, 2},
		{"int64", int64(3), 3},
		{"uint64", uint64(4), 4},
		{"json number", json.Number("12.34"), 12.34},
		{"invalid json number", json.Number("x"), -1},
		{"string", "1.5", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"f": tt.value})
			assert.InDelta(t, tt.want, cfg.Float("f", -1), 1e-9)
		})
	}
}

// TestStringSlice verifies string slice extraction.
func TestStringSlice(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"string slice", []string{"a", "b"}, []string{"a", "b"}},
		{"any slice of strings", []any{"a", "b"}, []string{"a", "b"}},
		{"empty any slice", []any{}, []string{}},
		{"mixed any slice", []any{"a", 1}, []string{"default"}},
		{"scalar", "a", []string{"default"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"s": tt.value})
			assert.Equal(t, tt.want, cfg.StringSlice("s", []string{"default"}))
		})
	}
}

// TestAnyAndHas verifies raw access and presence checks.
func TestAnyAndHas(t *testing.T) {
	cfg := config.New(map[string]any{
		"value":  42,
		"nil":    nil,
		"nested": map[string]any{"key": "v"},
	})

	assert.Equal(t, 42, cfg.Any("value", nil))
	assert.Nil(t, cfg.Any("nil", "default"))
	assert.Equal(t, "default", cfg.Any("missing", "default"))
	assert.Equal(t, "v", cfg.Any("nested.key", nil))

	assert.True(t, cfg.Has("value"))
	assert.True(t, cfg.Has("nil"))
	assert.True(t, cfg.Has("nested.key"))
	assert.False(t, cfg.Has("nested.other"))
	assert.False(t, cfg.Has("missing"))
}

// TestRaw verifies access to the underlying map.
func TestRaw(t *testing.T) {
	data := map[string]any{"key": "value"}
	cfg := config.New(data)
	assert.Equal(t, data, cfg.Raw())
}
