package ziptmpl

import (
	"html"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRender_Sequence tests numeric keys against a Sequence.
func TestRender_Sequence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		values   Sequence
		expected string
	}{
		{
			name:     "greeting",
			input:    "Hello, {{0}}! You have {{1}} new messages.",
			values:   Sequence{"Alice", 5},
			expected: "Hello, Alice! You have 5 new messages.",
		},
		{
			name:     "reordered indexes",
			input:    "{{1}} before {{0}}",
			values:   Sequence{"a", "b"},
			expected: "b before a",
		},
		{
			name:     "repeated index",
			input:    "{{0}}{{0}}{{0}}",
			values:   Sequence{"ab"},
			expected: "ababab",
		},
		{
			name:     "leading zeros",
			input:    "{{01}}",
			values:   Sequence{"a", "b"},
			expected: "b",
		},
		{
			name:     "out of range",
			input:    "[{{2}}]",
			values:   Sequence{"a", "b"},
			expected: "[]",
		},
		{
			name:     "overflowing index",
			input:    "[{{99999999999999999999999}}]",
			values:   Sequence{"a"},
			expected: "[]",
		},
		{
			name:     "dot path misses a sequence",
			input:    "[{{name}}]",
			values:   Sequence{"a"},
			expected: "[]",
		},
		{
			name:     "mixed value types",
			input:    "{{0}}|{{1}}|{{2}}|{{3}}",
			values:   Sequence{true, 3.5, int64(-7), nil},
			expected: "true|3.5|-7|",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(Parse(tt.input), tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

// TestRender_Mapping tests dot-path keys against a Mapping.
func TestRender_Mapping(t *testing.T) {
	values := Mapping{
		"user": map[string]any{
			"name": map[string]any{"first": "Sam"},
			"tags": []any{"admin", "ops"},
		},
		"account": map[string]any{"balance": 12.34},
		"meta":    map[string]string{"count": "5"},
		"note":    nil,
		"plain":   "text",
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "nested path",
			input:    "Hi, {{user.name.first}} — balance: {{account.balance}} USD",
			expected: "Hi, Sam — balance: 12.34 USD",
		},
		{
			name:     "string map leaf",
			input:    "count={{meta.count}}",
			expected: "count=5",
		},
		{
			name:     "slice index segment",
			input:    "{{user.tags.1}}",
			expected: "ops",
		},
		{
			name:     "slice index out of range",
			input:    "[{{user.tags.5}}]",
			expected: "[]",
		},
		{
			name:     "missing top level key",
			input:    "[{{nobody}}]",
			expected: "[]",
		},
		{
			name:     "missing nested key",
			input:    "[{{user.name.last}}]",
			expected: "[]",
		},
		{
			name:     "descend through a scalar",
			input:    "[{{plain.length}}]",
			expected: "[]",
		},
		{
			name:     "present nil",
			input:    "[{{note}}]",
			expected: "[]",
		},
		{
			name:     "numeric key misses a mapping",
			input:    "[{{0}}]",
			expected: "[]",
		},
		{
			name:     "composite value",
			input:    "{{user.name}}",
			expected: `{"first":"Sam"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Parse(tt.input).Render(values)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

// TestRender_Lenient tests that missing values render as empty strings.
func TestRender_Lenient(t *testing.T) {
	t.Run("missing key with empty mapping", func(t *testing.T) {
		out, err := Render(Parse("X={{missing}}"), Mapping{})
		require.NoError(t, err)
		assert.Equal(t, "X=", out)
	})

	t.Run("missing index", func(t *testing.T) {
		out, err := Render(Parse("X={{3}}"), Sequence{})
		require.NoError(t, err)
		assert.Equal(t, "X=", out)
	})

	t.Run("nil value source", func(t *testing.T) {
		out, err := Render(Parse("a{{b}}c"), nil)
		require.NoError(t, err)
		assert.Equal(t, "ac", out)
	})
}

// TestRender_Strict tests strict-mode failures.
func TestRender_Strict(t *testing.T) {
	t.Run("missing key fails", func(t *testing.T) {
		out, err := Render(Parse("X={{missing}}"), Mapping{}, WithStrict(true))
		require.Error(t, err)
		assert.Empty(t, out)

		var missingErr *MissingPlaceholderError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, "missing", missingErr.Key)
		assert.ErrorIs(t, err, ErrMissingPlaceholder)
		assert.Equal(t, `missing placeholder: "missing"`, err.Error())
	})

	t.Run("no partial output after earlier successes", func(t *testing.T) {
		out, err := Render(Parse("{{0}} {{1}} {{2}}"), Sequence{"a", "b"}, WithStrict(true))
		require.Error(t, err)
		assert.Equal(t, "", out)

		var missingErr *MissingPlaceholderError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, "2", missingErr.Key)
	})

	t.Run("first missing key is reported", func(t *testing.T) {
		_, err := Render(Parse("{{a}}{{b}}"), Mapping{}, WithStrict(true))
		var missingErr *MissingPlaceholderError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, "a", missingErr.Key)
	})

	t.Run("present nil is not missing", func(t *testing.T) {
		out, err := Render(Parse("[{{v}}]"), Mapping{"v": nil}, WithStrict(true))
		require.NoError(t, err)
		assert.Equal(t, "[]", out)
	})

	t.Run("all keys present", func(t *testing.T) {
		out, err := Render(Parse("{{0}}-{{1}}"), Sequence{"a", "b"}, WithStrict(true))
		require.NoError(t, err)
		assert.Equal(t, "a-b", out)
	})
}

// TestRender_Escape tests that the escape hook touches values only.
func TestRender_Escape(t *testing.T) {
	parsed := Parse("<b>{{0}}</b>")

	out, err := Render(parsed, Sequence{"<i>&</i>"}, WithEscape(html.EscapeString))
	require.NoError(t, err)
	assert.Equal(t, "<b>&lt;i&gt;&amp;&lt;/i&gt;</b>", out)

	t.Run("applied to every value", func(t *testing.T) {
		out, err := Render(Parse("{{0}}.{{1}}"), Sequence{"a", 2}, WithEscape(strings.ToUpper))
		require.NoError(t, err)
		assert.Equal(t, "A.2", out)
	})

	t.Run("not applied to missing values", func(t *testing.T) {
		calls := 0
		escape := func(s string) string {
			calls++
			return s
		}
		out, err := Render(Parse("[{{0}}][{{1}}]"), Sequence{"x"}, WithEscape(escape))
		require.NoError(t, err)
		assert.Equal(t, "[x][]", out)
		assert.Equal(t, 1, calls)
	})
}

// TestRender_NoPlaceholders tests that plain text round-trips.
func TestRender_NoPlaceholders(t *testing.T) {
	inputs := []string{"", "no placeholders here", "unterminated {{ marker", "}} only close"}
	sources := []ValueSource{nil, Sequence{"x"}, Mapping{"a": 1}, FlatMap{"b": "2"}}

	for _, in := range inputs {
		for _, src := range sources {
			for _, strict := range []bool{false, true} {
				out, err := Render(Parse(in), src, WithStrict(strict))
				require.NoError(t, err)
				assert.Equal(t, in, out)
			}
		}
	}
}

// TestRender_FlatMap tests rendering from pre-flattened values.
func TestRender_TypedNestedValues(t *testing.T) {
	values := Mapping{
		"a":    map[string]int{"b": 3},
		"flat": FlatMap{"b": "x"},
		"ids":  []int64{10, 20},
	}

	out, err := Render(Parse("{{a.b}}/{{flat.b}}/{{ids.1}}"), values, WithStrict(true))
	require.NoError(t, err)
	assert.Equal(t, "3/x/20", out)
}

func TestRender_EmptyTemplate(t *testing.T) {
	tests := []struct {
		name string
		tmpl *ParsedTemplate
	}{
		{"zero value", &ParsedTemplate{}},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(tt.tmpl, Mapping{"a": 1}, WithStrict(true))
			require.NoError(t, err)
			assert.Equal(t, "", out)

			assert.Equal(t, "", Zip(tt.tmpl, "x"))
			assert.Equal(t, 0, tt.tmpl.NumStatics())
			assert.Equal(t, 0, tt.tmpl.NumPlaceholders())
			assert.Empty(t, tt.tmpl.Statics())
			assert.Equal(t, 0, tt.tmpl.SizeHint())
		})
	}
}

func TestRender_FlatMap(t *testing.T) {
	flat := Flatten(map[string]any{
		"user":    map[string]any{"name": map[string]any{"first": "Sam"}},
		"account": map[string]any{"balance": 12.34},
	})

	out, err := Render(Parse("Hi, {{user.name.first}} — balance: {{account.balance}} USD"), flat)
	require.NoError(t, err)
	assert.Equal(t, "Hi, Sam — balance: 12.34 USD", out)
}

// TestRender_OnMissing tests the unresolved placeholder callback.
func TestRender_OnMissing(t *testing.T) {
	parsed := Parse("{{0}}{{a}}{{1}}{{99999999999999999999999}}")

	var missing []string
	record := WithOnMissing(func(k string) { missing = append(missing, k) })

	out, err := Render(parsed, Sequence{"x"}, record)
	require.NoError(t, err)
	assert.Equal(t, "x", out)
	assert.Equal(t, []string{"a", "1", "99999999999999999999999"}, missing)

	missing = nil
	_, err = Render(parsed, Sequence{"x"}, record, WithStrict(true))
	require.Error(t, err)
	assert.Equal(t, []string{"a"}, missing)

	missing = nil
	_, err = Render(parsed, Sequence{"x", "y"}, record)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "99999999999999999999999"}, missing)
}

// TestRenderConfigured tests rendering with an explicit config.
func TestRenderConfigured(t *testing.T) {
	cfg := RenderConfig{Strict: true, Escape: strings.ToUpper}

	out, err := RenderConfigured(Parse("{{0}}!"), Sequence{"hi"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "HI!", out)

	_, err = RenderConfigured(Parse("{{1}}"), Sequence{"hi"}, cfg)
	assert.ErrorIs(t, err, ErrMissingPlaceholder)
}

// TestOptions tests option composition.
func TestOptions(t *testing.T) {
	cfg := NewRenderConfig()
	assert.False(t, cfg.Strict)
	assert.Nil(t, cfg.Escape)

	cfg = NewRenderConfig(WithConfig(RenderConfig{Strict: true}), WithStrict(false))
	assert.False(t, cfg.Strict)

	cfg = NewRenderConfig(WithStrict(true), WithConfig(RenderConfig{}))
	assert.False(t, cfg.Strict)
}

// TestMustRender tests the panicking variant.
func TestMustRender(t *testing.T) {
	assert.Equal(t, "a-", MustRender(Parse("a-{{x}}"), nil))
	assert.Panics(t, func() {
		MustRender(Parse("{{x}}"), nil, WithStrict(true))
	})
}

// TestZip tests positional interleaving.
func TestZip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		values   []string
		expected string
	}{
		{"exact", "{{a}},{{b}},{{c}}", []string{"1", "2", "3"}, "1,2,3"},
		{"too few values", "Hello, {{name}}!", nil, "Hello, !"},
		{"too many values", "{{a}}", []string{"1", "2"}, "1"},
		{"keys ignored", "Hi, {{user.name.first}} — balance: {{account.balance}} USD", []string{"Sam", "12.34"}, "Hi, Sam — balance: 12.34 USD"},
		{"static only", "static text only", nil, "static text only"},
		{"empty", "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Zip(Parse(tt.input), tt.values...))
		})
	}
}

// TestRender_Concurrent renders one parsed template from many goroutines.
func TestRender_Concurrent(t *testing.T) {
	parsed := Parse("{{0}}:{{1}}")

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			out, err := Render(parsed, Sequence{"n", n}, WithStrict(true))
			if err != nil {
				errs <- err
				return
			}
			if !strings.HasPrefix(out, "n:") {
				errs <- assert.AnError
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
}
