package ziptmpl

import "strings"

// Render resolves every placeholder of t against values and returns the
// literal segments interleaved with the resolved values.
//
// Returns *MissingPlaceholderError only when strict mode is set and a key
// cannot be resolved. In that case the returned string is always empty.
//
// Example:
//
//	t := ziptmpl.Parse("Hello, {{0}}!")
//	out, err := ziptmpl.Render(t, ziptmpl.Sequence{"Alice"})
//	// out: "Hello, Alice!"
func Render(t *ParsedTemplate, values ValueSource, opts ...Option) (string, error) {
	return RenderConfigured(t, values, NewRenderConfig(opts...))
}

// Render is shorthand for Render(t, values, opts...).
func (t *ParsedTemplate) Render(values ValueSource, opts ...Option) (string, error) {
	return RenderConfigured(t, values, NewRenderConfig(opts...))
}

// RenderConfigured is Render with an explicit RenderConfig.
func RenderConfigured(t *ParsedTemplate, values ValueSource, cfg RenderConfig) (string, error) {
	if t.empty() {
		return "", nil
	}

	var b strings.Builder
	b.Grow(t.sizeHint)

	for i, key := range t.placeholders {
		b.WriteString(t.statics[i])

		v, ok := resolve(values, key)
		if !ok {
			if cfg.OnMissing != nil {
				cfg.OnMissing(key)
			}
			if cfg.Strict {
				return "", &MissingPlaceholderError{Key: key}
			}
			continue
		}

		s := Stringify(v)
		if cfg.Escape != nil {
			s = cfg.Escape(s)
		}
		b.WriteString(s)
	}
	b.WriteString(t.statics[len(t.placeholders)])

	return b.String(), nil
}

// resolve dispatches on the shape of key: all-digit keys select by position,
// anything else is a dot-path.
func resolve(values ValueSource, key string) (any, bool) {
	if values == nil {
		return nil, false
	}
	if i, ok := parseIndex(key); ok {
		if i < 0 {
			return nil, false
		}
		return values.Index(i)
	}
	return values.Lookup(key)
}

// MustRender is like Render but panics on error.
//
// Use it with lenient configurations, which never fail, or when every key is
// known to resolve.
func MustRender(t *ParsedTemplate, values ValueSource, opts ...Option) string {
	out, err := Render(t, values, opts...)
	if err != nil {
		panic("ziptmpl: " + err.Error())
	}
	return out
}

// Zip interleaves values with the statics of t by position, ignoring the
// placeholder keys. values[i] fills the i-th placeholder. Placeholders
// without a value render as "", extra values are ignored.
//
// Example:
//
//	t := ziptmpl.Parse("{{a}},{{b}},{{c}}")
//	ziptmpl.Zip(t, "1", "2")
//	// "1,2,"
func Zip(t *ParsedTemplate, values ...string) string {
	if t.empty() {
		return ""
	}

	var b strings.Builder
	b.Grow(t.sizeHint)

	for i := range t.placeholders {
		b.WriteString(t.statics[i])
		if i < len(values) {
			b.WriteString(values[i])
		}
	}
	b.WriteString(t.statics[len(t.placeholders)])

	return b.String()
}
