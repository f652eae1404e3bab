package ziptmpl

// EscapeFunc transforms a resolved value before it is written to the output.
type EscapeFunc func(string) string

// RenderConfig controls a single render.
type RenderConfig struct {
	// Strict makes an unresolved placeholder fail the render with
	// *MissingPlaceholderError. When false, it renders as "".
	Strict bool

	// Escape, when non-nil, is applied to every resolved value.
	// Literal segments are never escaped.
	Escape EscapeFunc

	// OnMissing, when non-nil, is called with the key of every placeholder
	// that does not resolve, in template order. In strict mode it is called
	// once, for the key that fails the render.
	OnMissing func(key string)
}

// Option configures a render.
type Option func(*RenderConfig)

// WithStrict sets whether missing placeholders fail the render.
//
// Default: false (missing placeholders render as "")
//
// Example:
//
//	_, err := t.Render(nil, WithStrict(true))
//	// err: missing placeholder: "name"
func WithStrict(strict bool) Option {
	return func(c *RenderConfig) {
		c.Strict = strict
	}
}

// WithEscape sets the function applied to every resolved value.
//
// Default: nil (values are written unchanged)
//
// Example:
//
//	out, _ := t.Render(values, WithEscape(html.EscapeString))
func WithEscape(fn EscapeFunc) Option {
	return func(c *RenderConfig) {
		c.Escape = fn
	}
}

// WithOnMissing sets a callback for unresolved placeholders.
//
// Example:
//
//	var missing []string
//	out, _ := t.Render(values, WithOnMissing(func(k string) {
//	    missing = append(missing, k)
//	}))
func WithOnMissing(fn func(key string)) Option {
	return func(c *RenderConfig) {
		c.OnMissing = fn
	}
}

// WithConfig replaces the whole configuration. Options after it still apply.
func WithConfig(cfg RenderConfig) Option {
	return func(c *RenderConfig) {
		*c = cfg
	}
}

// NewRenderConfig builds a RenderConfig from options.
func NewRenderConfig(opts ...Option) RenderConfig {
	var cfg RenderConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
