/*
Package ziptmpl provides runtime string interpolation for templates that are
not known at compile time.

# Overview

A template is parsed once into an ordered list of literal segments (statics)
and an ordered list of placeholder keys. Rendering resolves each key against a
value source and zips the resolved values between the literal segments:

	statics:      "Hello, "   "! You have "   " new messages."
	placeholders:         "0"              "1"

There are no conditionals, loops, partials, or filters. Interpolation is the
whole feature.

# Basic Usage

Parse once, render many times:

	t := ziptmpl.Parse("Hello, {{0}}! You have {{1}} new messages.")

	out, err := t.Render(ziptmpl.Sequence{"Alice", 5})
	// out: "Hello, Alice! You have 5 new messages."

Dot-path keys walk nested maps:

	t := ziptmpl.Parse("Hi, {{user.name.first}}, balance: {{account.balance}} USD")
	out, _ := t.Render(ziptmpl.Mapping{
	    "user":    map[string]any{"name": map[string]any{"first": "Sam"}},
	    "account": map[string]any{"balance": 12.34},
	})
	// out: "Hi, Sam, balance: 12.34 USD"

# Placeholder Syntax

The default syntax is {{key}}. Whitespace around the key is trimmed, so
{{ name }} and {{name}} are the same placeholder. Other markers are chosen
once per Parser:

	p, err := ziptmpl.NewParser(ziptmpl.Syntax{Start: "<%", End: "%>"})
	t := p.Parse("Dear <% name %>")

	p = ziptmpl.MustParser(ziptmpl.DollarSyntax)
	t = p.Parse("Dear $name.")  // key "name", trailing dot stays literal

With an empty End marker the key is the run of letters, digits, underscores
and dots following Start.

Parsing never fails. A start marker without a matching end marker is kept as
literal text, together with everything after it.

# Keys

A key made only of ASCII digits selects by position from a Sequence. Any
other key is a dot-path walked through a Mapping, one level per segment.
Numeric segments inside a path index into slices:

	{{items.0.sku}}

# Missing Values

A key that cannot be resolved renders as an empty string by default. In strict
mode the whole render fails with *MissingPlaceholderError and no output:

	_, err := t.Render(values, ziptmpl.WithStrict(true))
	if errors.Is(err, ziptmpl.ErrMissingPlaceholder) {
	    // ...
	}

A key that resolves to nil is not missing. It renders as an empty string in
both modes.

WithOnMissing reports each unresolved key without changing the outcome, which
is how callers count gaps in lenient renders.

# Escaping

WithEscape installs a function applied to every resolved value before it is
written. Literal segments are never escaped:

	out, _ := t.Render(values, ziptmpl.WithEscape(html.EscapeString))

# Thread Safety

ParsedTemplate is immutable and safe for concurrent renders. Parser is safe
for concurrent use. Sequence, Mapping and FlatMap are read but never written
during a render.
*/
package ziptmpl
