package ziptmpl

import (
	"fmt"
	"slices"
	"strings"
)

// expectedValueLen is the per-placeholder allowance added to the output
// capacity hint.
const expectedValueLen = 16

// ParsedTemplate is the result of parsing a template: the literal segments
// and the placeholder keys between them, in template order.
//
// A ParsedTemplate built by a Parser or FromParts always has exactly one more
// static than placeholders. Leading and trailing statics may be empty. Statics
// are substrings of the parsed text and share its memory. The zero value and
// a nil *ParsedTemplate have no segments at all and render as "".
//
// ParsedTemplate is immutable and safe for concurrent use.
type ParsedTemplate struct {
	statics      []string
	placeholders []string
	sizeHint     int
}

// Statics returns a copy of the literal segments.
func (t *ParsedTemplate) Statics() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.statics)
}

// Placeholders returns a copy of the placeholder keys.
func (t *ParsedTemplate) Placeholders() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.placeholders)
}

// NumStatics returns the number of literal segments.
func (t *ParsedTemplate) NumStatics() int {
	if t == nil {
		return 0
	}
	return len(t.statics)
}

// NumPlaceholders returns the number of placeholders.
func (t *ParsedTemplate) NumPlaceholders() int {
	if t == nil {
		return 0
	}
	return len(t.placeholders)
}

// Static returns the i-th literal segment.
func (t *ParsedTemplate) Static(i int) string {
	return t.statics[i]
}

// Placeholder returns the i-th placeholder key.
func (t *ParsedTemplate) Placeholder(i int) string {
	return t.placeholders[i]
}

// SizeHint returns the output capacity reserved by Render.
func (t *ParsedTemplate) SizeHint() int {
	if t == nil {
		return 0
	}
	return t.sizeHint
}

// empty reports whether t has no segments to render.
func (t *ParsedTemplate) empty() bool {
	return t == nil || len(t.statics) == 0
}

// Equal reports whether t and other have the same statics and placeholders.
func (t *ParsedTemplate) Equal(other *ParsedTemplate) bool {
	if t == nil || other == nil {
		return t == other
	}
	return slices.Equal(t.statics, other.statics) &&
		slices.Equal(t.placeholders, other.placeholders)
}

// FromParts rebuilds a ParsedTemplate from previously extracted statics and
// placeholders. The slices are copied.
func FromParts(statics, placeholders []string) (*ParsedTemplate, error) {
	if len(statics) != len(placeholders)+1 {
		return nil, fmt.Errorf("%w: %d statics for %d placeholders",
			ErrInvalidParts, len(statics), len(placeholders))
	}
	t := &ParsedTemplate{
		statics:      slices.Clone(statics),
		placeholders: slices.Clone(placeholders),
	}
	t.sizeHint = sizeHint(t.statics, len(t.placeholders))
	return t, nil
}

func sizeHint(statics []string, numPlaceholders int) int {
	n := numPlaceholders * expectedValueLen
	for _, s := range statics {
		n += len(s)
	}
	return n
}

// Parser splits templates into statics and placeholders using a fixed
// Syntax.
//
// Parser is safe for concurrent use.
type Parser struct {
	syntax Syntax
}

// NewParser creates a Parser for the given syntax.
// Returns ErrInvalidSyntax if syntax.Start is empty.
func NewParser(syntax Syntax) (*Parser, error) {
	if err := syntax.Validate(); err != nil {
		return nil, err
	}
	return &Parser{syntax: syntax}, nil
}

// MustParser is like NewParser but panics on an invalid syntax.
func MustParser(syntax Syntax) *Parser {
	p, err := NewParser(syntax)
	if err != nil {
		panic(fmt.Sprintf("ziptmpl: %v", err))
	}
	return p
}

// Syntax returns the markers this parser recognizes.
func (p *Parser) Syntax() Syntax {
	return p.syntax
}

// Parse splits template into statics and placeholders in a single pass.
//
// Parse never fails. An opening marker with no closing marker, and all text
// after it, is kept as literal text.
func (p *Parser) Parse(template string) *ParsedTemplate {
	var statics, placeholders []string
	if p.syntax.End == "" {
		statics, placeholders = p.scanUnterminated(template)
	} else {
		statics, placeholders = p.scan(template)
	}
	return &ParsedTemplate{
		statics:      statics,
		placeholders: placeholders,
		sizeHint:     sizeHint(statics, len(placeholders)),
	}
}

// scan handles syntaxes with both a start and an end marker.
func (p *Parser) scan(template string) ([]string, []string) {
	start, end := p.syntax.Start, p.syntax.End

	var statics, placeholders []string
	last := 0 // start of the literal segment being accumulated
	for last < len(template) {
		i := strings.Index(template[last:], start)
		if i < 0 {
			break
		}
		open := last + i
		keyStart := open + len(start)

		j := strings.Index(template[keyStart:], end)
		if j < 0 {
			// Unterminated: the marker and the rest stay in the final static.
			break
		}
		keyEnd := keyStart + j

		statics = append(statics, template[last:open])
		placeholders = append(placeholders, strings.TrimSpace(template[keyStart:keyEnd]))
		last = keyEnd + len(end)
	}
	statics = append(statics, template[last:])
	return statics, placeholders
}

// scanUnterminated handles $key style syntaxes, where the key ends at the
// first byte that cannot belong to a key.
func (p *Parser) scanUnterminated(template string) ([]string, []string) {
	start := p.syntax.Start

	var statics, placeholders []string
	last, cursor := 0, 0
	for cursor < len(template) {
		i := strings.Index(template[cursor:], start)
		if i < 0 {
			break
		}
		open := cursor + i
		keyStart := open + len(start)

		keyEnd := keyStart
		for keyEnd < len(template) && isKeyByte(template[keyEnd]) {
			keyEnd++
		}
		// "Dear $name." ends a sentence, not a path.
		for keyEnd > keyStart && template[keyEnd-1] == '.' {
			keyEnd--
		}
		if keyEnd == keyStart {
			// Bare marker, keep it literal.
			cursor = keyStart
			continue
		}

		statics = append(statics, template[last:open])
		placeholders = append(placeholders, template[keyStart:keyEnd])
		last, cursor = keyEnd, keyEnd
	}
	statics = append(statics, template[last:])
	return statics, placeholders
}

// defaultParser is the package-level parser for DefaultSyntax.
var defaultParser = MustParser(DefaultSyntax)

// Parse parses template with DefaultSyntax ({{key}}).
//
// Example:
//
//	t := ziptmpl.Parse("Hello, {{0}}!")
//	t.Statics()      // ["Hello, ", "!"]
//	t.Placeholders() // ["0"]
func Parse(template string) *ParsedTemplate {
	return defaultParser.Parse(template)
}
