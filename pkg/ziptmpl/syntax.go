package ziptmpl

import "fmt"

// Syntax describes the placeholder markers recognized by a Parser.
type Syntax struct {
	// Start opens a placeholder. Must not be empty.
	Start string

	// End closes a placeholder. When empty, the key is the longest run of
	// identifier characters ([A-Za-z0-9_.]) after Start, minus trailing dots.
	End string
}

var (
	// DefaultSyntax is {{key}}.
	DefaultSyntax = Syntax{Start: "{{", End: "}}"}

	// DollarSyntax is $key.
	DollarSyntax = Syntax{Start: "$"}
)

// Validate reports whether the syntax can be used by a Parser.
func (s Syntax) Validate() error {
	if s.Start == "" {
		return fmt.Errorf("%w: empty start marker", ErrInvalidSyntax)
	}
	return nil
}

// String returns the syntax as it appears around a key, e.g. "{{key}}".
func (s Syntax) String() string {
	return s.Start + "key" + s.End
}

// isKeyByte reports whether c may appear in an unterminated ($key style) key.
func isKeyByte(c byte) bool {
	return c == '_' || c == '.' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
