package ziptmpl

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrMissingPlaceholder matches any *MissingPlaceholderError via errors.Is.
	ErrMissingPlaceholder = errors.New("missing placeholder")

	// ErrInvalidSyntax is returned by NewParser when the start marker is empty.
	ErrInvalidSyntax = errors.New("invalid placeholder syntax")

	// ErrInvalidParts is returned by FromParts when the statics and
	// placeholders do not satisfy len(statics) == len(placeholders)+1.
	ErrInvalidParts = errors.New("invalid template parts")
)

// MissingPlaceholderError is returned by a strict render when a placeholder
// key cannot be resolved against the value source.
type MissingPlaceholderError struct {
	// Key is the placeholder key as written in the template (trimmed).
	Key string
}

// Error implements the error interface.
func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("missing placeholder: %q", e.Key)
}

// Is reports whether target is ErrMissingPlaceholder.
func (e *MissingPlaceholderError) Is(target error) bool {
	return target == ErrMissingPlaceholder
}
