// Package escape provides named value escapers for ziptmpl.WithEscape.
package escape

import (
	"fmt"
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl"
)

// Escaper names accepted by Lookup.
const (
	None  = "none"
	HTML  = "html"
	Strip = "strip"
)

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// HTMLEscape escapes <, >, &, ' and " in s.
func HTMLEscape(s string) string {
	return html.EscapeString(s)
}

// StripTags removes all markup from s, keeping text content escaped for
// HTML. Script and style bodies are dropped.
func StripTags(s string) string {
	return strictPolicy().Sanitize(s)
}

func strictPolicy() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}

// Lookup returns the escaper registered under name. None and the empty
// string return nil, meaning values are written unchanged.
func Lookup(name string) (ziptmpl.EscapeFunc, error) {
	switch name {
	case "", None:
		return nil, nil
	case HTML:
		return HTMLEscape, nil
	case Strip:
		return StripTags, nil
	default:
		return nil, fmt.Errorf("unknown escaper %q (want %s, %s or %s)", name, None, HTML, Strip)
	}
}

// Names returns the accepted escaper names.
func Names() []string {
	return []string{None, HTML, Strip}
}
