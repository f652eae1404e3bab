package benchmarks

import (
	"fmt"
	"strings"
)

// buildTemplate returns a template with n placeholders keyed 0..n-1,
// separated by short static runs.
func buildTemplate(n int) string {
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "segment %d: {{%d}}, ", i, i)
	}
	b.WriteString("end")
	return b.String()
}

// buildPathTemplate returns a template with n dot-path placeholders.
func buildPathTemplate(n int) string {
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "<td>{{rows.%d.name}}</td><td>{{rows.%d.price}}</td>", i, i)
	}
	return b.String()
}

func buildSequence(n int) []any {
	values := make([]any, n)
	for i := range values {
		values[i] = fmt.Sprintf("value-%d", i)
	}
	return values
}

func buildRows(n int) map[string]any {
	rows := make([]any, n)
	for i := range rows {
		rows[i] = map[string]any{"name": fmt.Sprintf("item-%d", i), "price": float64(i) + 0.99}
	}
	return map[string]any{"rows": rows}
}
