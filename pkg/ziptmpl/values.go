package ziptmpl

import (
	"reflect"
	"strconv"
	"strings"
)

// ValueSource supplies values for placeholders.
//
// Numeric keys ("0", "1", ...) are resolved with Index; every other key is
// resolved with Lookup using the full dot-path. The bool result reports
// whether the key was found. A found nil value is not missing.
//
// Implementations must not be modified during a render.
type ValueSource interface {
	Index(i int) (any, bool)
	Lookup(path string) (any, bool)
}

// Compile-time interface checks.
var (
	_ ValueSource = Sequence(nil)
	_ ValueSource = Mapping(nil)
	_ ValueSource = FlatMap(nil)
)

// Sequence is an ordered list of values addressed by numeric keys.
// Dot-path keys never resolve against a Sequence.
type Sequence []any

// Index returns the i-th value.
func (s Sequence) Index(i int) (any, bool) {
	if i < 0 || i >= len(s) {
		return nil, false
	}
	return s[i], true
}

// Lookup always reports a miss.
func (Sequence) Lookup(string) (any, bool) {
	return nil, false
}

// Mapping is a nested string-keyed structure addressed by dot-paths.
//
// Each path segment descends one level. Nested levels may be any map with
// string keys, such as map[string]any or map[string]int. A numeric segment
// indexes into a slice or array. A nested ValueSource other than Mapping or
// Sequence, such as a FlatMap, resolves the rest of the path itself. Numeric
// keys never resolve against a Mapping.
type Mapping map[string]any

// Index always reports a miss.
func (Mapping) Index(int) (any, bool) {
	return nil, false
}

// Lookup walks path through the mapping.
func (m Mapping) Lookup(path string) (any, bool) {
	var node any = m
	rest := path
	for {
		switch n := node.(type) {
		case Mapping, Sequence:
		case ValueSource:
			return resolve(n, rest)
		}

		seg, next, more := strings.Cut(rest, ".")
		v, ok := child(node, seg)
		if !ok {
			return nil, false
		}
		if !more {
			return v, true
		}
		node, rest = v, next
	}
}

// child returns the value one level below node.
func child(node any, seg string) (any, bool) {
	switch n := node.(type) {
	case Mapping:
		v, ok := n[seg]
		return v, ok
	case map[string]any:
		v, ok := n[seg]
		return v, ok
	case map[string]string:
		v, ok := n[seg]
		return v, ok
	case Sequence:
		return n.Index(indexOrNeg(seg))
	case []any:
		return Sequence(n).Index(indexOrNeg(seg))
	case []string:
		i := indexOrNeg(seg)
		if i < 0 || i >= len(n) {
			return nil, false
		}
		return n[i], true
	default:
		return reflectChild(reflect.ValueOf(node), seg)
	}
}

// reflectChild descends into typed maps with string keys and typed slices or
// arrays. Byte slices are leaves.
func reflectChild(rv reflect.Value, seg string) (any, bool) {
	switch {
	case isStringMap(rv):
		v := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case isList(rv):
		i := indexOrNeg(seg)
		if i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	default:
		return nil, false
	}
}

func isStringMap(rv reflect.Value) bool {
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

func isList(rv reflect.Value) bool {
	k := rv.Kind()
	return (k == reflect.Slice || k == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8
}

// FlatMap holds pre-flattened values keyed by their full dot-path.
// Lookup is a single map access. Index looks up the decimal key, so the
// flattening of a top-level list resolves numeric keys.
type FlatMap map[string]string

// Index returns the value stored under the decimal form of i.
func (f FlatMap) Index(i int) (any, bool) {
	if i < 0 {
		return nil, false
	}
	v, ok := f[strconv.Itoa(i)]
	return v, ok
}

// Lookup returns the value stored under path.
func (f FlatMap) Lookup(path string) (any, bool) {
	v, ok := f[path]
	return v, ok
}

// Flatten converts nested maps and slices into a FlatMap.
//
// Map keys and slice indexes are joined with dots. Any map with string keys
// and any slice or array other than a byte slice is descended. Leaves are
// converted with Stringify, and nil leaves become empty strings. Empty maps
// and slices produce no keys.
//
// Example:
//
//	Flatten(map[string]any{"user": map[string]any{"tags": []any{"a", "b"}}})
//	// FlatMap{"user.tags.0": "a", "user.tags.1": "b"}
func Flatten(v any) FlatMap {
	out := make(FlatMap)
	flatten(v, "", out)
	return out
}

func flatten(v any, prefix string, out FlatMap) {
	switch n := v.(type) {
	case Mapping:
		flatten(map[string]any(n), prefix, out)
	case map[string]any:
		for k, c := range n {
			flatten(c, joinPath(prefix, k), out)
		}
	case map[string]string:
		for k, c := range n {
			out[joinPath(prefix, k)] = c
		}
	case Sequence:
		flatten([]any(n), prefix, out)
	case []any:
		for i, c := range n {
			flatten(c, joinPath(prefix, strconv.Itoa(i)), out)
		}
	case []string:
		for i, c := range n {
			out[joinPath(prefix, strconv.Itoa(i))] = c
		}
	default:
		flattenReflect(v, prefix, out)
	}
}

// flattenReflect handles typed maps and slices that the type switch in
// flatten does not name.
func flattenReflect(v any, prefix string, out FlatMap) {
	rv := reflect.ValueOf(v)
	switch {
	case isStringMap(rv):
		iter := rv.MapRange()
		for iter.Next() {
			flatten(iter.Value().Interface(), joinPath(prefix, iter.Key().String()), out)
		}
	case isList(rv):
		for i := range rv.Len() {
			flatten(rv.Index(i).Interface(), joinPath(prefix, strconv.Itoa(i)), out)
		}
	default:
		if prefix != "" {
			out[prefix] = Stringify(v)
		}
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// parseIndex reports whether key is a non-negative decimal integer and
// returns its value. Keys with signs, spaces or other characters are not
// indexes. ok is true with i == -1 for all-digit keys that overflow int.
func parseIndex(key string) (i int, ok bool) {
	if key == "" {
		return 0, false
	}
	for j := 0; j < len(key); j++ {
		if key[j] < '0' || key[j] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return -1, true
	}
	return n, true
}

// indexOrNeg returns the index encoded by seg, or -1.
func indexOrNeg(seg string) int {
	i, ok := parseIndex(seg)
	if !ok {
		return -1
	}
	return i
}
