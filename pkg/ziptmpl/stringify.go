package ziptmpl

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Stringify converts a resolved value to the text written into the output.
//
// Conversions:
//   - nil: ""
//   - string, []byte, json.Number: as-is
//   - bool: "true" / "false"
//   - integers: base 10
//   - floats: shortest decimal that round-trips, never exponent form
//     (12.34 -> "12.34", 5.0 -> "5")
//   - fmt.Stringer, error: String() / Error()
//   - maps and slices: compact JSON
//   - anything else: fmt.Sprint
//
// The result does not depend on the process locale.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	case map[string]any, Mapping, map[string]string, []any, Sequence, []string, FlatMap:
		if b, err := json.Marshal(val); err == nil {
			return string(b)
		}
		return fmt.Sprint(val)
	default:
		return fmt.Sprint(val)
	}
}
