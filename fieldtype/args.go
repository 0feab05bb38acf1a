package fieldtype

import (
	"encoding/json"
	"maps"
	"strconv"
	"strings"
)

// Args holds the construction arguments of a field. Managers filter it down
// to the recognised keys before a field sees it.
type Args map[string]any

// Clone returns a shallow copy
func (a Args) Clone() Args {
	if a == nil {
		return Args{}
	}
	return maps.Clone(a)
}

// Has reports whether key is present
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// IsSet reports whether key is present with a non-blank value
func (a Args) IsSet(key string) bool {
	v, ok := a[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// String safely extracts a string value. Numbers and booleans are rendered.
func (a Args) String(key, defaultVal string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return defaultVal
	}
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case json.Number:
		return s.String()
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return defaultVal
}

// Int safely extracts an integer value
func (a Args) Int(key string, defaultVal int) int {
	if v, ok := a[key]; ok {
		if f, ok := toFloat(v); ok {
			return int(f)
		}
	}
	return defaultVal
}

// Float64 safely extracts a float64 value
func (a Args) Float64(key string, defaultVal float64) float64 {
	if v, ok := a[key]; ok {
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return defaultVal
}

// Bool safely extracts a boolean value
func (a Args) Bool(key string, defaultVal bool) bool {
	if v, ok := a[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// StringSlice safely extracts a string slice. A single string becomes a
// one-element slice.
func (a Args) StringSlice(key string, defaultVal []string) []string {
	v, ok := a[key]
	if !ok {
		return defaultVal
	}
	switch s := v.(type) {
	case []string:
		return s
	case string:
		return []string{s}
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return defaultVal
			}
			result = append(result, str)
		}
		return result
	}
	return defaultVal
}

// Map safely extracts a nested argument map
func (a Args) Map(key string) Args {
	switch m := a[key].(type) {
	case Args:
		return m
	case map[string]any:
		return Args(m)
	}
	return nil
}

// DataAttributes returns the data-* keys
func (a Args) DataAttributes() Args {
	out := Args{}
	for k, v := range a {
		if strings.HasPrefix(k, "data-") {
			out[k] = v
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// isIntegral reports whether v carries an integer type. Numeric strings and
// json.Number count when they have no fraction or exponent.
func isIntegral(v any) bool {
	switch n := v.(type) {
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		return true
	case json.Number:
		_, err := n.Int64()
		return err == nil
	case string:
		_, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return err == nil
	}
	return false
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case bool:
		if s {
			return "1"
		}
		return ""
	case json.Number:
		return s.String()
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// isEmptyValue mirrors the generic emptiness check shared by most field
// types: zero numbers, empty strings, "0" and empty collections.
func isEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == "" || x == "0"
	case bool:
		return !x
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	case []map[string]any:
		return len(x) == 0
	}
	if f, ok := toFloat(v); ok {
		return f == 0
	}
	return false
}
