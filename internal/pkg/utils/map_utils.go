package utils

import (
	"fmt"
	"strings"
)

// AsMap returns v as a JSON object if it is one.
func AsMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// AsSlice returns v as a JSON array if it is one.
func AsSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// Lookup walks a dotted path of object keys. It stops at the first missing key.
func Lookup(v any, path ...string) (any, bool) {
	cur := v
	for _, key := range path {
		m, ok := AsMap(cur)
		if !ok {
			return nil, false
		}
		next, exists := m[key]
		if !exists {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// FirstKey returns the value of the first key present with a non-nil value.
func FirstKey(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// StringField returns the first present key rendered as a trimmed string.
// Numbers are formatted without exponent so numeric user IDs survive.
func StringField(m map[string]any, keys ...string) string {
	v, ok := FirstKey(m, keys...)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", s), "0"), ".")
	case bool, map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

// BoolField returns the first present key as a bool. String values "true"/"1" count as true.
func BoolField(m map[string]any, keys ...string) bool {
	v, ok := FirstKey(m, keys...)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true") || b == "1"
	case float64:
		return b != 0
	default:
		return false
	}
}
