package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseNumeric converts a decoded JSON value into a finite float64.
// It reports false for nil, non-numeric strings, booleans, containers and NaN/Inf.
func ParseNumeric(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseNumericOrZero is ParseNumeric with 0 substituted on failure.
func ParseNumericOrZero(v any) float64 {
	f, _ := ParseNumeric(v)
	return f
}

// ParseInt64OrZero truncates a numeric value toward zero.
func ParseInt64OrZero(v any) int64 {
	return int64(ParseNumericOrZero(v))
}
