package utils

import "encoding/json"

// ToFloat64 converts a decoded JSON scalar to float64.
// Returns the converted value and true if successful, or 0 and false if conversion fails.
// Supports: float64, float32, int, int64, json.Number
func ToFloat64(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}

	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ToInt64 converts a decoded JSON scalar to int64. Fractional values are rejected.
func ToInt64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case json.Number:
		i, err := val.Int64()
		return i, err == nil
	}

	f, ok := ToFloat64(v)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}
