package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateFormats are the layouts accepted for raw date cells, tried in order.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Missing reports whether a raw cell value represents an absent value:
// SQL NULL or an empty/whitespace-only string.
func Missing(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []byte:
		return strings.TrimSpace(string(val)) == ""
	default:
		return false
	}
}

// Float converts a raw cell value to a float64, covering the value types
// the SQL drivers produce. Missing values are the caller's concern; nil
// is an error here.
func Float(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case int:
		return float64(val), nil
	case []byte:
		return parseFloat(string(val))
	case string:
		return parseFloat(val)
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}

// Int converts a raw cell value to an int64. Floats convert only when
// they carry no fractional part.
func Int(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case float64:
		if val != float64(int64(val)) {
			return 0, fmt.Errorf("value %v has a fractional part", val)
		}
		return int64(val), nil
	case []byte:
		return parseInt(string(val))
	case string:
		return parseInt(val)
	default:
		return 0, fmt.Errorf("value %v (%T) is not an integer", v, v)
	}
}

// String converts a raw cell value to its string form. nil becomes "".
func String(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Date converts a raw cell value to a calendar date. Drivers configured
// to parse time columns hand back time.Time; others hand back strings.
func Date(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case []byte:
		return parseDate(string(val))
	case string:
		return parseDate(val)
	default:
		return time.Time{}, fmt.Errorf("value %v (%T) is not a date", v, v)
	}
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not numeric", s)
	}
	return f, nil
}

func parseInt(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("value %q is not an integer", s)
	}
	return int64(f), nil
}

func parseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("value %q is not a recognized date", s)
}
