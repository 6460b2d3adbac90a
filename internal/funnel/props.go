package funnel

import (
	"math"
	"strconv"
	"strings"
)

// Number coerces a property value to a finite float64.
// Numeric strings are accepted; anything else reports false.
func Number(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Lookup returns the first numeric value found under any of names.
func Lookup(props map[string]interface{}, names ...string) (float64, bool) {
	for _, name := range names {
		if v, ok := props[name]; ok {
			if f, ok := Number(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// NonNegative returns the property under names floored at zero, or def when absent or non-numeric.
func NonNegative(props map[string]interface{}, def float64, names ...string) float64 {
	f, ok := Lookup(props, names...)
	if !ok {
		return def
	}
	return math.Max(0, f)
}

// Rate returns the property under names clamped to [0,1], or def when absent or non-numeric.
func Rate(props map[string]interface{}, def float64, names ...string) float64 {
	f, ok := Lookup(props, names...)
	if !ok {
		return def
	}
	return Clamp01(f)
}

// Clamp01 bounds f to [0,1].
func Clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

// IsRateProperty reports whether a property name holds a fraction in [0,1].
func IsRateProperty(name string) bool {
	switch name {
	case "conversionRate", "clickThroughRate", "profitMargin":
		return true
	}
	return false
}
