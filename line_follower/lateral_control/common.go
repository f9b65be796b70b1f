package control

import "math"

// Clamp limits value to [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Sign returns -1, 0 or +1 for the sign of v.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// BoolToInt converts bool to int (for CSV logging).
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NormalizeHeading wraps a heading in degrees into [0, 360).
func NormalizeHeading(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}
