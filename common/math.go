package common

import "math"

// Lerp moves a toward b by weight t.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Sign returns -1, 0 or 1.
func Sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
