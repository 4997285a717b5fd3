package common

import "math"

// Clamp01 bounds v to the closed interval [0.0, 1.0].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RoundTo2 rounds v to two decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundTo4 rounds v to four decimal places, the precision used for
// confidence and score fields in serialized results.
func RoundTo4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// MinFloat returns the smaller of a and b.
func MinFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// MaxFloat returns the larger of a and b.
func MaxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
