package core

import (
	"math"
	"math/cmplx"
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FirstNonFinite returns the index of the first NaN or Inf value in data,
// or -1 when every value is finite.
func FirstNonFinite(data []float64) int {
	for i, v := range data {
		if !IsFinite(v) {
			return i
		}
	}

	return -1
}

// FirstNonFiniteComplex returns the index of the first bin whose real or
// imaginary part is NaN or Inf, or -1 when every bin is finite.
func FirstNonFiniteComplex(data []complex128) int {
	for i, v := range data {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return i
		}
	}

	return -1
}
