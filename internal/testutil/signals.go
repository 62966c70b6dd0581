package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine of the given frequency sampled every dt seconds.
func DeterministicSine(freqHz, dt, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz * dt
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Step returns before for indices < at and after from at onwards.
func Step(length, at int, before, after float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		if i < at {
			out[i] = before
		} else {
			out[i] = after
		}
	}
	return out
}

// Box returns a zero slice with ones over [start, start+width).
func Box(length, start, width int) []float64 {
	out := make([]float64, length)
	for i := start; i < start+width && i < length; i++ {
		if i >= 0 {
			out[i] = 1
		}
	}
	return out
}

// Reverse returns a reversed copy of data.
func Reverse(data []float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[len(data)-1-i] = v
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}
