package cam

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-cam/dsp/spectrum"
	"github.com/cwbudde/algo-cam/internal/transform"
)

// Analyze returns the amplitude-normalised spectrum of x and its frequency
// axis in Hz.
//
// The spectrum is FFT(x)·2/N, so a sinusoid of amplitude A that falls on a
// bin shows magnitude A at both its positive and negative frequency. The
// axis uses DFT bin order with spacing 1/(N·dt).
func Analyze(x []float64, dt float64) ([]complex128, []float64, error) {
	if len(x) < 1 {
		return nil, nil, fmt.Errorf("%w: input series is empty", ErrInvalidParameter)
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, nil, fmt.Errorf("%w: input dt must be > 0: %v", ErrInvalidParameter, dt)
	}

	spec, err := transform.ForwardReal(x)
	if err != nil {
		return nil, nil, fmt.Errorf("cam: analyze input: %w", err)
	}
	scale := complex(2/float64(len(x)), 0)
	for i := range spec {
		spec[i] *= scale
	}

	freq, err := spectrum.FFTFreq(len(x), dt)
	if err != nil {
		return nil, nil, fmt.Errorf("cam: analyze input: %w", err)
	}
	return spec, freq, nil
}
