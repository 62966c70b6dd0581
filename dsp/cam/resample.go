package cam

import (
	"fmt"

	"github.com/cwbudde/algo-cam/dsp/spectrum"
)

// Resample evaluates the plant spectrum q, given on axis freq, at the
// frequencies in target.
//
// Magnitude and wrapped phase are interpolated separately and linearly over
// the ascending plant axis, with flat extrapolation beyond its ends, then
// recombined. The result is aligned one-to-one with target.
func Resample(target, freq []float64, q []complex128) ([]complex128, error) {
	if len(freq) == 0 {
		return nil, fmt.Errorf("%w: plant spectrum is empty", ErrInvalidParameter)
	}

	sortedFreq, sortedBins, err := spectrum.SortByFrequency(freq, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	mag, err := spectrum.InterpolateLinear(sortedFreq, spectrum.Magnitude(sortedBins), target)
	if err != nil {
		return nil, fmt.Errorf("cam: resample magnitude: %w", err)
	}
	phase, err := spectrum.InterpolateLinear(sortedFreq, spectrum.Phase(sortedBins), target)
	if err != nil {
		return nil, fmt.Errorf("cam: resample phase: %w", err)
	}

	return spectrum.Polar(mag, phase)
}
