package cam

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-cam/dsp/spectrum"
	"github.com/cwbudde/algo-cam/internal/transform"
	"gonum.org/v1/gonum/floats"
)

// PlantSpectrum normalises the plant density d to unit sum, transforms it
// and returns its frequency axis in Hz together with the spectrum.
//
// d is sampled every dx metres. A cloud moving at speed v covers one sample
// in dx/|v| seconds, which becomes the time step of the plant axis. Trailing
// zeros in d only refine that axis. The direction of travel does not change
// the axis; it is handled by [CorrectDelay].
func PlantSpectrum(d []float64, dx, v float64) ([]float64, []complex128, error) {
	if err := validatePlant(d, dx, v); err != nil {
		return nil, nil, err
	}

	total := floats.Sum(d)
	q := make([]float64, len(d))
	floats.ScaleTo(q, 1/total, d)

	spec, err := transform.ForwardReal(q)
	if err != nil {
		return nil, nil, fmt.Errorf("cam: plant spectrum: %w", err)
	}

	plantTime := dx / math.Abs(v)
	freq, err := spectrum.FFTFreq(len(d), plantTime)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: plant time step %v s: %v", ErrInvalidParameter, plantTime, err)
	}
	return freq, spec, nil
}

func validatePlant(d []float64, dx, v float64) error {
	if len(d) == 0 {
		return fmt.Errorf("%w: plant distribution is empty", ErrInvalidParameter)
	}
	if !(dx > 0) || math.IsInf(dx, 0) {
		return fmt.Errorf("%w: plant dx must be > 0: %v", ErrInvalidParameter, dx)
	}
	if err := validateSpeed(v); err != nil {
		return err
	}

	total := 0.0
	for i, w := range d {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: plant density at %d is not finite", ErrInvalidParameter, i)
		}
		if w < 0 {
			return fmt.Errorf("%w: plant density at %d is negative: %v", ErrInvalidParameter, i, w)
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("%w: plant distribution sums to zero", ErrInvalidParameter)
	}
	if math.IsInf(total, 0) {
		return fmt.Errorf("%w: plant distribution sum overflows", ErrInvalidParameter)
	}
	return nil
}

func validateSpeed(v float64) error {
	if v == 0 {
		return fmt.Errorf("%w: cloud speed must be non-zero", ErrInvalidParameter)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: cloud speed must be finite: %v", ErrInvalidParameter, v)
	}
	return nil
}
