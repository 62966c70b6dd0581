package cam

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-cam/dsp/core"
)

// Result holds a smoothed series together with the transfer function that
// produced it.
type Result struct {
	// Smoothed is the plant-averaged series, same length and time axis as the input.
	Smoothed []float64
	// Frequency is the frequency axis of Transfer in Hz, DFT bin order.
	Frequency []float64
	// Transfer is the plant transfer function H(f) referenced to the sensor.
	Transfer []complex128
}

type config struct {
	refPos float64
}

// Option configures [Smooth].
type Option func(*config)

// WithReferencePosition sets the position of the sensor in metres within the
// plant coordinate frame. The default 0 is the leading edge of the
// distribution. Negative values and values beyond the plant extent are valid.
func WithReferencePosition(pos float64) Option {
	return func(c *config) {
		c.refPos = pos
	}
}

// Smooth returns the series a plant with density plant (spacing dx metres)
// would see when the point measurement input (spacing dt seconds) is
// advected across it at cloudSpeed metres per second.
//
// All arguments are checked before any computation. Failures wrap
// [ErrInvalidParameter]; a non-finite value in the smoothed series or in the
// transfer function wraps [ErrNumericDegenerate].
func Smooth(dt float64, input []float64, dx float64, plant []float64, cloudSpeed float64, opts ...Option) (*Result, error) {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if len(input) < 2 {
		return nil, fmt.Errorf("%w: input series needs at least 2 samples: %d", ErrInvalidParameter, len(input))
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: input dt must be > 0: %v", ErrInvalidParameter, dt)
	}
	if err := validatePlant(plant, dx, cloudSpeed); err != nil {
		return nil, err
	}
	if !core.IsFinite(cfg.refPos) {
		return nil, fmt.Errorf("%w: reference position must be finite: %v", ErrInvalidParameter, cfg.refPos)
	}

	spec, freq, err := Analyze(input, dt)
	if err != nil {
		return nil, err
	}

	plantFreq, plantSpec, err := PlantSpectrum(plant, dx, cloudSpeed)
	if err != nil {
		return nil, err
	}

	h, err := Resample(freq, plantFreq, plantSpec)
	if err != nil {
		return nil, err
	}

	h, err = CorrectDelay(h, freq, cfg.refPos, cloudSpeed)
	if err != nil {
		return nil, err
	}

	smoothed, err := Synthesize(spec, h)
	if err != nil {
		return nil, err
	}

	if i := core.FirstNonFiniteComplex(h); i >= 0 {
		return nil, fmt.Errorf("%w: transfer function bin %d is %v", ErrNumericDegenerate, i, h[i])
	}
	if i := core.FirstNonFinite(smoothed); i >= 0 {
		return nil, fmt.Errorf("%w: smoothed sample %d is %v", ErrNumericDegenerate, i, smoothed[i])
	}

	return &Result{
		Smoothed:  smoothed,
		Frequency: freq,
		Transfer:  h,
	}, nil
}
