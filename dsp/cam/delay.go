package cam

import (
	"fmt"
	"math"
	"math/cmplx"
)

// CorrectDelay references the transfer function h to a sensor located ref
// metres from the leading edge of the plant, for a cloud moving at speed v.
//
// The delay ref/v is applied as a phase rotation. A negative speed means the
// plant is swept against its storage order; the rotation then uses the
// negated delay and the whole spectrum is conjugated, which reverses the
// effective time direction of the kernel. h is not modified.
func CorrectDelay(h []complex128, freq []float64, ref, v float64) ([]complex128, error) {
	if len(h) != len(freq) {
		return nil, fmt.Errorf("%w: transfer/frequency length mismatch: %d != %d", ErrInvalidParameter, len(h), len(freq))
	}
	if err := validateSpeed(v); err != nil {
		return nil, err
	}
	if math.IsNaN(ref) || math.IsInf(ref, 0) {
		return nil, fmt.Errorf("%w: reference position must be finite: %v", ErrInvalidParameter, ref)
	}

	delay := ref / v
	out := make([]complex128, len(h))

	switch {
	case v > 0:
		for k, f := range freq {
			out[k] = h[k] * cmplx.Exp(complex(0, 2*math.Pi*f*delay))
		}
	default:
		for k, f := range freq {
			out[k] = cmplx.Conj(h[k] * cmplx.Exp(complex(0, 2*math.Pi*f*-delay)))
		}
	}
	return out, nil
}
