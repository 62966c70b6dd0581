package cam

import (
	"fmt"

	"github.com/cwbudde/algo-cam/internal/transform"
)

// Synthesize multiplies the normalised input spectrum x by the transfer
// function h and returns the real part of the inverse transform.
//
// x is expected in the scaling produced by [Analyze]; the N/2 factor that
// undoes it is applied here.
func Synthesize(x, h []complex128) ([]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: input spectrum is empty", ErrInvalidParameter)
	}
	if len(x) != len(h) {
		return nil, fmt.Errorf("%w: spectrum/transfer length mismatch: %d != %d", ErrInvalidParameter, len(x), len(h))
	}

	scale := complex(float64(len(x))/2, 0)
	y := make([]complex128, len(x))
	for k := range y {
		y[k] = x[k] * h[k] * scale
	}

	t, err := transform.Inverse(y)
	if err != nil {
		return nil, fmt.Errorf("cam: synthesize: %w", err)
	}

	out := make([]float64, len(t))
	for i, v := range t {
		out[i] = real(v)
	}
	return out, nil
}
