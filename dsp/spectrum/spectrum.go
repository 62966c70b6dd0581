package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
	"sync"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// FFTFreq returns the sample frequencies of an n-point DFT with sample
// spacing d, in bin order: [0, 1, ..., ceil(n/2)-1, -floor(n/2), ..., -1] / (d*n).
func FFTFreq(n int, d float64) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("fft frequency axis requires n >= 1: %d", n)
	}
	if !(d > 0) || math.IsInf(d, 0) {
		return nil, fmt.Errorf("fft frequency axis requires spacing > 0: %v", d)
	}

	out := make([]float64, n)
	scale := 1 / (d * float64(n))
	positive := (n-1)/2 + 1
	for k := 0; k < positive; k++ {
		out[k] = float64(k) * scale
	}
	for k := positive; k < n; k++ {
		out[k] = float64(k-n) * scale
	}
	return out, nil
}

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// This function uses SIMD-optimized implementations when available (AVX2, SSE2, NEON)
// for improved performance on large spectrum arrays. Scratch buffers are pooled
// internally, so in steady state this allocates only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// Phase returns arg(X[k]) for each complex spectrum bin in radians, wrapped
// to (-π, π].
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// Polar recombines magnitude and phase into complex bins: mag[k]·exp(i·phase[k]).
func Polar(mag, phase []float64) ([]complex128, error) {
	if len(mag) != len(phase) {
		return nil, fmt.Errorf("polar magnitude/phase length mismatch: %d != %d", len(mag), len(phase))
	}
	out := make([]complex128, len(mag))
	for i := range out {
		out[i] = cmplx.Rect(mag[i], phase[i])
	}
	return out, nil
}

// SortByFrequency returns copies of freq and bins reordered so that freq is
// ascending. The inputs are left untouched.
func SortByFrequency(freq []float64, bins []complex128) ([]float64, []complex128, error) {
	if len(freq) != len(bins) {
		return nil, nil, fmt.Errorf("sort frequency/bin length mismatch: %d != %d", len(freq), len(bins))
	}

	sorted := make([]float64, len(freq))
	copy(sorted, freq)
	inds := make([]int, len(freq))
	floats.Argsort(sorted, inds)

	out := make([]complex128, len(bins))
	for i, j := range inds {
		out[i] = bins[j]
	}
	return sorted, out, nil
}

// UnwrapPhase returns a new phase slice with +/-2*pi discontinuities removed.
func UnwrapPhase(phase []float64) []float64 {
	if len(phase) == 0 {
		return nil
	}
	out := make([]float64, len(phase))
	out[0] = phase[0]
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		switch {
		case d > math.Pi:
			offset -= 2 * math.Pi
		case d < -math.Pi:
			offset += 2 * math.Pi
		}
		out[i] = phase[i] + offset
	}
	return out
}

// GroupDelayFromPhase computes group delay in samples from unwrapped phase.
//
// The phase slice is expected over uniformly spaced FFT bins. fftSize is the
// FFT size that produced those bins. A centered finite difference is used for
// interior bins, with one-sided differences at the endpoints.
func GroupDelayFromPhase(unwrapped []float64, fftSize int) ([]float64, error) {
	if len(unwrapped) < 2 {
		return nil, fmt.Errorf("group delay requires at least 2 phase points: %d", len(unwrapped))
	}
	if fftSize <= 0 {
		return nil, fmt.Errorf("group delay fftSize must be > 0: %d", fftSize)
	}
	dw := 2 * math.Pi / float64(fftSize)
	out := make([]float64, len(unwrapped))
	for i := range unwrapped {
		var dphi float64
		switch i {
		case 0:
			dphi = unwrapped[1] - unwrapped[0]
		case len(unwrapped) - 1:
			dphi = unwrapped[i] - unwrapped[i-1]
		default:
			dphi = (unwrapped[i+1] - unwrapped[i-1]) / 2
		}
		out[i] = -dphi / dw
	}
	return out, nil
}

// GroupDelaySeconds computes group delay in seconds from unwrapped phase
// sampled every dt seconds in the time domain.
func GroupDelaySeconds(unwrapped []float64, fftSize int, dt float64) ([]float64, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("group delay dt must be > 0: %f", dt)
	}
	samples, err := GroupDelayFromPhase(unwrapped, fftSize)
	if err != nil {
		return nil, err
	}
	for i := range samples {
		samples[i] *= dt
	}
	return samples, nil
}

// InterpolateLinear performs piecewise-linear interpolation at queryX.
//
// x must be strictly increasing and have the same length as y. Queries
// outside [x[0], x[len(x)-1]] take the nearest boundary value.
func InterpolateLinear(x, y, queryX []float64) ([]float64, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, fmt.Errorf("interpolate requires non-empty x and y")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("interpolate x/y length mismatch: %d != %d", len(x), len(y))
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return nil, fmt.Errorf("interpolate x must be strictly increasing at index %d", i)
		}
	}

	out := make([]float64, len(queryX))
	for i, q := range queryX {
		if q <= x[0] {
			out[i] = y[0]
			continue
		}
		if q >= x[len(x)-1] {
			out[i] = y[len(y)-1]
			continue
		}

		j := sort.SearchFloat64s(x, q)
		if x[j] == q {
			out[i] = y[j]
			continue
		}
		x0, x1 := x[j-1], x[j]
		t := (q - x0) / (x1 - x0)
		out[i] = y[j-1] + t*(y[j]-y[j-1])
	}
	return out, nil
}
