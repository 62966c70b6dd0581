package frequency

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/cwbudde/algo-cam/dsp/spectrum"
)

// ErrInvalidSpectrum is returned for empty, mismatched or non-finite input.
var ErrInvalidSpectrum = errors.New("frequency: invalid spectrum")

// Summary describes a low-pass transfer function such as the plant response
// produced by smoothing. Only the non-negative half of the frequency axis is
// considered.
//
//nolint:revive
type Summary struct {
	BinCount  int     // number of non-negative frequency bins
	DCGain    float64 // |H(0)|
	DCGain_dB float64
	// CornerFrequency is the lowest frequency in Hz where |H| falls to
	// DCGain/sqrt(2), interpolated linearly between bins. It is 0 when the
	// response never falls that far.
	CornerFrequency float64
	// NoiseBandwidth is the equivalent noise bandwidth in Hz,
	// integral of |H|^2 over f >= 0 divided by DCGain^2.
	NoiseBandwidth float64
	// GroupDelay is the group delay in seconds at the lowest bin pair.
	GroupDelay float64
}

// toDB converts a linear magnitude to decibels.
// Returns -Inf for zero values.
func toDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

// Summarize computes a [Summary] of transfer sampled at freq. freq may be in
// DFT bin order; it is sorted internally.
func Summarize(freq []float64, transfer []complex128) (Summary, error) {
	pos, bins, err := positiveAxis(freq, transfer)
	if err != nil {
		return Summary{}, err
	}
	mag := spectrum.Magnitude(bins)

	s := Summary{
		BinCount:  len(pos),
		DCGain:    mag[0],
		DCGain_dB: toDB(mag[0]),
	}
	if len(pos) < 2 || s.DCGain == 0 {
		return s, nil
	}

	threshold := s.DCGain / math.Sqrt2
	for i := 1; i < len(mag); i++ {
		if mag[i-1] > threshold && mag[i] <= threshold {
			s.CornerFrequency = interpFreq(pos[i-1], pos[i], mag[i-1], mag[i], threshold)
			break
		}
	}

	s.NoiseBandwidth = integrate.Trapezoidal(pos, spectrum.Power(bins)) / (s.DCGain * s.DCGain)

	// The DFT axis is uniform, so the FFT size follows from the spacing.
	df := pos[1] - pos[0]
	n := len(freq)
	delay, err := spectrum.GroupDelaySeconds(spectrum.UnwrapPhase(spectrum.Phase(bins[:2])), n, 1/(float64(n)*df))
	if err != nil {
		return Summary{}, fmt.Errorf("frequency: group delay: %w", err)
	}
	s.GroupDelay = delay[0]

	return s, nil
}

// Attenuation returns how far |H| at query lies below unity, in dB. The
// magnitude is interpolated linearly on the sorted axis and held constant
// beyond its ends. A zero magnitude gives +Inf.
func Attenuation(freq []float64, transfer []complex128, query float64) (float64, error) {
	if len(freq) == 0 || len(freq) != len(transfer) {
		return 0, fmt.Errorf("%w: %d frequencies for %d bins", ErrInvalidSpectrum, len(freq), len(transfer))
	}
	if math.IsNaN(query) {
		return 0, fmt.Errorf("%w: query frequency is NaN", ErrInvalidSpectrum)
	}

	sorted, bins, err := spectrum.SortByFrequency(freq, transfer)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSpectrum, err)
	}

	gain, err := spectrum.InterpolateLinear(sorted, spectrum.Magnitude(bins), []float64{query})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSpectrum, err)
	}

	return -toDB(gain[0]), nil
}

// positiveAxis returns the ascending non-negative frequencies of transfer
// and the bins at them.
func positiveAxis(freq []float64, transfer []complex128) (pos []float64, bins []complex128, err error) {
	if len(freq) == 0 || len(freq) != len(transfer) {
		return nil, nil, fmt.Errorf("%w: %d frequencies for %d bins", ErrInvalidSpectrum, len(freq), len(transfer))
	}
	for i, f := range freq {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, nil, fmt.Errorf("%w: frequency %d is not finite", ErrInvalidSpectrum, i)
		}
	}

	sorted, bins, err := spectrum.SortByFrequency(freq, transfer)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSpectrum, err)
	}

	start := 0
	for start < len(sorted) && sorted[start] < 0 {
		start++
	}
	if start == len(sorted) || sorted[start] != 0 {
		return nil, nil, fmt.Errorf("%w: no DC bin", ErrInvalidSpectrum)
	}

	return sorted[start:], bins[start:], nil
}

// interpFreq linearly interpolates between two bins to find the frequency
// where the magnitude crosses the given threshold.
func interpFreq(fLow, fHigh, magLow, magHigh, threshold float64) float64 {
	denom := magHigh - magLow
	if denom == 0 {
		return (fLow + fHigh) / 2
	}
	t := (threshold - magLow) / denom
	return fLow + t*(fHigh-fLow)
}
