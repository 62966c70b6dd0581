package frequency

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/cwbudde/algo-cam/dsp/core"
)

// DefaultSegment is the Welch segment length used when none is given.
const DefaultSegment = 256

// Welch estimates the one-sided power spectral density of series, sampled
// every dt seconds, by averaging Hann-windowed segments of segment samples
// with 50% overlap. segment <= 0 selects DefaultSegment; it is rounded down
// to an even length and limited to the series length. The density is in
// units² per Hz, so integrating it over freq gives the mean square.
func Welch(series []float64, dt float64, segment int) (freq, psd []float64, err error) {
	if len(series) < 2 {
		return nil, nil, fmt.Errorf("%w: welch needs at least 2 samples: %d", ErrInvalidSpectrum, len(series))
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, nil, fmt.Errorf("%w: welch dt must be > 0: %v", ErrInvalidSpectrum, dt)
	}
	if i := core.FirstNonFinite(series); i >= 0 {
		return nil, nil, fmt.Errorf("%w: sample %d is %v", ErrInvalidSpectrum, i, series[i])
	}

	if segment <= 0 {
		segment = DefaultSegment
	}
	segment = min(segment, len(series))
	segment -= segment % 2

	psd, freq = spectral.Pwelch(series, 1/dt, &spectral.PwelchOptions{
		NFFT:     segment,
		Noverlap: segment / 2,
		Window:   window.Hann,
	})
	return freq, psd, nil
}

// BandPower integrates psd over the part of freq inside [lo, hi] with the
// trapezoidal rule. Bands holding fewer than two bins have no power.
func BandPower(freq, psd []float64, lo, hi float64) (float64, error) {
	if len(freq) != len(psd) {
		return 0, fmt.Errorf("%w: %d frequencies for %d densities", ErrInvalidSpectrum, len(freq), len(psd))
	}

	start, end := -1, -1
	for i, f := range freq {
		if i > 0 && !(f > freq[i-1]) {
			return 0, fmt.Errorf("%w: frequencies must increase at %d", ErrInvalidSpectrum, i)
		}
		if f >= lo && f <= hi {
			if start < 0 {
				start = i
			}
			end = i + 1
		}
	}
	if start < 0 || end-start < 2 {
		return 0, nil
	}
	return integrate.Trapezoidal(freq[start:end], psd[start:end]), nil
}

// PowerReduction returns the fraction of the fluctuation power of before at
// frequencies >= cutoff that is gone from after, 1 - P_after/P_before. Both
// series share the sample interval dt and have their means removed first.
// A band without power gives 0.
func PowerReduction(before, after []float64, dt, cutoff float64) (float64, error) {
	if len(before) != len(after) {
		return 0, fmt.Errorf("%w: series lengths differ: %d != %d", ErrInvalidSpectrum, len(before), len(after))
	}

	freq, pIn, err := Welch(detrend(before), dt, 0)
	if err != nil {
		return 0, err
	}
	_, pOut, err := Welch(detrend(after), dt, 0)
	if err != nil {
		return 0, err
	}

	in, err := BandPower(freq, pIn, cutoff, math.Inf(1))
	if err != nil {
		return 0, err
	}
	if in == 0 {
		return 0, nil
	}
	out, err := BandPower(freq, pOut, cutoff, math.Inf(1))
	if err != nil {
		return 0, err
	}
	return 1 - out/in, nil
}

// detrend returns a copy of x with its mean removed.
func detrend(x []float64) []float64 {
	out := append([]float64(nil), x...)
	if len(out) > 0 {
		floats.AddConst(-floats.Sum(out)/float64(len(out)), out)
	}
	return out
}
