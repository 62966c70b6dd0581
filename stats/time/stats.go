package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Stats holds variability statistics of an irradiance series.
//
// Ramp rates are first differences divided by the sample interval, in units
// of the series per second.
type Stats struct {
	Length     int
	Mean       float64
	Variance   float64 // population variance
	StdDev     float64
	RMS        float64
	Max        float64
	MaxPos     int
	Min        float64
	MinPos     int
	Range      float64 // max - min
	RampMean   float64
	RampStdDev float64
	MaxRamp    float64 // largest |ramp|
	MaxRampPos int     // index of the later sample of the largest ramp
}

// Calculate computes all statistics of series sampled every dt seconds.
//
// Mean and variance use Welford's online update. Ramp fields are left zero
// when the series has fewer than two samples or dt is not positive.
func Calculate(series []float64, dt float64) Stats {
	n := len(series)
	if n == 0 {
		return Stats{}
	}

	var (
		mean   float64
		m2     float64
		maxVal = series[0]
		maxPos int
		minVal = series[0]
		minPos int
	)

	for i, x := range series {
		ni := float64(i + 1)
		delta := x - mean
		mean += delta / ni
		m2 += delta * (x - mean)

		if x > maxVal {
			maxVal = x
			maxPos = i
		}
		if x < minVal {
			minVal = x
			minPos = i
		}
	}

	variance := m2 / float64(n)
	s := Stats{
		Length:   n,
		Mean:     mean,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		RMS:      RMS(series),
		Max:      maxVal,
		MaxPos:   maxPos,
		Min:      minVal,
		MinPos:   minPos,
		Range:    maxVal - minVal,
	}

	ramps := RampRates(series, dt)
	if len(ramps) == 0 {
		return s
	}

	var rampMean, rampM2 float64
	for i, r := range ramps {
		delta := r - rampMean
		rampMean += delta / float64(i+1)
		rampM2 += delta * (r - rampMean)

		if a := math.Abs(r); a > s.MaxRamp {
			s.MaxRamp = a
			s.MaxRampPos = i + 1
		}
	}
	s.RampMean = rampMean
	s.RampStdDev = math.Sqrt(rampM2 / float64(len(ramps)))

	return s
}

// RMS returns the root-mean-square of the series.
func RMS(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}

	sq := make([]float64, len(series))
	vecmath.MulBlock(sq, series, series)

	return math.Sqrt(floats.Sum(sq) / float64(len(series)))
}

// RampRates returns the first differences of series divided by dt. It
// returns nil for fewer than two samples or a non-positive dt.
func RampRates(series []float64, dt float64) []float64 {
	if len(series) < 2 || !(dt > 0) || math.IsInf(dt, 0) {
		return nil
	}

	out := make([]float64, len(series)-1)
	for i := range out {
		out[i] = (series[i+1] - series[i]) / dt
	}

	return out
}

// RampReduction returns the fraction by which smoothing lowered the ramp
// rate standard deviation, 1 - after/before. A still series before
// smoothing yields 0.
func RampReduction(before, after Stats) float64 {
	if before.RampStdDev == 0 {
		return 0
	}

	return 1 - after.RampStdDev/before.RampStdDev
}
