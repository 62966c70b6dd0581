package plant

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-cam/dsp/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidLayout is returned for layouts that do not describe a plant.
var ErrInvalidLayout = errors.New("plant: invalid layout")

// Point is a generator position in metres.
type Point struct {
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// Distribution is a plant density along the cloud motion direction.
type Distribution struct {
	// Density is the relative generation per bin. Only ratios matter.
	Density []float64
	// DX is the bin width in metres.
	DX float64
	// ReferencePosition is the sensor position in metres from bin 0.
	ReferencePosition float64
}

// Extent returns the length in metres covered by Density, padding included.
func (d Distribution) Extent() float64 {
	return float64(len(d.Density)) * d.DX
}

// Project returns the signed distance of each point from ref along dir.
// dir need not be normalised but must be non-zero.
func Project(points []Point, ref Point, dir Point) ([]float64, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrInvalidLayout)
	}
	norm := math.Hypot(dir.East, dir.North)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, fmt.Errorf("%w: direction must be non-zero and finite: %v", ErrInvalidLayout, dir)
	}

	offsets := mat.NewDense(len(points), 2, nil)
	for i, p := range points {
		offsets.Set(i, 0, p.East-ref.East)
		offsets.Set(i, 1, p.North-ref.North)
	}
	unit := mat.NewVecDense(2, []float64{dir.East / norm, dir.North / norm})

	var dist mat.VecDense
	dist.MulVec(offsets, unit)

	out := make([]float64, len(points))
	for i := range out {
		out[i] = dist.AtVec(i)
	}
	if i := core.FirstNonFinite(out); i >= 0 {
		return nil, fmt.Errorf("%w: point %d projects to %v", ErrInvalidLayout, i, out[i])
	}
	return out, nil
}

// MaxBins is the largest density length Rasterize and Uniform build.
const MaxBins = 1 << 24

// checkBins converts a bin count computed in floating point, rejecting
// counts that overflow or exceed MaxBins.
func checkBins(n float64) (int, error) {
	if math.IsNaN(n) || n > MaxBins {
		return 0, fmt.Errorf("%w: %v bins exceed the limit of %d", ErrInvalidLayout, n, MaxBins)
	}
	return max(int(n), 1), nil
}

// RasterBins validates the arguments of Rasterize and returns the length of
// the density it would build.
func RasterBins(dist []float64, dx, padding float64) (int, error) {
	if len(dist) == 0 {
		return 0, fmt.Errorf("%w: no distances", ErrInvalidLayout)
	}
	if !(dx > 0) || math.IsInf(dx, 0) {
		return 0, fmt.Errorf("%w: dx must be > 0: %v", ErrInvalidLayout, dx)
	}
	if !(padding >= 0) || math.IsInf(padding, 0) {
		return 0, fmt.Errorf("%w: padding must be >= 0: %v", ErrInvalidLayout, padding)
	}
	if i := core.FirstNonFinite(dist); i >= 0 {
		return 0, fmt.Errorf("%w: distance %d is %v", ErrInvalidLayout, i, dist[i])
	}

	span := floats.Max(dist) - floats.Min(dist)
	padded := math.Floor(span/dx) + math.Floor(padding/dx)
	// The farthest point rounds to bin round(span/dx), which may lie past
	// the padded length when padding is short.
	last := math.Round(span/dx) + 1
	return checkBins(math.Max(padded, last))
}

// Rasterize bins projected distances into a Distribution with bin width dx.
//
// The axis is shifted so the smallest distance lies at 0, which moves the
// sensor (distance 0 before the shift) to ReferencePosition. padding metres
// of zeros follow the last generator. Each point sets the density of its
// nearest bin to its weight; weights may be nil for unit generation. Points
// falling into the same bin overwrite each other in input order.
func Rasterize(dist []float64, dx, padding float64, weights []float64) (Distribution, error) {
	n, err := RasterBins(dist, dx, padding)
	if err != nil {
		return Distribution{}, err
	}
	if weights != nil && len(weights) != len(dist) {
		return Distribution{}, fmt.Errorf("%w: %d weights for %d points", ErrInvalidLayout, len(weights), len(dist))
	}
	total := 0.0
	for i, w := range weights {
		if !(w >= 0) || math.IsInf(w, 0) {
			return Distribution{}, fmt.Errorf("%w: weight %d must be finite and >= 0: %v", ErrInvalidLayout, i, w)
		}
		total += w
	}
	if weights != nil && total == 0 {
		return Distribution{}, fmt.Errorf("%w: all weights are zero", ErrInvalidLayout)
	}

	lo := floats.Min(dist)
	density := make([]float64, n)
	for i, d := range dist {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		density[int(math.Round((d-lo)/dx))] = w
	}

	if floats.Sum(density) == 0 {
		return Distribution{}, fmt.Errorf("%w: rasterised density is zero", ErrInvalidLayout)
	}

	return Distribution{
		Density:           density,
		DX:                dx,
		ReferencePosition: -lo,
	}, nil
}

// UniformBins validates the arguments of Uniform and returns the length of
// the density it would build.
func UniformBins(length, dx, extent float64) (int, error) {
	if !(dx > 0) || math.IsInf(dx, 0) {
		return 0, fmt.Errorf("%w: dx must be > 0: %v", ErrInvalidLayout, dx)
	}
	if !(length > 0) || math.IsInf(length, 0) {
		return 0, fmt.Errorf("%w: length must be > 0: %v", ErrInvalidLayout, length)
	}
	if math.IsNaN(extent) || math.IsInf(extent, 0) {
		return 0, fmt.Errorf("%w: extent must be finite: %v", ErrInvalidLayout, extent)
	}
	return checkBins(math.Floor(math.Max(length, extent) / dx))
}

// Uniform returns a constant density over [0, length) metres, zero padded
// to extent metres in total. An extent shorter than length adds no padding.
func Uniform(length, dx, extent float64) (Distribution, error) {
	n, err := UniformBins(length, dx, extent)
	if err != nil {
		return Distribution{}, err
	}

	density := make([]float64, n)
	filled := min(max(int(length/dx), 1), n)
	for i := range filled {
		density[i] = 1
	}

	return Distribution{Density: density, DX: dx}, nil
}

// RandomLayout returns n generator positions drawn uniformly from a
// width by height rectangle with its corner at the origin. The same seed
// always yields the same layout.
func RandomLayout(seed int64, n int, width, height float64) []Point {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]Point, n)
	for i := range out {
		out[i] = Point{
			East:  rng.Float64() * width,
			North: rng.Float64() * height,
		}
	}
	return out
}
