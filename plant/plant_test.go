package plant

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-cam/dsp/cam"
)

func TestProject(t *testing.T) {
	points := []Point{{East: 1, North: 0}, {East: 0, North: 1}, {East: 1, North: 1}, {East: -2, North: -2}}

	dist, err := Project(points, Point{}, Point{East: 1, North: 1})
	require.NoError(t, err)
	require.Len(t, dist, 4)

	assert.InDelta(t, 1/math.Sqrt2, dist[0], 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, dist[1], 1e-12)
	assert.InDelta(t, math.Sqrt2, dist[2], 1e-12)
	assert.InDelta(t, -2*math.Sqrt2, dist[3], 1e-12)
}

func TestProject_UnnormalisedDirectionAndReference(t *testing.T) {
	points := []Point{{East: 110, North: 50}, {East: 90, North: -20}}

	dist, err := Project(points, Point{East: 100, North: 0}, Point{East: 5, North: 0})
	require.NoError(t, err)

	assert.InDelta(t, 10, dist[0], 1e-12)
	assert.InDelta(t, -10, dist[1], 1e-12)
}

func TestProject_Errors(t *testing.T) {
	_, err := Project(nil, Point{}, Point{East: 1})
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = Project([]Point{{}}, Point{}, Point{})
	assert.ErrorIs(t, err, ErrInvalidLayout)
	assert.Contains(t, err.Error(), "direction")

	_, err = Project([]Point{{East: math.Inf(1)}}, Point{}, Point{East: 1})
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestRasterize(t *testing.T) {
	d, err := Rasterize([]float64{-5, 0, 12.4}, 1, 10, nil)
	require.NoError(t, err)

	require.Len(t, d.Density, 27)
	assert.Equal(t, 1.0, d.Density[0])
	assert.Equal(t, 1.0, d.Density[5])
	assert.Equal(t, 1.0, d.Density[17])
	assert.InDelta(t, 3.0, sum(d.Density), 0)
	assert.Equal(t, 5.0, d.ReferencePosition)
	assert.Equal(t, 1.0, d.DX)
	assert.Equal(t, 27.0, d.Extent())
}

func TestRasterize_GrowsForLastBin(t *testing.T) {
	d, err := Rasterize([]float64{0, 9.6}, 1, 0, nil)
	require.NoError(t, err)

	require.Len(t, d.Density, 11)
	assert.Equal(t, 1.0, d.Density[0])
	assert.Equal(t, 1.0, d.Density[10])
}

func TestRasterize_SinglePoint(t *testing.T) {
	d, err := Rasterize([]float64{42}, 2, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{1}, d.Density)
	assert.Equal(t, -42.0, d.ReferencePosition)
}

func TestRasterize_WeightsOverwrite(t *testing.T) {
	d, err := Rasterize([]float64{0, 0.2, 3}, 1, 0, []float64{3, 5, 2})
	require.NoError(t, err)

	assert.Equal(t, []float64{5, 0, 0, 2}, d.Density)
}

func TestRasterize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		dist    []float64
		dx      float64
		padding float64
		weights []float64
	}{
		{"empty", nil, 1, 0, nil},
		{"zero dx", []float64{0}, 0, 0, nil},
		{"negative padding", []float64{0}, 1, -1, nil},
		{"weight count", []float64{0, 1}, 1, 0, []float64{1}},
		{"negative weight", []float64{0}, 1, 0, []float64{-1}},
		{"zero weights", []float64{0, 1}, 1, 0, []float64{0, 0}},
		{"nan distance", []float64{math.NaN()}, 1, 0, nil},
		{"span beyond int range", []float64{0, 1e20}, 1, 0, nil},
		{"span beyond bin limit", []float64{0, MaxBins}, 1, 0, nil},
		{"padding beyond bin limit", []float64{0}, 1, 2 * MaxBins, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rasterize(tt.dist, tt.dx, tt.padding, tt.weights)
			assert.ErrorIs(t, err, ErrInvalidLayout)
		})
	}
}

func TestUniform(t *testing.T) {
	d, err := Uniform(5000, 1, 50000)
	require.NoError(t, err)

	assert.Len(t, d.Density, 50000)
	assert.Equal(t, 5000.0, sum(d.Density))
	assert.Equal(t, 1.0, d.Density[4999])
	assert.Equal(t, 0.0, d.Density[5000])
	assert.Equal(t, 50000.0, d.Extent())
	assert.Zero(t, d.ReferencePosition)
}

func TestUniform_NoPadding(t *testing.T) {
	d, err := Uniform(100, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, d.Density)

	short, err := Uniform(1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, short.Density)
}

func TestUniform_Errors(t *testing.T) {
	_, err := Uniform(0, 1, 10)
	assert.ErrorIs(t, err, ErrInvalidLayout)
	_, err = Uniform(10, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidLayout)
	_, err = Uniform(10, 1, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestUniform_RejectsOversizedPlants(t *testing.T) {
	tests := []struct {
		name               string
		length, dx, extent float64
	}{
		{"length overflows int", 1e19, 1, 0},
		{"extent beyond limit", 10, 1, 1e11},
		{"tiny dx", 10, 1e-300, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Uniform(tt.length, tt.dx, tt.extent)
			assert.ErrorIs(t, err, ErrInvalidLayout)
			assert.Nil(t, d.Density)
		})
	}
}

func TestBinCounts(t *testing.T) {
	n, err := UniformBins(5000, 1, 50000)
	require.NoError(t, err)
	assert.Equal(t, 50000, n)

	n, err = UniformBins(MaxBins, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxBins, n)

	_, err = UniformBins(MaxBins+1, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidLayout)

	n, err = RasterBins([]float64{-5, 0, 12.4}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 27, n)

	n, err = RasterBins([]float64{0, 9.6}, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	_, err = RasterBins([]float64{-1e20, 1e20}, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestRandomLayout(t *testing.T) {
	a := RandomLayout(42, 500, 5000, 3000)
	b := RandomLayout(42, 500, 5000, 3000)
	c := RandomLayout(43, 500, 5000, 3000)

	require.Len(t, a, 500)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	for _, p := range a {
		assert.GreaterOrEqual(t, p.East, 0.0)
		assert.Less(t, p.East, 5000.0)
		assert.GreaterOrEqual(t, p.North, 0.0)
		assert.Less(t, p.North, 3000.0)
	}
	assert.Nil(t, RandomLayout(1, 0, 1, 1))
}

func TestLayoutSmoothing(t *testing.T) {
	points := RandomLayout(42, 500, 5000, 5000)
	ref := Point{East: 2500, North: 2500}

	dist, err := Project(points, ref, Point{East: 1, North: 1})
	require.NoError(t, err)

	d, err := Rasterize(dist, 1, 30000, nil)
	require.NoError(t, err)
	assert.Greater(t, d.ReferencePosition, 0.0)
	assert.Less(t, d.ReferencePosition, d.Extent())

	input := make([]float64, 1440)
	for i := 720; i < len(input); i++ {
		input[i] = 800
	}

	res, err := cam.Smooth(60, input, d.DX, d.Density, 20, cam.WithReferencePosition(d.ReferencePosition))
	require.NoError(t, err)
	require.Len(t, res.Smoothed, len(input))
	assert.InDelta(t, 1.0, cmplx.Abs(res.Transfer[0]), 1e-9)
}

func sum(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s
}
