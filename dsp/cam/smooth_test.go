package cam

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-cam/internal/testutil"
)

func TestSmoothUnityDCGain(t *testing.T) {
	plant := testutil.DeterministicNoise(3, 1, 300)
	for i := range plant {
		plant[i] = math.Abs(plant[i])
	}
	input := testutil.DeterministicNoise(4, 500, 1000)

	for _, v := range []float64{12, -12} {
		for _, ref := range []float64{0, 75, -40} {
			res, err := Smooth(1, input, 2, plant, v, WithReferencePosition(ref))
			if err != nil {
				t.Fatalf("v=%v ref=%v: Smooth error: %v", v, ref, err)
			}
			if res.Frequency[0] != 0 {
				t.Fatalf("frequency[0]=%v want=0", res.Frequency[0])
			}
			if g := cmplx.Abs(res.Transfer[0]); math.Abs(g-1) > 1e-12 {
				t.Fatalf("v=%v ref=%v: |H(0)|=%v want=1", v, ref, g)
			}
		}
	}
}

func TestSmoothImpulsePlantAtLeadingEdgeIsIdentity(t *testing.T) {
	input := testutil.DeterministicNoise(11, 800, 500)
	// Trailing zero padding must not change a zero-extent plant.
	plant := testutil.Impulse(257, 0)

	for _, v := range []float64{20, -20} {
		res, err := Smooth(60, input, 1, plant, v)
		if err != nil {
			t.Fatalf("v=%v: Smooth error: %v", v, err)
		}
		testutil.RequireSliceNearlyEqual(t, res.Smoothed, input, 1e-9)
	}
}

func TestSmoothImpulsePlantAtReferenceIsIdentity(t *testing.T) {
	const (
		n   = 128
		dx  = 10.0
		bin = 5
	)
	input := testutil.DeterministicNoise(12, 1, n)
	plant := testutil.Impulse(n, bin)

	// dx/|v| equals dt, so plant and input frequency grids coincide.
	for _, v := range []float64{10, -10} {
		res, err := Smooth(1, input, dx, plant, v, WithReferencePosition(bin*dx))
		if err != nil {
			t.Fatalf("v=%v: Smooth error: %v", v, err)
		}
		for k, h := range res.Transfer {
			if cmplx.Abs(h-1) > 1e-9 {
				t.Fatalf("v=%v: H[%d]=%v want=1", v, k, h)
			}
		}
		testutil.RequireSliceNearlyEqual(t, res.Smoothed, input, 1e-9)
	}
}

func TestSmoothNegatedSpeedConjugatesTransfer(t *testing.T) {
	plant := testutil.DeterministicNoise(21, 1, 64)
	for i := range plant {
		plant[i] = math.Abs(plant[i])
	}
	input := testutil.DeterministicNoise(22, 1, 200)

	fwd, err := Smooth(1, input, 3, plant, 15, WithReferencePosition(30))
	if err != nil {
		t.Fatalf("forward Smooth error: %v", err)
	}
	rev, err := Smooth(1, input, 3, plant, -15, WithReferencePosition(30))
	if err != nil {
		t.Fatalf("reversed Smooth error: %v", err)
	}

	want := make([]complex128, len(fwd.Transfer))
	for i, h := range fwd.Transfer {
		want[i] = cmplx.Conj(h)
	}
	testutil.RequireComplexNearlyEqual(t, rev.Transfer, want, 1e-12)
}

func TestSmoothReversedSweepEqualsMirroredPlant(t *testing.T) {
	const (
		n  = 96
		dx = 10.0
		v  = 10.0
	)
	plant := testutil.DeterministicNoise(31, 1, n)
	for i := range plant {
		plant[i] = math.Abs(plant[i])
	}
	input := testutil.DeterministicNoise(32, 1, n)

	rev, err := Smooth(1, input, dx, plant, -v)
	if err != nil {
		t.Fatalf("reversed Smooth error: %v", err)
	}

	// The mirrored layout puts the original leading edge at the far end.
	mirrored, err := Smooth(1, input, dx, testutil.Reverse(plant), v,
		WithReferencePosition(float64(n-1)*dx))
	if err != nil {
		t.Fatalf("mirrored Smooth error: %v", err)
	}

	testutil.RequireComplexNearlyEqual(t, mirrored.Transfer, rev.Transfer, 1e-9)
	testutil.RequireSliceNearlyEqual(t, mirrored.Smoothed, rev.Smoothed, 1e-9)
}

func TestSmoothUniformPlantSincResponse(t *testing.T) {
	const (
		length = 100.0 // metres of plant
		dx     = 1.0
		speed  = 10.0
	)
	plant := testutil.Box(10000, 0, int(length/dx))
	input := testutil.DeterministicNoise(41, 1, 3600)

	res, err := Smooth(1, input, dx, plant, speed)
	if err != nil {
		t.Fatalf("Smooth error: %v", err)
	}

	T := length / speed
	for k, f := range res.Frequency {
		want := 1.0
		if f != 0 {
			x := math.Pi * f * T
			want = math.Abs(math.Sin(x) / x)
		}
		got := cmplx.Abs(res.Transfer[k])
		if math.Abs(got-want) > 0.01 {
			t.Fatalf("f=%v: |H|=%v want≈%v", f, got, want)
		}
	}
}

func TestSmoothLengthInvariant(t *testing.T) {
	for _, n := range []int{2, 3, 100, 1023} {
		for _, m := range []int{1, 7, 64, 5000} {
			input := testutil.DeterministicNoise(int64(n), 1, n)
			plant := testutil.Ones(m)
			res, err := Smooth(1, input, 1, plant, 5)
			if err != nil {
				t.Fatalf("n=%d m=%d: Smooth error: %v", n, m, err)
			}
			if len(res.Smoothed) != n || len(res.Frequency) != n || len(res.Transfer) != n {
				t.Fatalf("n=%d m=%d: lengths smoothed=%d freq=%d transfer=%d",
					n, m, len(res.Smoothed), len(res.Frequency), len(res.Transfer))
			}
		}
	}
}

func TestSmoothStepScenario(t *testing.T) {
	input := testutil.Step(3600, 1800, 0, 1)
	plant := testutil.Ones(100)

	res, err := Smooth(1, input, 1, plant, 10)
	if err != nil {
		t.Fatalf("Smooth error: %v", err)
	}
	y := res.Smoothed
	testutil.RequireFinite(t, y)

	for i := 600; i <= 1500; i++ {
		if math.Abs(y[i]) > 0.02 {
			t.Fatalf("y[%d]=%v want≈0 before the step", i, y[i])
		}
	}
	for i := 2100; i <= 3000; i++ {
		if math.Abs(y[i]-1) > 0.02 {
			t.Fatalf("y[%d]=%v want≈1 after the step", i, y[i])
		}
	}

	crossing := -1
	for i := 1700; i < 1900; i++ {
		if y[i] < 0.5 && y[i+1] >= 0.5 {
			crossing = i
			break
		}
	}
	if crossing < 1790 || crossing > 1810 {
		t.Fatalf("half-level crossing at %d, want within 10 s of the step", crossing)
	}

	for i, v := range y {
		if v < -0.05 || v > 1.05 {
			t.Fatalf("y[%d]=%v overshoots the box-filter bound", i, v)
		}
	}
}

func TestSmoothStepPaddedPlantRampsOverTransitTime(t *testing.T) {
	input := testutil.Step(3600, 1800, 0, 1)
	// 100 m of plant padded to 1 km for frequency resolution.
	plant := testutil.Box(1000, 0, 100)

	res, err := Smooth(1, input, 1, plant, 10)
	if err != nil {
		t.Fatalf("Smooth error: %v", err)
	}
	y := res.Smoothed

	// Reference at the leading edge: the plant sees the step over the
	// following 10 s.
	if math.Abs(y[1795]) > 0.03 {
		t.Fatalf("y[1795]=%v want≈0", y[1795])
	}
	if math.Abs(y[1805]-0.5) > 0.1 {
		t.Fatalf("y[1805]=%v want≈0.5", y[1805])
	}
	if math.Abs(y[1815]-1) > 0.03 {
		t.Fatalf("y[1815]=%v want≈1", y[1815])
	}
	for i := 1801; i < 1810; i++ {
		if y[i] < y[i-1]-0.02 {
			t.Fatalf("ramp not monotone at %d: %v < %v", i, y[i], y[i-1])
		}
	}
	for i, v := range y {
		if v < -0.03 || v > 1.03 {
			t.Fatalf("y[%d]=%v overshoots the box-filter bound", i, v)
		}
	}
}

func TestSmoothReferencePositionCentresRamp(t *testing.T) {
	input := testutil.Step(3600, 1800, 0, 1)
	plant := testutil.Box(1000, 0, 100)

	res, err := Smooth(1, input, 1, plant, 10, WithReferencePosition(50))
	if err != nil {
		t.Fatalf("Smooth error: %v", err)
	}
	// Sensor in the middle of the plant: half the plant is already shaded
	// when the sensor sees the edge.
	if math.Abs(res.Smoothed[1800]-0.5) > 0.1 {
		t.Fatalf("y[1800]=%v want≈0.5", res.Smoothed[1800])
	}
}

func TestSmoothInvalidParameters(t *testing.T) {
	input := []float64{1, 2, 3, 4}
	plant := []float64{1, 1}

	tests := []struct {
		name  string
		dt    float64
		in    []float64
		dx    float64
		plant []float64
		v     float64
		opts  []Option
	}{
		{name: "zero cloud speed", dt: 1, in: input, dx: 1, plant: plant, v: 0},
		{name: "zero dt", dt: 0, in: input, dx: 1, plant: plant, v: 1},
		{name: "negative dt", dt: -1, in: input, dx: 1, plant: plant, v: 1},
		{name: "zero dx", dt: 1, in: input, dx: 0, plant: plant, v: 1},
		{name: "negative dx", dt: 1, in: input, dx: -2, plant: plant, v: 1},
		{name: "empty input", dt: 1, in: nil, dx: 1, plant: plant, v: 1},
		{name: "single sample input", dt: 1, in: []float64{1}, dx: 1, plant: plant, v: 1},
		{name: "empty plant", dt: 1, in: input, dx: 1, plant: nil, v: 1},
		{name: "zero plant", dt: 1, in: input, dx: 1, plant: []float64{0, 0}, v: 1},
		{name: "nan reference", dt: 1, in: input, dx: 1, plant: plant, v: 1,
			opts: []Option{WithReferencePosition(math.NaN())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Smooth(tt.dt, tt.in, tt.dx, tt.plant, tt.v, tt.opts...)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("error = %v, want ErrInvalidParameter", err)
			}
			if res != nil {
				t.Fatalf("expected no result on failure, got %+v", res)
			}
		})
	}
}

func TestSmoothNonFiniteInputIsDegenerate(t *testing.T) {
	input := []float64{1, math.Inf(1), 3, 4}

	res, err := Smooth(1, input, 1, []float64{1, 1}, 1)
	if !errors.Is(err, ErrNumericDegenerate) {
		t.Fatalf("error = %v, want ErrNumericDegenerate", err)
	}
	if res != nil {
		t.Fatalf("expected no result on failure")
	}
}

func TestSmoothDoesNotModifyInputs(t *testing.T) {
	input := testutil.DeterministicNoise(51, 1, 50)
	plant := testutil.Box(40, 3, 10)
	inCopy := append([]float64(nil), input...)
	plantCopy := append([]float64(nil), plant...)

	if _, err := Smooth(1, input, 1, plant, -3, WithReferencePosition(7)); err != nil {
		t.Fatalf("Smooth error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, input, inCopy, 0)
	testutil.RequireSliceNearlyEqual(t, plant, plantCopy, 0)
}
