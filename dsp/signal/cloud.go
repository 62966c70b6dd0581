package signal

import (
	"fmt"
	"math"
	"math/rand"
)

// CloudCover shades base with a deterministic sequence of cloud passages.
//
// Shaded and clear intervals alternate. Shaded intervals have exponentially
// distributed lengths with mean meanDuration samples; clear intervals are
// scaled so that on average fraction of the samples are shaded. A shaded
// sample is multiplied by 1-depth. The edges are hard steps, which is what a
// point sensor sees and what plant smoothing is meant to soften.
func (g *Generator) CloudCover(base []float64, fraction, depth float64, meanDuration int) ([]float64, error) {
	if len(base) == 0 {
		return nil, fmt.Errorf("cloud cover base must not be empty")
	}
	if fraction < 0 || fraction > 1 || math.IsNaN(fraction) {
		return nil, fmt.Errorf("cloud cover fraction must be in [0, 1]: %f", fraction)
	}
	if depth < 0 || depth > 1 || math.IsNaN(depth) {
		return nil, fmt.Errorf("cloud cover depth must be in [0, 1]: %f", depth)
	}
	if meanDuration <= 0 {
		return nil, fmt.Errorf("cloud cover mean duration must be > 0: %d", meanDuration)
	}

	out := make([]float64, len(base))
	copy(out, base)
	if fraction == 0 || depth == 0 {
		return out, nil
	}

	shade := 1 - depth
	if fraction == 1 {
		for i := range out {
			out[i] *= shade
		}
		return out, nil
	}

	rng := rand.New(rand.NewSource(g.seed))
	meanClear := float64(meanDuration) * (1 - fraction) / fraction

	cloudy := rng.Float64() < fraction
	for i := 0; i < len(out); {
		mean := meanClear
		if cloudy {
			mean = float64(meanDuration)
		}
		n := int(math.Ceil(rng.ExpFloat64() * mean))
		if n < 1 {
			n = 1
		}
		end := min(i+n, len(out))
		if cloudy {
			for j := i; j < end; j++ {
				out[j] *= shade
			}
		}
		i = end
		cloudy = !cloudy
	}
	return out, nil
}
