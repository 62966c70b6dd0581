package signal

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-cam/dsp/core"
)

// Generator creates deterministic irradiance series from a shared
// configuration. The sample interval and start time come from
// [core.ProcessorConfig].
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise and cloud generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := NewGenerator(coreOpts...)
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the random seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Step generates a series that holds before until sample at and after from
// then on. at may lie outside [0, samples).
func (g *Generator) Step(before, after float64, at, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("step samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	for i := range out {
		if i < at {
			out[i] = before
		} else {
			out[i] = after
		}
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Times returns the timestamp of each of samples samples in seconds since
// the configured start.
func (g *Generator) Times(samples int) []float64 {
	if samples <= 0 {
		return nil
	}
	out := make([]float64, samples)
	for i := range out {
		out[i] = float64(i) * g.cfg.SampleInterval
	}
	return out
}
