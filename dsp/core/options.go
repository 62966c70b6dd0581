package core

import "time"

// ProcessorConfig defines common sampling settings shared by generators and
// analysis helpers.
type ProcessorConfig struct {
	// SampleInterval is the time step between samples in seconds.
	SampleInterval float64
	// Start is the wall-clock time of the first sample.
	Start time.Time
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns one-second sampling starting at the Unix epoch.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleInterval: 1,
		Start:          time.Unix(0, 0).UTC(),
	}
}

// WithSampleInterval sets the sample interval in seconds.
func WithSampleInterval(dt float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if dt > 0 {
			cfg.SampleInterval = dt
		}
	}
}

// WithStart sets the time of the first sample.
func WithStart(start time.Time) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if !start.IsZero() {
			cfg.Start = start
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
