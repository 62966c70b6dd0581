package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLengths(t *testing.T) {
	got, err := parseLengths(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultLengths, got)

	got, err = parseLengths([]string{"100", "2.5e3"})
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 2500}, got)

	for _, bad := range []string{"-5", "0", "big"} {
		_, err := parseLengths([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestAnalyze(t *testing.T) {
	p := analysisParams{speed: 10, dx: 1, pad: 10, dt: 1, samples: 3600, freq: 0.05}

	r, err := analyze(100, p)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r.summary.DCGain, 1e-9)
	assert.InDelta(t, 0.0443, r.summary.CornerFrequency, 0.002)
	assert.InDelta(t, 4.95, r.summary.GroupDelay, 0.05)
	assert.InDelta(t, 3.92, r.atten, 0.05)

	bigger, err := analyze(1000, p)
	require.NoError(t, err)
	assert.Less(t, bigger.summary.CornerFrequency, r.summary.CornerFrequency)
}

func TestAnalyzeRejectsZeroSpeed(t *testing.T) {
	_, err := analyze(100, analysisParams{dx: 1, pad: 2, dt: 1, samples: 10})
	assert.Error(t, err)
}
