package main

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-cam/internal/config"
	"github.com/cwbudde/algo-cam/internal/logging"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Smoothing.PlantLength = 100
	cfg.Smoothing.PlantExtent = 1000
	cfg.Smoothing.LayoutPadding = 500
	cfg.Smoothing.CloudSpeed = 10
	cfg.Smoothing.ReferencePosition = 0
	return cfg
}

func testOptions() options {
	return options{
		out:       "-",
		synthetic: "step",
		samples:   600,
		dt:        1,
		start:     "2024-03-20T00:00:00Z",
		latitude:  37,
		plantType: "uniform",
		points:    50,
		heading:   90,
		seed:      1,
		speed:     math.NaN(),
		ref:       math.NaN(),
	}
}

func quietLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, zerolog.Disabled)
}

func csvLines(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "time_s,ghi,smoothed", lines[0])
	return lines[1:]
}

func TestRun_SyntheticStep(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(testOptions(), testConfig(), &buf, quietLogger()))

	rows := csvLines(t, &buf)
	require.Len(t, rows, 600)
	assert.True(t, strings.HasPrefix(rows[0], "0,1000,"), rows[0])
	assert.True(t, strings.HasPrefix(rows[599], "599,200,"), rows[599])
}

func TestRun_ClearSkyLayout(t *testing.T) {
	o := testOptions()
	o.synthetic = "clearsky"
	o.samples = 8640
	o.dt = 10
	o.plantType = "layout"
	o.heading = 45

	var buf bytes.Buffer
	require.NoError(t, run(o, testConfig(), &buf, quietLogger()))
	assert.Len(t, csvLines(t, &buf), 8640)
}

func TestRun_CSVInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	var in strings.Builder
	in.WriteString("time,ghi\n")
	for i := 0; i < 120; i++ {
		v := "800"
		if i >= 60 {
			v = "300"
		}
		in.WriteString(strings.Join([]string{strconv.Itoa(i * 5), v}, ",") + "\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(in.String()), 0o600))

	o := testOptions()
	o.in = path
	o.timeUnit = "seconds"
	o.speed = -15
	o.ref = 50

	var buf bytes.Buffer
	require.NoError(t, run(o, testConfig(), &buf, quietLogger()))
	rows := csvLines(t, &buf)
	require.Len(t, rows, 120)
	assert.True(t, strings.HasPrefix(rows[1], "5,800,"), rows[1])
}

func TestRun_SensorNoise(t *testing.T) {
	o := testOptions()
	o.noise = 25
	o.seed = 7

	var buf, logs bytes.Buffer
	logger := logging.NewWithWriter(&logs, zerolog.InfoLevel)
	require.NoError(t, run(o, testConfig(), &buf, logger))

	rows := csvLines(t, &buf)
	require.Len(t, rows, 600)
	assert.False(t, strings.HasPrefix(rows[0], "0,1000,"), rows[0])

	entries := map[string]map[string]interface{}{}
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var e map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &e), line)
		entries[e["message"].(string)] = e
	}

	require.Contains(t, entries, "Synthetic input")
	assert.Equal(t, 7.0, entries["Synthetic input"]["seed"])
	assert.Equal(t, 25.0, entries["Synthetic input"]["noise"])

	require.Contains(t, entries, "Variability")
	reduction, ok := entries["Variability"]["spectral_reduction"].(float64)
	require.True(t, ok, "spectral_reduction missing")
	assert.Greater(t, reduction, 0.5)
	assert.LessOrEqual(t, reduction, 1.0)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *options)
	}{
		{"unknown synthetic", func(o *options) { o.synthetic = "sawtooth" }},
		{"unknown plant", func(o *options) { o.plantType = "hexagon" }},
		{"bad start", func(o *options) { o.start = "yesterday" }},
		{"bad dt", func(o *options) { o.dt = -1 }},
		{"missing file", func(o *options) { o.in = filepath.Join(t.TempDir(), "missing.csv") }},
		{"bad time unit", func(o *options) { o.in = "x.csv"; o.timeUnit = "hours" }},
		{"zero speed", func(o *options) { o.speed = 0 }},
		{"negative noise", func(o *options) { o.noise = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOptions()
			tt.mutate(&o)
			var buf bytes.Buffer
			assert.Error(t, run(o, testConfig(), &buf, quietLogger()))
			assert.Zero(t, buf.Len())
		})
	}
}

func TestRun_LayoutAboveBinLimit(t *testing.T) {
	o := testOptions()
	o.plantType = "layout"

	cfg := testConfig()
	cfg.Smoothing.MaxPlantBins = 100

	var buf bytes.Buffer
	err := run(o, cfg, &buf, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "above the limit of 100")
	assert.Zero(t, buf.Len())
}
