// Command camsmooth smooths a point irradiance series into the plant
// average predicted by the cloud advection model.
//
// Usage:
//
//	camsmooth [flags]
//
// The input is a time,ghi CSV (-in, "-" for stdin) or a synthetic series
// (-synthetic step|clearsky). The plant is either the configured uniform
// plant or a random generator layout (-plant layout). The result is written
// as a time_s,ghi,smoothed CSV.
//
// Examples:
//
//	camsmooth -in measurement.csv -out smoothed.csv
//	camsmooth -in sensor.csv -time-unit seconds -speed 12 -ref 250
//	camsmooth -synthetic clearsky -dt 10 -samples 8640 -plant layout -heading 45
//	camsmooth -synthetic step -noise 25 -seed 7
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-cam/dsp/cam"
	"github.com/cwbudde/algo-cam/dsp/core"
	"github.com/cwbudde/algo-cam/dsp/signal"
	"github.com/cwbudde/algo-cam/internal/config"
	"github.com/cwbudde/algo-cam/internal/ingest"
	"github.com/cwbudde/algo-cam/internal/logging"
	"github.com/cwbudde/algo-cam/plant"
	frequencystats "github.com/cwbudde/algo-cam/stats/frequency"
	timestats "github.com/cwbudde/algo-cam/stats/time"
)

type options struct {
	in        string
	out       string
	timeUnit  string
	synthetic string
	samples   int
	dt        float64
	start     string
	latitude  float64
	longitude float64
	plantType string
	points    int
	heading   float64
	seed      int64
	noise     float64
	speed     float64
	ref       float64
}

func main() {
	var o options
	configPath := flag.String("config", "", "Path to configuration file")
	envPath := flag.String("env", ".env", "Path to a .env file with CAM_* overrides")
	flag.StringVar(&o.in, "in", "", `input CSV ("-" for stdin); empty uses -synthetic`)
	flag.StringVar(&o.out, "out", "-", `output CSV ("-" for stdout)`)
	flag.StringVar(&o.timeUnit, "time-unit", "", "input time column unit: days or seconds (default from config)")
	flag.StringVar(&o.synthetic, "synthetic", "step", "synthetic input: step or clearsky")
	flag.IntVar(&o.samples, "samples", 3600, "synthetic series length")
	flag.Float64Var(&o.dt, "dt", 1, "synthetic sample interval in seconds")
	flag.StringVar(&o.start, "start", "2024-06-21T00:00:00Z", "synthetic series start (RFC3339)")
	flag.Float64Var(&o.latitude, "lat", 37.0, "clear sky latitude in degrees")
	flag.Float64Var(&o.longitude, "lon", 0, "clear sky longitude in degrees")
	flag.StringVar(&o.plantType, "plant", "uniform", "plant model: uniform or layout")
	flag.IntVar(&o.points, "points", 500, "generators in a random layout")
	flag.Float64Var(&o.heading, "heading", 90, "direction clouds move toward, degrees clockwise from north")
	flag.Int64Var(&o.seed, "seed", 1, "seed for synthetic clouds, sensor noise and random layouts")
	flag.Float64Var(&o.noise, "noise", 0, "sensor noise amplitude in W/m² added to synthetic input")
	flag.Float64Var(&o.speed, "speed", math.NaN(), "cloud speed in m/s (default from config)")
	flag.Float64Var(&o.ref, "ref", math.NaN(), "sensor position in the plant frame in metres (default from config)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: camsmooth [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Smooths a point irradiance series over a PV plant footprint.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load env file: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the CSV unless -out names a file.
	if o.out == "-" && cfg.Logging.OutputPath == "stdout" {
		cfg.Logging.OutputPath = "stderr"
	}
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)

	var w io.Writer = os.Stdout
	if o.out != "-" {
		f, err := os.Create(o.out)
		if err != nil {
			logger.Fatal("Failed to create output", "path", o.out, "error", err)
		}
		defer f.Close()
		w = f
	}

	if err := run(o, cfg, w, logger); err != nil {
		logger.Error("Smoothing failed", "error", err)
		os.Exit(1)
	}
}

func run(o options, cfg *config.Config, w io.Writer, logger *logging.Logger) error {
	series, err := loadInput(o, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("Input loaded", "samples", series.Len(), "dt", series.DT)

	dist, err := buildPlant(o, cfg)
	if err != nil {
		return err
	}

	speed := cfg.Smoothing.CloudSpeed
	if !math.IsNaN(o.speed) {
		speed = o.speed
	}
	ref := dist.ReferencePosition
	if !math.IsNaN(o.ref) {
		ref = o.ref
	}
	logger.Info("Plant ready",
		"type", o.plantType,
		"bins", len(dist.Density),
		"dx", dist.DX,
		"extent", dist.Extent(),
		"reference_position", ref,
		"cloud_speed", speed)

	res, err := cam.Smooth(series.DT, series.Values, dist.DX, dist.Density, speed, cam.WithReferencePosition(ref))
	if err != nil {
		return err
	}

	before := timestats.Calculate(series.Values, series.DT)
	after := timestats.Calculate(res.Smoothed, series.DT)
	fields := []interface{}{
		"ramp_std_in", before.RampStdDev,
		"ramp_std_out", after.RampStdDev,
		"max_ramp_in", before.MaxRamp,
		"max_ramp_out", after.MaxRamp,
		"ramp_reduction", timestats.RampReduction(before, after),
	}

	summary, err := frequencystats.Summarize(res.Frequency, res.Transfer)
	if err != nil {
		logger.Warn("Transfer summary unavailable", "error", err)
	} else {
		logger.Info("Transfer function",
			"dc_gain", summary.DCGain,
			"corner_frequency_hz", summary.CornerFrequency,
			"noise_bandwidth_hz", summary.NoiseBandwidth,
			"group_delay_s", summary.GroupDelay)

		if summary.CornerFrequency > 0 {
			r, err := frequencystats.PowerReduction(series.Values, res.Smoothed, series.DT, summary.CornerFrequency)
			if err != nil {
				logger.Warn("Spectral reduction unavailable", "error", err)
			} else {
				fields = append(fields, "spectral_reduction", r)
			}
		}
	}
	logger.Info("Variability", fields...)

	return ingest.WriteCSV(w, series.Time, series.Values, res.Smoothed)
}

func loadInput(o options, cfg *config.Config, logger *logging.Logger) (*ingest.Series, error) {
	if o.in != "" {
		unitName := o.timeUnit
		if unitName == "" {
			unitName = cfg.Smoothing.TimeUnit
		}
		unit, err := ingest.ParseTimeUnit(unitName)
		if err != nil {
			return nil, err
		}

		r := io.Reader(os.Stdin)
		if o.in != "-" {
			f, err := os.Open(o.in)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		return ingest.NewCSVParser(unit).Parse(r)
	}

	start, err := time.Parse(time.RFC3339, o.start)
	if err != nil {
		return nil, fmt.Errorf("invalid -start: %w", err)
	}
	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleInterval(o.dt), core.WithStart(start)},
		signal.WithSeed(o.seed),
	)
	if gen.Config().SampleInterval != o.dt {
		return nil, fmt.Errorf("invalid -dt: %v", o.dt)
	}

	var values []float64
	switch o.synthetic {
	case "step":
		values, err = gen.Step(1000, 200, o.samples/2, o.samples)
	case "clearsky":
		var clear []float64
		clear, err = gen.ClearSky(time.Time{}, o.latitude, o.longitude, 0, o.samples)
		if err == nil {
			// Cloud passages of about two minutes on average.
			values, err = gen.CloudCover(clear, 0.3, 0.7, max(1, int(120/o.dt)))
		}
	default:
		err = errors.New("unknown -synthetic " + o.synthetic)
	}
	if err != nil {
		return nil, err
	}
	if o.noise != 0 {
		noise, err := gen.WhiteNoise(o.noise, o.samples)
		if err != nil {
			return nil, err
		}
		floats.Add(values, noise)
	}
	logger.Info("Synthetic input", "kind", o.synthetic, "seed", gen.Seed(), "noise", o.noise)
	return &ingest.Series{Time: gen.Times(o.samples), Values: values, DT: o.dt}, nil
}

func buildPlant(o options, cfg *config.Config) (plant.Distribution, error) {
	sc := cfg.Smoothing
	switch o.plantType {
	case "uniform":
		d, err := plant.Uniform(sc.PlantLength, sc.PlantDX, sc.PlantExtent)
		if err != nil {
			return plant.Distribution{}, err
		}
		d.ReferencePosition = sc.ReferencePosition
		return d, nil

	case "layout":
		// Square site of PlantLength with the sensor at its centre.
		side := sc.PlantLength
		points := plant.RandomLayout(o.seed, o.points, side, side)
		h := o.heading * math.Pi / 180
		dir := plant.Point{East: math.Sin(h), North: math.Cos(h)}
		dist, err := plant.Project(points, plant.Point{East: side / 2, North: side / 2}, dir)
		if err != nil {
			return plant.Distribution{}, err
		}
		n, err := plant.RasterBins(dist, sc.PlantDX, sc.LayoutPadding)
		if err != nil {
			return plant.Distribution{}, err
		}
		if n > sc.MaxPlantBins {
			return plant.Distribution{}, fmt.Errorf("layout needs %d bins, above the limit of %d", n, sc.MaxPlantBins)
		}
		return plant.Rasterize(dist, sc.PlantDX, sc.LayoutPadding, nil)

	default:
		return plant.Distribution{}, errors.New("unknown -plant " + o.plantType)
	}
}
