// Command caminfo prints the transfer properties of uniform plants under
// the cloud advection model.
//
// Usage:
//
//	caminfo [flags] [plant-length-m ...]
//
// Without arguments it prints a table for a range of typical plant sizes.
//
// Examples:
//
//	caminfo 500 5000
//	caminfo -speed 5 -dt 60 -samples 1440 1000
//	caminfo -freq 0.01 -ref 250 2000
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-cam/dsp/cam"
	"github.com/cwbudde/algo-cam/plant"
	frequencystats "github.com/cwbudde/algo-cam/stats/frequency"
)

var defaultLengths = []float64{50, 200, 500, 1000, 2000, 5000, 10000}

func main() {
	speed := flag.Float64("speed", 20, "cloud speed in m/s")
	dx := flag.Float64("dx", 1, "plant resolution in metres")
	pad := flag.Float64("pad", 10, "plant extent as a multiple of its length")
	ref := flag.Float64("ref", 0, "sensor position in metres")
	dt := flag.Float64("dt", 1, "series sample interval in seconds")
	samples := flag.Int("samples", 3600, "series length the transfer is evaluated for")
	freq := flag.Float64("freq", 1.0/60, "frequency in Hz to report the attenuation at")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: caminfo [flags] [plant-length-m ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints transfer properties of uniform plants.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints a range of typical plant sizes.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  caminfo 500 5000\n")
		fmt.Fprintf(os.Stderr, "  caminfo -speed 5 -dt 60 -samples 1440 1000\n")
	}
	flag.Parse()

	lengths, err := parseLengths(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	printAnalysis(lengths, analysisParams{
		speed:   *speed,
		dx:      *dx,
		pad:     *pad,
		ref:     *ref,
		dt:      *dt,
		samples: *samples,
		freq:    *freq,
	})
}

type analysisParams struct {
	speed, dx, pad, ref, dt, freq float64
	samples                       int
}

func parseLengths(args []string) ([]float64, error) {
	if len(args) == 0 {
		return defaultLengths, nil
	}
	out := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil || !(v > 0) {
			return nil, fmt.Errorf("invalid plant length %q", a)
		}
		out = append(out, v)
	}
	return out, nil
}

type row struct {
	length  float64
	summary frequencystats.Summary
	atten   float64
}

func analyze(length float64, p analysisParams) (row, error) {
	dist, err := plant.Uniform(length, p.dx, length*p.pad)
	if err != nil {
		return row{}, err
	}
	res, err := cam.Smooth(p.dt, make([]float64, p.samples), dist.DX, dist.Density, p.speed,
		cam.WithReferencePosition(p.ref))
	if err != nil {
		return row{}, err
	}
	s, err := frequencystats.Summarize(res.Frequency, res.Transfer)
	if err != nil {
		return row{}, err
	}
	a, err := frequencystats.Attenuation(res.Frequency, res.Transfer, p.freq)
	if err != nil {
		return row{}, err
	}
	return row{length: length, summary: s, atten: a}, nil
}

func printAnalysis(lengths []float64, p analysisParams) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Plant [m]\tTransit [s]\tDC Gain\tCorner [Hz]\tCorner Period [s]\tNoise BW [Hz]\tGroup Delay [s]\tAtten @%.4g Hz [dB]\n", p.freq); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	if _, err := fmt.Fprintf(tw, "---------\t-----------\t-------\t-----------\t-----------------\t-------------\t---------------\t------------------\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for _, length := range lengths {
		r, err := analyze(length, p)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "warning: plant %g m: %v\n", length, err)
			continue
		}

		period := 0.0
		if r.summary.CornerFrequency > 0 {
			period = 1 / r.summary.CornerFrequency
		}
		speed := p.speed
		if speed < 0 {
			speed = -speed
		}

		if _, err := fmt.Fprintf(tw, "%g\t%.1f\t%.4f\t%.5f\t%.1f\t%.5f\t%.2f\t%.2f\n",
			r.length,
			r.length/speed,
			r.summary.DCGain,
			r.summary.CornerFrequency,
			period,
			r.summary.NoiseBandwidth,
			r.summary.GroupDelay,
			r.atten,
		); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
