package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMalformed is returned for input that is not a two-column numeric CSV.
	ErrMalformed = errors.New("ingest: malformed input")
	// ErrIrregular is returned when the time steps are not uniform.
	ErrIrregular = errors.New("ingest: irregular sampling")
)

// TimeUnit is the unit of the time column.
type TimeUnit int

const (
	// Seconds means the time column is in seconds.
	Seconds TimeUnit = iota
	// Days means the time column is a day count with fractional part, as
	// written by spreadsheets.
	Days
)

// ParseTimeUnit maps "s"/"seconds" and "d"/"days" to a TimeUnit.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "sec", "seconds", "":
		return Seconds, nil
	case "d", "day", "days":
		return Days, nil
	default:
		return Seconds, fmt.Errorf("unknown time unit %q", s)
	}
}

func (u TimeUnit) String() string {
	if u == Days {
		return "days"
	}
	return "seconds"
}

func (u TimeUnit) seconds() float64 {
	if u == Days {
		return 86400
	}
	return 1
}

// DefaultTolerance is the largest accepted relative deviation of a time
// step from the first one.
const DefaultTolerance = 1e-6

// Series is a uniformly sampled measurement.
type Series struct {
	// Time is in seconds from the first sample.
	Time   []float64
	Values []float64
	// DT is the sample interval in seconds.
	DT float64
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Values)
}

// CSVParser reads time,value rows.
//
// Expected format, header optional:
//
//	time,ghi
//	45123.000000,12.5
//	45123.000012,12.7
type CSVParser struct {
	TimeUnit TimeUnit
	// Tolerance overrides DefaultTolerance when > 0.
	Tolerance float64
}

// NewCSVParser returns a parser for time columns in unit with the default
// sampling tolerance.
func NewCSVParser(unit TimeUnit) *CSVParser {
	return &CSVParser{TimeUnit: unit}
}

// Parse reads all rows from r. A first row whose time field is not a
// number is taken as a header. Lines starting with # are ignored.
func (p *CSVParser) Parse(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	var raw, values []float64
	first := true

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading CSV: %v", ErrMalformed, err)
		}
		lineNum, _ := cr.FieldPos(0)
		header := first
		first = false

		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected 2 fields, got %d", ErrMalformed, lineNum, len(record))
		}

		t, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil && header {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: time %q: %v", ErrMalformed, lineNum, record[0], err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: value %q: %v", ErrMalformed, lineNum, record[1], err)
		}
		if math.IsNaN(t) || math.IsInf(t, 0) || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: line %d: non-finite field", ErrMalformed, lineNum)
		}

		raw = append(raw, t)
		values = append(values, v)
	}

	if len(values) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrMalformed, len(values))
	}

	return p.build(raw, values)
}

func (p *CSVParser) build(raw, values []float64) (*Series, error) {
	scale := p.TimeUnit.seconds()
	times := make([]float64, len(raw))
	for i, t := range raw {
		times[i] = (t - raw[0]) * scale
	}

	dt := times[1] - times[0]
	if !(dt > 0) {
		return nil, fmt.Errorf("%w: first step is %v s", ErrIrregular, dt)
	}

	tol := p.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	// Timestamps near a large day count lose precision in the conversion.
	last := math.Max(math.Abs(raw[0]), math.Abs(raw[len(raw)-1]))
	slack := 4 * (math.Nextafter(last, math.Inf(1)) - last) * scale
	limit := tol*dt + slack

	for i := 2; i < len(times); i++ {
		step := times[i] - times[i-1]
		if math.Abs(step-dt) > limit {
			return nil, fmt.Errorf("%w: step %d is %v s, expected %v s", ErrIrregular, i, step, dt)
		}
	}

	return &Series{Time: times, Values: values, DT: dt}, nil
}

// WriteCSV writes time_s,ghi,smoothed rows. All slices must have the same
// length.
func WriteCSV(w io.Writer, times, input, smoothed []float64) error {
	if len(times) != len(input) || len(times) != len(smoothed) {
		return fmt.Errorf("write CSV: length mismatch: time %d, input %d, smoothed %d",
			len(times), len(input), len(smoothed))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time_s", "ghi", "smoothed"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	row := make([]string, 3)
	for i := range times {
		row[0] = strconv.FormatFloat(times[i], 'g', -1, 64)
		row[1] = strconv.FormatFloat(input[i], 'g', -1, 64)
		row[2] = strconv.FormatFloat(smoothed[i], 'g', -1, 64)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV line %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
