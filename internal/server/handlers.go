package server

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cwbudde/algo-cam/dsp/cam"
	"github.com/cwbudde/algo-cam/dsp/spectrum"
	"github.com/cwbudde/algo-cam/internal/ingest"
	"github.com/cwbudde/algo-cam/internal/logging"
	"github.com/cwbudde/algo-cam/plant"
	frequencystats "github.com/cwbudde/algo-cam/stats/frequency"
	timestats "github.com/cwbudde/algo-cam/stats/time"
)

// errBadRequest marks request errors found before the model runs.
var errBadRequest = errors.New("bad request")

// Health handles health check requests.
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	})
}

// Smooth handles POST /api/v1/smooth.
func (s *Server) Smooth(c *fiber.Ctx) error {
	var req SmoothRequest
	if err := c.BodyParser(&req); err != nil {
		return s.writeError(c, fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err))
	}

	resp, err := s.run(req)
	if err != nil {
		return s.writeError(c, err)
	}
	resp.RequestID = logging.RequestID(c.UserContext())

	logging.FromContext(c.UserContext()).WithContext(c.UserContext()).Info("Smoothed series",
		"samples", len(req.Input),
		"plant_bins", resp.PlantBins,
		"cloud_speed", resp.CloudSpeed,
		"ramp_reduction", resp.RampReduction)

	return c.JSON(resp)
}

// SmoothCSV handles POST /api/v1/smooth/csv. The body is a time,ghi CSV;
// the plant is the configured uniform plant. Query parameters cloud_speed,
// reference_position and time_unit override the defaults. The response is
// a time_s,ghi,smoothed CSV.
func (s *Server) SmoothCSV(c *fiber.Ctx) error {
	def := s.cfg.Smoothing

	unit, err := ingest.ParseTimeUnit(c.Query("time_unit", def.TimeUnit))
	if err != nil {
		return s.writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	speed, err := queryFloat(c, "cloud_speed", def.CloudSpeed)
	if err != nil {
		return s.writeError(c, err)
	}
	ref, err := queryFloat(c, "reference_position", def.ReferencePosition)
	if err != nil {
		return s.writeError(c, err)
	}

	series, err := ingest.NewCSVParser(unit).Parse(bytes.NewReader(c.Body()))
	if err != nil {
		return s.writeError(c, err)
	}

	resp, err := s.run(SmoothRequest{
		DT:                series.DT,
		Input:             series.Values,
		CloudSpeed:        &speed,
		ReferencePosition: &ref,
		Plant:             PlantSpec{Type: PlantUniform},
	})
	if err != nil {
		return s.writeError(c, err)
	}

	var out bytes.Buffer
	if err := ingest.WriteCSV(&out, series.Time, series.Values, resp.Smoothed); err != nil {
		return s.writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	return c.Send(out.Bytes())
}

// run resolves defaults, smooths and summarises one request.
func (s *Server) run(req SmoothRequest) (*SmoothResponse, error) {
	if len(req.Input) > s.cfg.Server.MaxSamples {
		return nil, fmt.Errorf("%w: %d samples exceed the limit of %d", errBadRequest, len(req.Input), s.cfg.Server.MaxSamples)
	}

	dist, err := s.resolvePlant(req.Plant)
	if err != nil {
		return nil, err
	}

	speed := s.cfg.Smoothing.CloudSpeed
	if req.CloudSpeed != nil {
		speed = *req.CloudSpeed
	}
	ref := dist.ReferencePosition
	if req.ReferencePosition != nil {
		ref = *req.ReferencePosition
	}

	res, err := cam.Smooth(req.DT, req.Input, dist.DX, dist.Density, speed, cam.WithReferencePosition(ref))
	if err != nil {
		return nil, err
	}

	summary, err := frequencystats.Summarize(res.Frequency, res.Transfer)
	if err != nil {
		return nil, err
	}

	var reduction float64
	if summary.CornerFrequency > 0 {
		reduction, err = frequencystats.PowerReduction(req.Input, res.Smoothed, req.DT, summary.CornerFrequency)
		if err != nil {
			return nil, err
		}
	}

	before := timestats.Calculate(req.Input, req.DT)
	after := timestats.Calculate(res.Smoothed, req.DT)

	resp := &SmoothResponse{
		Smoothed:          res.Smoothed,
		CloudSpeed:        speed,
		ReferencePosition: ref,
		PlantBins:         len(dist.Density),
		Input:             variability(before),
		Output:            variability(after),
		RampReduction:     timestats.RampReduction(before, after),
		SpectralReduction: reduction,
		Transfer: TransferSummary{
			DCGain:          summary.DCGain,
			CornerFrequency: summary.CornerFrequency,
			NoiseBandwidth:  summary.NoiseBandwidth,
			GroupDelay:      summary.GroupDelay,
		},
	}
	if req.IncludeTransfer {
		resp.Frequency = res.Frequency
		resp.Magnitude = spectrum.Magnitude(res.Transfer)
		resp.Phase = spectrum.Phase(res.Transfer)
	}
	return resp, nil
}

// resolvePlant builds the distribution a PlantSpec describes. The
// reference position is the configured default except for point layouts,
// where the sensor sits at the projection origin. The plant size is checked
// against smoothing.max_plant_bins before anything is allocated.
func (s *Server) resolvePlant(spec PlantSpec) (plant.Distribution, error) {
	def := s.cfg.Smoothing
	dx := def.PlantDX
	if spec.DX != nil {
		dx = *spec.DX
	}

	switch spec.Type {
	case PlantDistribution:
		if err := s.checkPlantBins(len(spec.Density), nil); err != nil {
			return plant.Distribution{}, err
		}
		return plant.Distribution{
			Density:           spec.Density,
			DX:                dx,
			ReferencePosition: def.ReferencePosition,
		}, nil

	case PlantUniform, "":
		length, extent := def.PlantLength, def.PlantExtent
		if spec.Length != nil {
			length = *spec.Length
		}
		if spec.Extent != nil {
			extent = *spec.Extent
		}
		if err := s.checkPlantBins(plant.UniformBins(length, dx, extent)); err != nil {
			return plant.Distribution{}, err
		}
		d, err := plant.Uniform(length, dx, extent)
		if err != nil {
			return plant.Distribution{}, err
		}
		d.ReferencePosition = def.ReferencePosition
		return d, nil

	case PlantPoints:
		padding := def.LayoutPadding
		if spec.Padding != nil {
			padding = *spec.Padding
		}
		dist, err := plant.Project(spec.Points, spec.Reference, spec.Direction)
		if err != nil {
			return plant.Distribution{}, err
		}
		if err := s.checkPlantBins(plant.RasterBins(dist, dx, padding)); err != nil {
			return plant.Distribution{}, err
		}
		return plant.Rasterize(dist, dx, padding, spec.Weights)

	default:
		return plant.Distribution{}, fmt.Errorf("%w: unknown plant type %q", errBadRequest, spec.Type)
	}
}

// checkPlantBins takes the result of a plant bin count and rejects counts
// above the configured limit.
func (s *Server) checkPlantBins(n int, err error) error {
	if err != nil {
		return err
	}
	if limit := s.cfg.Smoothing.MaxPlantBins; n > limit {
		return fmt.Errorf("%w: plant needs %d bins, above the limit of %d", plant.ErrInvalidLayout, n, limit)
	}
	return nil
}

// writeError maps err onto a status code and writes an ErrorResponse.
// Invalid input is 400, a non-finite result 422, anything else 500.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, cam.ErrInvalidParameter),
		errors.Is(err, plant.ErrInvalidLayout),
		errors.Is(err, ingest.ErrMalformed),
		errors.Is(err, ingest.ErrIrregular):
		code = fiber.StatusBadRequest
	case errors.Is(err, cam.ErrNumericDegenerate):
		code = fiber.StatusUnprocessableEntity
	}

	ctx := c.UserContext()
	if code >= fiber.StatusInternalServerError {
		logging.ErrorCtx(ctx, "Smoothing failed", "error", err)
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:     err.Error(),
		RequestID: logging.RequestID(ctx),
	})
}

func queryFloat(c *fiber.Ctx, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: query %s=%q is not a number", errBadRequest, key, raw)
	}
	return v, nil
}

func variability(s timestats.Stats) VariabilityStats {
	return VariabilityStats{
		Mean:       s.Mean,
		StdDev:     s.StdDev,
		Min:        s.Min,
		Max:        s.Max,
		RampStdDev: s.RampStdDev,
		MaxRamp:    s.MaxRamp,
	}
}
