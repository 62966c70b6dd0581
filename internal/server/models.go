package server

import (
	"github.com/cwbudde/algo-cam/plant"
)

// Plant description types accepted in [PlantSpec.Type].
const (
	PlantDistribution = "distribution"
	PlantUniform      = "uniform"
	PlantPoints       = "points"
)

// SmoothRequest is the body of POST /api/v1/smooth. Pointer fields fall
// back to the configured smoothing defaults when omitted.
type SmoothRequest struct {
	DT                float64   `json:"dt"`
	Input             []float64 `json:"input"`
	CloudSpeed        *float64  `json:"cloud_speed,omitempty"`
	ReferencePosition *float64  `json:"reference_position,omitempty"`
	Plant             PlantSpec `json:"plant"`
	IncludeTransfer   bool      `json:"include_transfer,omitempty"`
}

// PlantSpec describes the plant in one of three ways:
//
//   - distribution: an explicit Density sampled every DX metres
//   - uniform: Length metres of constant density, zero padded to Extent
//   - points: generator Points projected onto Direction through Reference
//     and rasterised with DX and Padding
type PlantSpec struct {
	Type      string        `json:"type"`
	Density   []float64     `json:"density,omitempty"`
	DX        *float64      `json:"dx,omitempty"`
	Length    *float64      `json:"length,omitempty"`
	Extent    *float64      `json:"extent,omitempty"`
	Points    []plant.Point `json:"points,omitempty"`
	Weights   []float64     `json:"weights,omitempty"`
	Reference plant.Point   `json:"reference"`
	Direction plant.Point   `json:"direction"`
	Padding   *float64      `json:"padding,omitempty"`
}

// SmoothResponse is the result of a smoothing request.
type SmoothResponse struct {
	RequestID         string           `json:"request_id"`
	Smoothed          []float64        `json:"smoothed"`
	CloudSpeed        float64          `json:"cloud_speed"`
	ReferencePosition float64          `json:"reference_position"`
	PlantBins         int              `json:"plant_bins"`
	Input             VariabilityStats `json:"input_stats"`
	Output            VariabilityStats `json:"output_stats"`
	RampReduction     float64          `json:"ramp_reduction"`
	// SpectralReduction is the share of input fluctuation power above the
	// corner frequency that the plant removes. 0 without a corner.
	SpectralReduction float64          `json:"spectral_reduction"`
	Transfer          TransferSummary  `json:"transfer"`
	Frequency         []float64        `json:"frequency,omitempty"`
	Magnitude         []float64        `json:"magnitude,omitempty"`
	Phase             []float64        `json:"phase,omitempty"`
}

// VariabilityStats mirrors the fields of stats/time.Stats exposed over HTTP.
type VariabilityStats struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	RampStdDev float64 `json:"ramp_std_dev"`
	MaxRamp    float64 `json:"max_ramp"`
}

// TransferSummary mirrors stats/frequency.Summary.
type TransferSummary struct {
	DCGain          float64 `json:"dc_gain"`
	CornerFrequency float64 `json:"corner_frequency"`
	NoiseBandwidth  float64 `json:"noise_bandwidth"`
	GroupDelay      float64 `json:"group_delay"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}
