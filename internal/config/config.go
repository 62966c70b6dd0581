package config

import (
	"fmt"
	"math"
	"net"
	"strconv"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Smoothing SmoothingConfig `mapstructure:"smoothing"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`          // Bind address (e.g., 0.0.0.0 for all interfaces)
	Port         int           `mapstructure:"port"`          // HTTP port
	BodyLimit    int           `mapstructure:"body_limit"`    // Maximum request body in bytes
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`  // Per-request read timeout
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // Per-request write timeout
	MaxSamples   int           `mapstructure:"max_samples"`   // Largest accepted input series
}

// SmoothingConfig holds the model defaults used when a request or command
// line leaves a parameter out.
type SmoothingConfig struct {
	CloudSpeed        float64 `mapstructure:"cloud_speed"`        // m/s, signed
	ReferencePosition float64 `mapstructure:"reference_position"` // m from the leading plant edge
	PlantDX           float64 `mapstructure:"plant_dx"`           // m per density bin
	PlantLength       float64 `mapstructure:"plant_length"`       // m, uniform plant
	PlantExtent       float64 `mapstructure:"plant_extent"`       // m, uniform plant incl. zero padding
	LayoutPadding     float64 `mapstructure:"layout_padding"`     // m of zeros after a rasterised layout
	TimeUnit          string  `mapstructure:"time_unit"`          // days, seconds
	MaxPlantBins      int     `mapstructure:"max_plant_bins"`     // Largest accepted plant density length
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Address returns the host:port the HTTP server listens on.
func (c *ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Smoothing.Validate(); err != nil {
		return fmt.Errorf("smoothing config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.BodyLimit <= 0 {
		return fmt.Errorf("body_limit must be positive")
	}

	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}

	if c.MaxSamples < 2 {
		return fmt.Errorf("max_samples must be at least 2")
	}

	return nil
}

// Validate validates smoothing defaults
func (c *SmoothingConfig) Validate() error {
	if c.CloudSpeed == 0 {
		return fmt.Errorf("cloud_speed must be non-zero")
	}

	if c.PlantDX <= 0 {
		return fmt.Errorf("plant_dx must be positive")
	}

	if c.PlantLength <= 0 {
		return fmt.Errorf("plant_length must be positive")
	}

	if c.PlantExtent < 0 || c.LayoutPadding < 0 {
		return fmt.Errorf("plant_extent and layout_padding must not be negative")
	}

	if c.MaxPlantBins < 1 {
		return fmt.Errorf("max_plant_bins must be positive")
	}

	if bins := math.Max(c.PlantLength, c.PlantExtent) / c.PlantDX; bins > float64(c.MaxPlantBins) {
		return fmt.Errorf("default plant needs %.0f bins, above max_plant_bins %d", bins, c.MaxPlantBins)
	}

	if c.TimeUnit != "days" && c.TimeUnit != "seconds" {
		return fmt.Errorf("time_unit must be 'days' or 'seconds'")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}
