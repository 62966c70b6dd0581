package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// CAM_SMOOTHING_CLOUD_SPEED=15.
const EnvPrefix = "CAM"

// LoadDotEnv exports the variables of the given .env files (default
// ".env") into the process environment so that Load picks them up. Missing
// files are ignored; variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")            // Current directory
		v.AddConfigPath("./configs")    // Project configs directory
		v.AddConfigPath("/etc/algocam") // System-wide config
	}

	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout.String())
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout.String())
	v.SetDefault("server.max_samples", d.Server.MaxSamples)

	// Smoothing defaults
	v.SetDefault("smoothing.cloud_speed", d.Smoothing.CloudSpeed)
	v.SetDefault("smoothing.reference_position", d.Smoothing.ReferencePosition)
	v.SetDefault("smoothing.plant_dx", d.Smoothing.PlantDX)
	v.SetDefault("smoothing.plant_length", d.Smoothing.PlantLength)
	v.SetDefault("smoothing.plant_extent", d.Smoothing.PlantExtent)
	v.SetDefault("smoothing.layout_padding", d.Smoothing.LayoutPadding)
	v.SetDefault("smoothing.time_unit", d.Smoothing.TimeUnit)
	v.SetDefault("smoothing.max_plant_bins", d.Smoothing.MaxPlantBins)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns default configuration. The smoothing defaults
// describe a 5 km uniform plant in a 50 km array crossed at 20 m/s with the
// sensor 500 m in.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			BodyLimit:    32 << 20,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxSamples:   1 << 20,
		},
		Smoothing: SmoothingConfig{
			CloudSpeed:        20,
			ReferencePosition: 500,
			PlantDX:           1,
			PlantLength:       5000,
			PlantExtent:       50000,
			LayoutPadding:     30000,
			TimeUnit:          "days",
			MaxPlantBins:      1 << 22,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: "RFC3339",
		},
	}
}
