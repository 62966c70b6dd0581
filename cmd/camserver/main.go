// Command camserver serves the cloud advection smoothing API.
//
// Usage:
//
//	camserver [-config path] [-env path]
//
// Configuration is read from a YAML file (default ./config.yaml,
// ./configs/config.yaml or /etc/algocam/config.yaml) and CAM_* environment
// variables, optionally preloaded from a .env file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwbudde/algo-cam/internal/config"
	"github.com/cwbudde/algo-cam/internal/logging"
	"github.com/cwbudde/algo-cam/internal/server"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	envPath := flag.String("env", ".env", "Path to a .env file with CAM_* overrides")
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

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("camserver starting", "version", Version, "commit", GitCommit)
	logger.Info("Smoothing defaults",
		"cloud_speed", cfg.Smoothing.CloudSpeed,
		"reference_position", cfg.Smoothing.ReferencePosition,
		"plant_length", cfg.Smoothing.PlantLength,
		"plant_extent", cfg.Smoothing.PlantExtent)

	server.Version = Version
	srv := server.New(cfg, logger)

	go func() {
		if err := srv.Listen(); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
