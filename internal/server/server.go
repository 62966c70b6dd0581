package server

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/cwbudde/algo-cam/internal/config"
	"github.com/cwbudde/algo-cam/internal/logging"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Server serves the smoothing API.
type Server struct {
	cfg    *config.Config
	logger *logging.Logger
	app    *fiber.App
}

// New creates a server with all routes registered.
func New(cfg *config.Config, logger *logging.Logger) *Server {
	s := &Server{cfg: cfg, logger: logger}

	s.app = fiber.New(fiber.Config{
		AppName:               "algo-cam",
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		DisableStartupMessage: !cfg.IsDevelopment(),
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(logging.FiberMiddleware(logger, logging.DefaultMiddlewareConfig()))
	s.app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	s.app.Get("/health", s.Health)

	v1 := s.app.Group("/api/v1")
	v1.Post("/smooth", s.Smooth)
	v1.Post("/smooth/csv", s.SmoothCSV)

	return s
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on the configured address.
func (s *Server) Listen() error {
	addr := s.cfg.Server.Address()
	s.logger.Info("Server listening", "address", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for running ones until ctx
// expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler turns errors that escape a handler, such as oversized bodies
// or unknown routes, into an ErrorResponse.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error("Request error", "path", c.Path(), "method", c.Method(), "status", code, "error", err)
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:     message,
		RequestID: logging.RequestID(c.UserContext()),
	})
}
