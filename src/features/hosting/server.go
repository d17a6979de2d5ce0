package hosting

import (
	"fmt"
	"log/slog"

	"github.com/crivero/shoebox/src/features/config"
	"github.com/crivero/shoebox/src/features/extracting"
	"github.com/crivero/shoebox/src/features/jobs"
	"github.com/crivero/shoebox/src/features/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, extractingService *extracting.Service, jobService *jobs.Service, registry *prometheus.Registry, catalog metrics.Catalog) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("Internal Server Error", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
		AppName:               "Shoebox",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	app.Use(LogAllRequestsMiddleware())

	extracting.RegisterRoutes(app, extractingService, jobService)
	jobs.RegisterRoutes(app, jobService)
	config.RegisterRoutes(app, cfg)
	metrics.RegisterRoutes(app, registry, catalog)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
