package extracting

import (
	"github.com/crivero/shoebox/src/features/jobs"
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the extracting feature
func RegisterRoutes(app *fiber.App, service *Service, jobService jobs.JobService) {
	handler := NewHandler(service, jobService)

	app.Get("/health", handler.Health)
	app.Post("/extract", handler.Extract)
	app.Post("/write", handler.WriteTags)
	app.Post("/scan", handler.Scan)

	fileGroup := app.Group("/files")
	fileGroup.Get("/", handler.ListFiles)
	fileGroup.Get("/:fileId", handler.GetFile)
}
