package jobs

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the jobs feature
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	jobGroup := app.Group("/jobs")
	jobGroup.Get("/", handler.ListJobs)
	jobGroup.Get("/:jobId", handler.GetJob)
	jobGroup.Post("/:jobId/cancel", handler.CancelJob)
}
