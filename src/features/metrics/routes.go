package metrics

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers the routes for the metrics feature
func RegisterRoutes(app *fiber.App, gatherer prometheus.Gatherer, catalog Catalog) {
	handler := NewHandler(catalog)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	app.Get("/stats", handler.GetStats)
}
