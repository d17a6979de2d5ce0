package metrics

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Catalog exposes the counts the stats endpoint reports.
type Catalog interface {
	CountFiles(ctx context.Context) (int, error)
}

// Handler handles HTTP requests for the metrics feature.
type Handler struct {
	catalog Catalog
}

// NewHandler creates a new metrics handler.
func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// GetStats returns catalog totals as JSON.
func (h *Handler) GetStats(c *fiber.Ctx) error {
	total, err := h.catalog.CountFiles(c.Context())
	if err != nil {
		slog.Error("Error loading catalog stats", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"total_files": total})
}
