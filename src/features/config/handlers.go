package config

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the config feature.
type Handler struct {
	configManager *Manager
}

// NewHandler creates a new handler for the config feature.
func NewHandler(configManager *Manager) *Handler {
	return &Handler{
		configManager: configManager,
	}
}

// GetConfig returns the current configuration, secrets redacted.
func (h *Handler) GetConfig(c *fiber.Ctx) error {
	slog.Debug("Configuration requested")
	c.Set("Content-Type", "application/json")
	return c.SendString(h.configManager.GetJSON())
}
