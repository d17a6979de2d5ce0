package extracting

import (
	"log/slog"
	"strconv"

	"github.com/crivero/shoebox/src/features/jobs"
	"github.com/crivero/shoebox/src/media"
	"github.com/gofiber/fiber/v2"
)

// Handler handles extraction and catalog requests.
type Handler struct {
	service *Service
	jobs    jobs.JobService
}

// NewHandler creates a new extracting handler.
func NewHandler(service *Service, jobService jobs.JobService) *Handler {
	return &Handler{service: service, jobs: jobService}
}

type extractRequest struct {
	Path    string `json:"path"`
	Catalog bool   `json:"catalog"`
}

// Extract reads the tag record for one file, optionally cataloging it.
func (h *Handler) Extract(c *fiber.Ctx) error {
	var req extractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}

	if req.Catalog {
		file, err := h.service.ExtractAndCatalog(c.Context(), req.Path)
		if err != nil {
			slog.Error("Failed to catalog file", "path", req.Path, "error", err)
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(file)
	}

	tags, err := h.service.Extract(c.Context(), req.Path)
	if err != nil {
		slog.Error("Failed to extract file", "path", req.Path, "error", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"source_file": tags.SourceFile,
		"tags":        tags.Values,
		"zone":        tags.Zone,
		"zone_source": tags.ZoneSource,
		"warnings":    tags.Warnings,
	})
}

type writeTagsRequest struct {
	Path      string         `json:"path"`
	Tags      map[string]any `json:"tags"`
	ExtraArgs []string       `json:"extra_args"`
}

// WriteTags applies tag mutations to one file.
func (h *Handler) WriteTags(c *fiber.Ctx) error {
	var req writeTagsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Path == "" || len(req.Tags) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path and tags are required"})
	}

	writeReq, err := media.NewWriteRequest(req.Path, req.Tags, req.ExtraArgs...)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.Write(c.Context(), writeReq); err != nil {
		slog.Error("Failed to write tags", "path", req.Path, "error", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "written", "path": req.Path})
}

// GetFile returns one cataloged record by ID.
func (h *Handler) GetFile(c *fiber.Ctx) error {
	file, err := h.service.GetFile(c.Context(), c.Params("fileId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
	}
	return c.JSON(file)
}

// ListFiles pages through the catalog.
func (h *Handler) ListFiles(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	files, err := h.service.ListFiles(c.Context(), limit, offset)
	if err != nil {
		slog.Error("Failed to list files", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"files": files, "limit": limit, "offset": offset})
}

type scanRequest struct {
	Path string `json:"path"`
}

// Scan starts a background job cataloging every media file under a
// directory.
func (h *Handler) Scan(c *fiber.Ctx) error {
	var req scanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}

	jobID, err := h.jobs.StartJob("scan", "Directory Scan", map[string]any{"path": req.Path})
	if err != nil {
		slog.Error("Failed to start scan job", "error", err)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": jobID})
}

// Health reports whether the worker pool answers, with the tool version.
func (h *Handler) Health(c *fiber.Ctx) error {
	version, err := h.service.ToolVersion(c.Context())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok", "exiftool_version": version})
}
