package jobs

import (
	"log/slog"
	"sort"

	"github.com/gofiber/fiber/v2"
)

// Handler handles job requests
type Handler struct {
	service *Service
}

// NewHandler creates a new job handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type jobView struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Name      string         `json:"name"`
	Status    JobStatus      `json:"status"`
	Progress  int            `json:"progress"`
	Message   string         `json:"message"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func viewOf(job *Job) jobView {
	return jobView{
		ID:        job.ID,
		Type:      job.Type,
		Name:      job.Name,
		Status:    job.Status,
		Progress:  job.Progress,
		Message:   job.Message,
		CreatedAt: job.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: job.UpdatedAt.Format("2006-01-02 15:04:05"),
		Metadata:  job.Metadata,
	}
}

// ListJobs returns all jobs, newest first.
func (h *Handler) ListJobs(c *fiber.Ctx) error {
	jobs := h.service.GetJobs()
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	views := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, viewOf(job))
	}
	return c.JSON(views)
}

// GetJob returns one job by ID.
func (h *Handler) GetJob(c *fiber.Ctx) error {
	job, ok := h.service.GetJob(c.Params("jobId"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	return c.JSON(viewOf(job))
}

// CancelJob cancels a running job.
func (h *Handler) CancelJob(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if err := h.service.CancelJob(jobID); err != nil {
		slog.Error("Failed to cancel job", "error", err, "jobId", jobID)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "cancelled"})
}
