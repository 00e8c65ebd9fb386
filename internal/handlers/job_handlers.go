package handlers

import (
	"log/slog"
	"net/http"

	"storefront/internal/common"

	"github.com/juju/errors"
	"github.com/labstack/echo/v4"
)

// JobRunner is the part of the background scheduler exposed to staff.
type JobRunner interface {
	RunNow(name string) error
	GetJobStatus() map[string]interface{}
}

type JobHandlers struct {
	jobs   JobRunner
	logger *slog.Logger
}

func NewJobHandlers(jobs JobRunner, logger *slog.Logger) *JobHandlers {
	return &JobHandlers{jobs: jobs, logger: logger}
}

// ListJobs handles GET /admin/jobs
func (h *JobHandlers) ListJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, h.jobs.GetJobStatus())
}

// RunJob handles POST /admin/jobs/:name/run
func (h *JobHandlers) RunJob(c echo.Context) error {
	name := c.Param("name")
	if err := h.jobs.RunNow(name); err != nil {
		if errors.Is(err, errors.NotFound) {
			return common.SendNotFoundError(c, "Job")
		}
		return respondError(c, h.logger, "Job", err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "scheduled", "job": name})
}
