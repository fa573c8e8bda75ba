package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/PortNumber53/agency-site/backend/internal/models"
	"github.com/PortNumber53/agency-site/backend/internal/store"
	"github.com/PortNumber53/agency-site/backend/internal/worker"
)

// JobStore defines the job queue operations exposed to admins.
type JobStore interface {
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	CancelJob(ctx context.Context, id int64) error
	GetStats(ctx context.Context) (*models.JobStats, error)
	ListPendingJobs(ctx context.Context, limit int) ([]*models.Job, error)
	ListProcessingJobs(ctx context.Context) ([]*models.Job, error)
}

// JobRunner is the in-process worker. Cancelling through it fires its
// instrumentation hooks.
type JobRunner interface {
	Stats() worker.Stats
	CancelJob(ctx context.Context, id int64) error
}

// JobHandler holds dependencies for job handlers
type JobHandler struct {
	store  JobStore
	worker JobRunner
	logger *zap.Logger
}

// NewJobHandler creates a new JobHandler instance. w may be nil.
func NewJobHandler(store JobStore, w JobRunner, logger *zap.Logger) *JobHandler {
	return &JobHandler{store: store, worker: w, logger: nopIfNil(logger)}
}

// RegisterRoutes registers job handlers with the router
func (h *JobHandler) RegisterRoutes(router chi.Router) {
	router.Get("/api/jobs/stats", h.GetJobStats)
	router.Get("/api/jobs/pending", h.ListPendingJobs)
	router.Get("/api/jobs/processing", h.ListProcessingJobs)
	router.Get("/api/jobs/{id}", h.GetJob)
	router.Post("/api/jobs/{id}/cancel", h.CancelJob)
}

func jobID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return 0, errors.New("job ID is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid job ID")
	}
	return id, nil
}

// GetJob retrieves a job by ID
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		h.logger.Error("jobs: get job", zap.Int64("job_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to retrieve job")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// CancelJob cancels a pending or failed job
func (h *JobHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cancel := h.store.CancelJob
	if h.worker != nil {
		cancel = h.worker.CancelJob
	}
	if err := cancel(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrJobNotCancellable) {
			writeError(w, http.StatusConflict, "job is not pending or failed")
			return
		}
		h.logger.Error("jobs: cancel job", zap.Int64("job_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to cancel job")
		return
	}

	h.logger.Info("jobs: job cancelled", zap.Int64("job_id", id))
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"message": "Job cancelled successfully",
	})
}

// GetJobStats returns queue statistics and, when a worker runs in this
// process, its counters.
func (h *JobHandler) GetJobStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		h.logger.Error("jobs: get stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to retrieve job statistics")
		return
	}

	resp := map[string]any{"queue": stats}
	if h.worker != nil {
		resp["worker"] = h.worker.Stats()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListPendingJobs returns pending jobs
func (h *JobHandler) ListPendingJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.store.ListPendingJobs(r.Context(), queryLimit(r, 100, 1000))
	if err != nil {
		h.logger.Error("jobs: list pending", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to retrieve jobs")
		return
	}
	writeJobs(w, jobs)
}

// ListProcessingJobs returns currently processing jobs
func (h *JobHandler) ListProcessingJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.store.ListProcessingJobs(r.Context())
	if err != nil {
		h.logger.Error("jobs: list processing", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to retrieve jobs")
		return
	}
	writeJobs(w, jobs)
}

func writeJobs(w http.ResponseWriter, jobs []*models.Job) {
	if jobs == nil {
		jobs = []*models.Job{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}
