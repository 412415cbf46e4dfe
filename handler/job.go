package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/naraya/pool-http-service/common"
	"github.com/naraya/pool-http-service/common/models"
	"github.com/naraya/pool-http-service/common/utils"
	"github.com/naraya/pool-http-service/common/work"
	"github.com/naraya/pool-http-service/jobs"
)

// SubmitJobRequest is the body of POST /v1/jobs
type SubmitJobRequest struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

type JobHandler struct {
	pool    *work.Pool
	manager *work.JobManager
	router  *chi.Mux
}

func NewJobHandler(pool *work.Pool, manager *work.JobManager) *JobHandler {
	h := &JobHandler{
		pool:    pool,
		manager: manager,
	}

	r := chi.NewRouter()
	r.Post("/", h.handleSubmitJob)
	r.Get("/", h.handleListRunningJobs)
	r.Get("/{jobID}", h.handleGetJob)

	h.router = r
	return h
}

func (h *JobHandler) Router() *chi.Mux {
	return h.router
}

func (h *JobHandler) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Kind == "" {
		utils.WriteError(w, http.StatusBadRequest, "Job kind is required")
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to generate job ID")
		return
	}
	jobID := id.String()

	job, err := jobs.Create(req.Kind, jobID, req.Payload)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnknownJobKind):
			utils.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrInvalidPayload):
			utils.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			utils.WriteError(w, http.StatusInternalServerError, "Failed to create job")
		}
		return
	}

	if err := h.manager.Start(r.Context(), jobID); err != nil {
		log.Warn().Err(err).Str("jobID", jobID).Msg("Failed to record job state")
	}

	if err := h.pool.Submit(job); err != nil {
		// The job was never handed to a worker; roll back its state.
		if ferr := h.manager.Fail(r.Context(), jobID); ferr != nil {
			log.Warn().Err(ferr).Str("jobID", jobID).Msg("Failed to roll back job state")
		}
		utils.WriteError(w, http.StatusServiceUnavailable, "Pool is shutting down")
		return
	}

	utils.WriteJSON(w, http.StatusAccepted, models.JobSubmittedResponse{
		JobID:  jobID,
		Kind:   req.Kind,
		Status: work.StatusRunning,
	})
}

func (h *JobHandler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	status, err := h.manager.Get(r.Context(), jobID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to get job state")
		return
	}

	s, ok := status.Get()
	if !ok {
		utils.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.JobStatusResponse{
		JobID:  jobID,
		Status: s,
	})
}

func (h *JobHandler) handleListRunningJobs(w http.ResponseWriter, r *http.Request) {
	jobIDs, err := h.manager.ListRunning(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to list running jobs")
		return
	}

	running := lo.Map(jobIDs, func(id string, _ int) models.JobStatusResponse {
		return models.JobStatusResponse{
			JobID:  id,
			Status: work.StatusRunning,
		}
	})

	utils.WriteJSON(w, http.StatusOK, running)
}
