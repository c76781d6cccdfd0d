package controllers

import (
	"net/http"

	"github.com/wey-codes/haulpro-crm/internal/dtos"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/services"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

type JobsController struct {
	jobService *services.JobService
}

func NewJobsController(s *services.JobService) *JobsController {
	return &JobsController{jobService: s}
}

// POST /api/v1/jobs
func (c *JobsController) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dtos.CreateJobRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, warning, err := c.jobService.Create(r.Context(), acctID, req)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.JobResponse{Job: job, Warning: warning})
}

// POST /api/v1/leads/{lead_id}/book
func (c *JobsController) BookFromLeadHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	leadID, ok := pathUUID(w, r, "lead_id")
	if !ok {
		return
	}
	var req dtos.BookFromLeadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, warning, err := c.jobService.CreateFromLead(r.Context(), acctID, leadID, req)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.JobResponse{Job: job, Warning: warning})
}

// GET /api/v1/jobs/{job_id}
func (c *JobsController) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	jobID, ok := pathUUID(w, r, "job_id")
	if !ok {
		return
	}

	job, err := c.jobService.Get(r.Context(), acctID, jobID)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.JobResponse{Job: job})
}

// GET /api/v1/jobs?status=PENDING_CLAIM
func (c *JobsController) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	var status *models.JobStatusType
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := models.JobStatusType(raw)
		status = &st
	}

	jobs, err := c.jobService.List(r.Context(), acctID, status)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListJobsResponse{Results: jobs, Total: len(jobs)})
}

// PATCH /api/v1/jobs/{job_id}/status
func (c *JobsController) TransitionJobHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	jobID, ok := pathUUID(w, r, "job_id")
	if !ok {
		return
	}
	var req dtos.JobTransitionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := c.jobService.Transition(r.Context(), acctID, jobID, models.JobStatusType(req.Status), req.Reason, req.RowVersion)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.JobResponse{Job: job})
}

// POST /api/v1/jobs/{job_id}/dispatch
func (c *JobsController) DispatchJobHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	jobID, ok := pathUUID(w, r, "job_id")
	if !ok {
		return
	}
	var req dtos.DispatchJobRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := c.jobService.Dispatch(r.Context(), acctID, jobID, req.RowVersion)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.JobResponse{Job: job})
}

// POST /api/v1/jobs/{job_id}/assign
func (c *JobsController) AssignSubHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	jobID, ok := pathUUID(w, r, "job_id")
	if !ok {
		return
	}
	var req dtos.AssignSubRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := c.jobService.AssignSub(r.Context(), acctID, jobID, req.SubID, req.RowVersion)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.JobResponse{Job: job})
}

// POST /api/v1/jobs/{job_id}/unassign
func (c *JobsController) UnassignSubHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	jobID, ok := pathUUID(w, r, "job_id")
	if !ok {
		return
	}
	var req dtos.UnassignSubRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := c.jobService.UnassignSub(r.Context(), acctID, jobID, req.RowVersion)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.JobResponse{Job: job})
}
