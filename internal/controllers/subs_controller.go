package controllers

import (
	"net/http"

	"github.com/wey-codes/haulpro-crm/internal/dtos"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/services"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

type SubsController struct {
	subService *services.SubService
}

func NewSubsController(s *services.SubService) *SubsController {
	return &SubsController{subService: s}
}

// POST /api/v1/subs
func (c *SubsController) CreateSubHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dtos.CreateSubRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sub, err := c.subService.Create(r.Context(), acctID, req)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.SubResponse{Sub: sub})
}

// GET /api/v1/subs?status=ACTIVE
func (c *SubsController) ListSubsHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	var status *models.SubStatusType
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := models.SubStatusType(raw)
		status = &st
	}

	subs, err := c.subService.List(r.Context(), acctID, status)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListSubsResponse{Results: subs, Total: len(subs)})
}

// GET /api/v1/subs/{sub_id}
func (c *SubsController) GetSubHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	subID, ok := pathUUID(w, r, "sub_id")
	if !ok {
		return
	}

	sub, err := c.subService.Get(r.Context(), acctID, subID)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SubResponse{Sub: sub})
}

// PATCH /api/v1/subs/{sub_id}/status
func (c *SubsController) UpdateSubStatusHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	subID, ok := pathUUID(w, r, "sub_id")
	if !ok {
		return
	}
	var req dtos.UpdateSubStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sub, err := c.subService.SetStatus(r.Context(), acctID, subID, models.SubStatusType(req.Status))
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SubResponse{Sub: sub})
}
