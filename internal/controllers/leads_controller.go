package controllers

import (
	"net/http"

	"github.com/wey-codes/haulpro-crm/internal/dtos"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/services"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

type LeadsController struct {
	leadService *services.LeadService
}

func NewLeadsController(s *services.LeadService) *LeadsController {
	return &LeadsController{leadService: s}
}

// POST /api/v1/leads
func (c *LeadsController) CreateLeadHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	var req dtos.CreateLeadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	lead, err := c.leadService.Create(r.Context(), acctID, req)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.LeadResponse{Lead: lead})
}

// GET /api/v1/leads/{lead_id}
func (c *LeadsController) GetLeadHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	leadID, ok := pathUUID(w, r, "lead_id")
	if !ok {
		return
	}

	lead, err := c.leadService.Get(r.Context(), acctID, leadID)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.LeadResponse{Lead: lead})
}

// GET /api/v1/leads?status=QUOTED
func (c *LeadsController) ListLeadsHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	var status *models.LeadStatusType
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := models.LeadStatusType(raw)
		status = &st
	}

	leads, err := c.leadService.List(r.Context(), acctID, status)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListLeadsResponse{Results: leads, Total: len(leads)})
}

// PATCH /api/v1/leads/{lead_id}/status
func (c *LeadsController) TransitionLeadHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	leadID, ok := pathUUID(w, r, "lead_id")
	if !ok {
		return
	}
	var req dtos.LeadTransitionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	lead, err := c.leadService.Transition(r.Context(), acctID, leadID, models.LeadStatusType(req.Status), req.RowVersion)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.LeadResponse{Lead: lead})
}

// PUT /api/v1/leads/{lead_id}/quote
func (c *LeadsController) SaveQuoteHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	leadID, ok := pathUUID(w, r, "lead_id")
	if !ok {
		return
	}
	var req dtos.SaveQuoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	lead, err := c.leadService.SaveQuote(r.Context(), acctID, leadID, req)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.LeadResponse{Lead: lead})
}

// GET /api/v1/packages/{package_id}/suggest-price
func (c *LeadsController) SuggestPriceHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	pkgID, ok := pathUUID(w, r, "package_id")
	if !ok {
		return
	}

	suggestion, err := c.leadService.SuggestPrice(r.Context(), acctID, pkgID)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, suggestion)
}
