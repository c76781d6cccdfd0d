package controllers

import (
	"net/http"

	"github.com/wey-codes/haulpro-crm/internal/dtos"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/services"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

type PayoutsController struct {
	payoutService *services.PayoutService
}

func NewPayoutsController(s *services.PayoutService) *PayoutsController {
	return &PayoutsController{payoutService: s}
}

// GET /api/v1/payouts?status=PENDING
func (c *PayoutsController) ListPayoutsHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	var status *models.PayoutStatusType
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := models.PayoutStatusType(raw)
		status = &st
	}

	payouts, err := c.payoutService.List(r.Context(), acctID, status)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListPayoutsResponse{Results: payouts, Total: len(payouts)})
}

// GET /api/v1/payouts/summary
func (c *PayoutsController) PayoutStatsHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}

	stats, err := c.payoutService.Stats(r.Context(), acctID)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}

// POST /api/v1/payouts/{payout_id}/mark-paid
func (c *PayoutsController) MarkPaidHandler(w http.ResponseWriter, r *http.Request) {
	acctID, ok := accountID(w, r)
	if !ok {
		return
	}
	payoutID, ok := pathUUID(w, r, "payout_id")
	if !ok {
		return
	}
	var req dtos.MarkPayoutPaidRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	payout, err := c.payoutService.MarkPaid(r.Context(), acctID, payoutID, req.RowVersion)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PayoutResponse{Payout: payout})
}
