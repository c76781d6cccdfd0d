package dtos

import "github.com/wey-codes/haulpro-crm/internal/models"

type MarkPayoutPaidRequest struct {
	RowVersion int64 `json:"row_version" validate:"required,min=1"`
}

type PayoutResponse struct {
	Payout *models.Payout `json:"payout"`
}

type ListPayoutsResponse struct {
	Results []*models.Payout `json:"results"`
	Total   int              `json:"total"`
}

// PayoutStatsResponse is the aggregate block on the earnings screen.
type PayoutStatsResponse struct {
	PendingTotalCents int64 `json:"pending_total_cents"`
	PaidTotalCents    int64 `json:"paid_total_cents"`
	PendingCount      int   `json:"pending_count"`
	PaidCount         int   `json:"paid_count"`
}
