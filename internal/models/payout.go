package models

import (
	"time"

	"github.com/google/uuid"
)

// PayoutStatusType defines the possible states of a sub payout.
type PayoutStatusType string

const (
	PayoutStatusPending PayoutStatusType = "PENDING"
	PayoutStatusPaid    PayoutStatusType = "PAID"
)

// Payout is one earned amount owed to a subcontractor for one job.
// TotalAmountCents is always BaseAmountCents + BonusAmountCents, and
// PaidAt is set exactly when Status is PAID.
type Payout struct {
	Versioned

	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	SubID     uuid.UUID `json:"sub_id"`
	JobID     uuid.UUID `json:"job_id"`

	BaseAmountCents  int64            `json:"base_amount_cents"`
	BonusAmountCents int64            `json:"bonus_amount_cents"`
	TotalAmountCents int64            `json:"total_amount_cents"`
	Status           PayoutStatusType `json:"status"`
	PaidAt           *time.Time       `json:"paid_at,omitempty"`

	Notes *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payout) GetID() string {
	return p.ID.String()
}
