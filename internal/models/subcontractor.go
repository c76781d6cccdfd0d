package models

import (
	"time"

	"github.com/google/uuid"
)

type SubStatusType string

const (
	SubStatusActive   SubStatusType = "ACTIVE"
	SubStatusInactive SubStatusType = "INACTIVE"
	SubStatusRemoved  SubStatusType = "REMOVED"
)

// Subcontractor is a worker who fulfills jobs. The cumulative counters are
// maintained by the payout flow, not recomputed from history.
type Subcontractor struct {
	Versioned

	ID        uuid.UUID     `json:"id"`
	AccountID uuid.UUID     `json:"account_id"`
	Name      string        `json:"name"`
	Phone     string        `json:"phone"`
	Email     *string       `json:"email,omitempty"`
	Status    SubStatusType `json:"status"`

	W9OnFile        bool       `json:"w9_on_file"`
	InsuranceOnFile bool       `json:"insurance_on_file"`
	InsuranceExpiry *time.Time `json:"insurance_expiry,omitempty"`

	JobsCompleted            int      `json:"jobs_completed"`
	TotalEarningsCents       int64    `json:"total_earnings_cents"`
	ReviewBonusesEarnedCents int64    `json:"review_bonuses_earned_cents"`
	Rating                   *float64 `json:"rating,omitempty"`

	Notes *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subcontractor) GetID() string {
	return s.ID.String()
}
