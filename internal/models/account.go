package models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatusType string

const (
	SubscriptionStatusTrial     SubscriptionStatusType = "TRIAL"
	SubscriptionStatusActive    SubscriptionStatusType = "ACTIVE"
	SubscriptionStatusPastDue   SubscriptionStatusType = "PAST_DUE"
	SubscriptionStatusCancelled SubscriptionStatusType = "CANCELLED"
)

// Account is the tenant root. Every other entity hangs off an AccountID.
type Account struct {
	Versioned

	ID                 uuid.UUID              `json:"id"`
	CompanyName        string                 `json:"company_name"`
	Slug               string                 `json:"slug"`
	LogoURL            *string                `json:"logo_url,omitempty"`
	Phone              *string                `json:"phone,omitempty"`
	Email              *string                `json:"email,omitempty"`
	Website            *string                `json:"website,omitempty"`
	GoogleReviewURL    *string                `json:"google_review_url,omitempty"`
	StripeAccountID    *string                `json:"stripe_account_id,omitempty"`
	TwilioPhone        *string                `json:"twilio_phone,omitempty"`
	SubscriptionStatus SubscriptionStatusType `json:"subscription_status"`
	SubscriptionPlan   string                 `json:"subscription_plan"`
	TrialEndsAt        *time.Time             `json:"trial_ends_at,omitempty"`
	Settings           map[string]any         `json:"settings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Account) GetID() string {
	return a.ID.String()
}
