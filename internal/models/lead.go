package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type LeadStatusType string

const (
	LeadStatusNew            LeadStatusType = "NEW"
	LeadStatusPhotoRequested LeadStatusType = "PHOTO_REQUESTED"
	LeadStatusQuoted         LeadStatusType = "QUOTED"
	LeadStatusWon            LeadStatusType = "WON"
	LeadStatusLost           LeadStatusType = "LOST"
)

type LeadSourceType string

const (
	LeadSourceGMB        LeadSourceType = "GMB"
	LeadSourceFacebook   LeadSourceType = "FACEBOOK"
	LeadSourceInstagram  LeadSourceType = "INSTAGRAM"
	LeadSourceCall       LeadSourceType = "CALL"
	LeadSourceText       LeadSourceType = "TEXT"
	LeadSourceWalkIn     LeadSourceType = "WALK_IN"
	LeadSourceBanditSign LeadSourceType = "BANDIT_SIGN"
	LeadSourceWebsite    LeadSourceType = "WEBSITE"
	LeadSourceReferral   LeadSourceType = "REFERRAL"
	LeadSourceOther      LeadSourceType = "OTHER"
)

// leadStatusFlow is the fixed transition table for the lead pipeline.
// WON and LOST are terminal.
var leadStatusFlow = map[LeadStatusType][]LeadStatusType{
	LeadStatusNew:            {LeadStatusPhotoRequested, LeadStatusQuoted},
	LeadStatusPhotoRequested: {LeadStatusQuoted},
	LeadStatusQuoted:         {LeadStatusWon, LeadStatusLost},
	LeadStatusWon:            {},
	LeadStatusLost:           {},
}

func (s LeadStatusType) CanTransitionTo(target LeadStatusType) bool {
	return slices.Contains(leadStatusFlow[s], target)
}

func (s LeadStatusType) IsTerminal() bool {
	return len(leadStatusFlow[s]) == 0
}

// Lead is a prospective customer inquiry, before any job exists.
// QuotedPackageID and QuotedPriceCents are set together or not at all.
type Lead struct {
	Versioned

	ID           uuid.UUID      `json:"id"`
	AccountID    uuid.UUID      `json:"account_id"`
	Source       LeadSourceType `json:"source"`
	SourceDetail *string        `json:"source_detail,omitempty"`
	CustomerName string         `json:"customer_name"`
	Phone        string         `json:"phone"`
	Email        *string        `json:"email,omitempty"`
	AddressLine1 *string        `json:"address_line1,omitempty"`
	AddressLine2 *string        `json:"address_line2,omitempty"`
	City         *string        `json:"city,omitempty"`
	State        *string        `json:"state,omitempty"`
	Zip          *string        `json:"zip,omitempty"`
	Photos       []string       `json:"photos"`
	Notes        *string        `json:"notes,omitempty"`
	Status       LeadStatusType `json:"status"`

	QuotedPackageID  *uuid.UUID `json:"quoted_package_id,omitempty"`
	QuotedPriceCents *int64     `json:"quoted_price_cents,omitempty"`
	QuotedAt         *time.Time `json:"quoted_at,omitempty"`

	AssignedUserID *uuid.UUID `json:"assigned_user_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Lead) GetID() string {
	return l.ID.String()
}

// HasQuote reports whether the quote pair is populated.
func (l *Lead) HasQuote() bool {
	return l.QuotedPackageID != nil && l.QuotedPriceCents != nil
}
