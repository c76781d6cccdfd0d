package dtos

import (
	"github.com/google/uuid"

	"github.com/wey-codes/haulpro-crm/internal/models"
)

type CreateLeadRequest struct {
	Source       string   `json:"source" validate:"required,oneof=GMB FACEBOOK INSTAGRAM CALL TEXT WALK_IN BANDIT_SIGN WEBSITE REFERRAL OTHER"`
	SourceDetail *string  `json:"source_detail,omitempty"`
	CustomerName string   `json:"customer_name" validate:"required,min=1,max=200"`
	Phone        string   `json:"phone" validate:"required"`
	Email        *string  `json:"email,omitempty" validate:"omitempty,email"`
	AddressLine1 *string  `json:"address_line1,omitempty"`
	AddressLine2 *string  `json:"address_line2,omitempty"`
	City         *string  `json:"city,omitempty"`
	State        *string  `json:"state,omitempty"`
	Zip          *string  `json:"zip,omitempty"`
	Photos       []string `json:"photos,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

// LeadTransitionRequest drives PATCH /leads/{lead_id}/status. RowVersion is
// the version the caller last read.
type LeadTransitionRequest struct {
	Status     string `json:"status" validate:"required,oneof=NEW PHOTO_REQUESTED QUOTED WON LOST"`
	RowVersion int64  `json:"row_version" validate:"required,min=1"`
}

// SaveQuoteRequest persists the quote pair. PriceCents overrides the package
// base price when set; omitted means "use the package price".
type SaveQuoteRequest struct {
	PackageID  uuid.UUID `json:"package_id" validate:"required"`
	PriceCents *int64    `json:"price_cents,omitempty"`
	RowVersion int64     `json:"row_version" validate:"required,min=1"`
}

type SuggestPriceResponse struct {
	PackageID      uuid.UUID  `json:"package_id"`
	PackageName    string     `json:"package_name"`
	ListPriceCents int64      `json:"list_price_cents"`
	SubPayoutCents int64      `json:"sub_payout_cents"`
	MarginCents    int64      `json:"margin_cents"`
	RequiresPrepay bool       `json:"requires_prepay"`
	UpsellTargetID *uuid.UUID `json:"upsell_target_id,omitempty"`
}

type LeadResponse struct {
	Lead *models.Lead `json:"lead"`
}

type ListLeadsResponse struct {
	Results []*models.Lead `json:"results"`
	Total   int            `json:"total"`
}
