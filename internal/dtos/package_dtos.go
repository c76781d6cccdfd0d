package dtos

import (
	"github.com/google/uuid"

	"github.com/wey-codes/haulpro-crm/internal/models"
)

type CreatePackageRequest struct {
	Name           string     `json:"name" validate:"required,min=1,max=200"`
	Description    *string    `json:"description,omitempty"`
	PriceCents     int64      `json:"price_cents" validate:"required,min=1"`
	LimitType      string     `json:"limit_type" validate:"required,oneof=TIME VOLUME FLAT"`
	LimitValue     *int       `json:"limit_value,omitempty"`
	SubPayoutCents int64      `json:"sub_payout_cents" validate:"min=0"`
	RequiresPrepay bool       `json:"requires_prepay"`
	IsHidden       bool       `json:"is_hidden"`
	UpsellTargetID *uuid.UUID `json:"upsell_target_id,omitempty"`
	SortOrder      int        `json:"sort_order"`
}

type PackageResponse struct {
	Package *models.Package `json:"package"`
}

type ListPackagesResponse struct {
	Results []*models.Package `json:"results"`
	Total   int               `json:"total"`
}
