package models

import (
	"time"

	"github.com/google/uuid"
)

type LimitType string

const (
	LimitTypeTime   LimitType = "TIME"
	LimitTypeVolume LimitType = "VOLUME"
	LimitTypeFlat   LimitType = "FLAT"
)

// Package is a sellable service offering. LimitValue is meaningful only
// when LimitType is TIME (hours in the block).
type Package struct {
	Versioned

	ID             uuid.UUID  `json:"id"`
	AccountID      uuid.UUID  `json:"account_id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description,omitempty"`
	PriceCents     int64      `json:"price_cents"`
	LimitType      LimitType  `json:"limit_type"`
	LimitValue     *int       `json:"limit_value,omitempty"`
	SubPayoutCents int64      `json:"sub_payout_cents"`
	RequiresPrepay bool       `json:"requires_prepay"`
	IsHidden       bool       `json:"is_hidden"`
	UpsellTargetID *uuid.UUID `json:"upsell_target_id,omitempty"`
	SortOrder      int        `json:"sort_order"`
	IsActive       bool       `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Package) GetID() string {
	return p.ID.String()
}
