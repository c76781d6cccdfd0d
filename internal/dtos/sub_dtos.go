package dtos

import (
	"time"

	"github.com/wey-codes/haulpro-crm/internal/models"
)

type CreateSubRequest struct {
	Name            string     `json:"name" validate:"required,min=1,max=200"`
	Phone           string     `json:"phone" validate:"required"`
	Email           *string    `json:"email,omitempty" validate:"omitempty,email"`
	W9OnFile        bool       `json:"w9_on_file"`
	InsuranceOnFile bool       `json:"insurance_on_file"`
	InsuranceExpiry *time.Time `json:"insurance_expiry,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

type UpdateSubStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE REMOVED"`
}

type SubResponse struct {
	Sub *models.Subcontractor `json:"sub"`
}

type ListSubsResponse struct {
	Results []*models.Subcontractor `json:"results"`
	Total   int                     `json:"total"`
}
