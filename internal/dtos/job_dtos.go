package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/wey-codes/haulpro-crm/internal/models"
)

type CreateJobRequest struct {
	LeadID        *uuid.UUID `json:"lead_id,omitempty"`
	CustomerName  string     `json:"customer_name" validate:"required,min=1,max=200"`
	CustomerPhone string     `json:"customer_phone" validate:"required"`
	CustomerEmail *string    `json:"customer_email,omitempty" validate:"omitempty,email"`
	AddressLine1  string     `json:"address_line1" validate:"required"`
	AddressLine2  *string    `json:"address_line2,omitempty"`
	City          *string    `json:"city,omitempty"`
	State         *string    `json:"state,omitempty"`
	Zip           *string    `json:"zip,omitempty"`
	PackageID     uuid.UUID  `json:"package_id" validate:"required"`
	PriceCents    *int64     `json:"price_cents,omitempty" validate:"omitempty,min=1"`
	ScheduledDate time.Time  `json:"scheduled_date" validate:"required"`
	TimeWindow    *string    `json:"time_window,omitempty" validate:"omitempty,oneof=MORNING AFTERNOON EVENING FLEXIBLE"`
	IsPrepaid     bool       `json:"is_prepaid"`
	Notes         *string    `json:"notes,omitempty"`
}

// BookFromLeadRequest converts a WON lead into a job.
type BookFromLeadRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
	TimeWindow    *string   `json:"time_window,omitempty" validate:"omitempty,oneof=MORNING AFTERNOON EVENING FLEXIBLE"`
}

type JobTransitionRequest struct {
	Status     string  `json:"status" validate:"required,oneof=BOOKED PENDING_CLAIM ASSIGNED IN_PROGRESS COMPLETED CANCELLED"`
	Reason     *string `json:"reason,omitempty"`
	RowVersion int64   `json:"row_version" validate:"required,min=1"`
}

type AssignSubRequest struct {
	SubID      uuid.UUID `json:"sub_id" validate:"required"`
	RowVersion int64     `json:"row_version" validate:"required,min=1"`
}

type UnassignSubRequest struct {
	RowVersion int64 `json:"row_version" validate:"required,min=1"`
}

type DispatchJobRequest struct {
	RowVersion int64 `json:"row_version" validate:"required,min=1"`
}

type JobResponse struct {
	Job *models.Job `json:"job"`

	// Set when creation landed on a US federal holiday.
	Warning *string `json:"warning,omitempty"`
}

type ListJobsResponse struct {
	Results []*models.Job `json:"results"`
	Total   int           `json:"total"`
}
