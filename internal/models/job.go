package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type JobStatusType string

const (
	JobStatusBooked       JobStatusType = "BOOKED"
	JobStatusPendingClaim JobStatusType = "PENDING_CLAIM"
	JobStatusAssigned     JobStatusType = "ASSIGNED"
	JobStatusInProgress   JobStatusType = "IN_PROGRESS"
	JobStatusCompleted    JobStatusType = "COMPLETED"
	JobStatusCancelled    JobStatusType = "CANCELLED"
)

type PaymentStatusType string

const (
	PaymentStatusPending  PaymentStatusType = "PENDING"
	PaymentStatusCharged  PaymentStatusType = "CHARGED"
	PaymentStatusFailed   PaymentStatusType = "FAILED"
	PaymentStatusRefunded PaymentStatusType = "REFUNDED"
	PaymentStatusPrepaid  PaymentStatusType = "PREPAID"
)

type TimeWindowType string

const (
	TimeWindowMorning   TimeWindowType = "MORNING"
	TimeWindowAfternoon TimeWindowType = "AFTERNOON"
	TimeWindowEvening   TimeWindowType = "EVENING"
	TimeWindowFlexible  TimeWindowType = "FLEXIBLE"
)

// jobStatusFlow is the fixed transition table for the job lifecycle.
// COMPLETED and CANCELLED are terminal.
var jobStatusFlow = map[JobStatusType][]JobStatusType{
	JobStatusBooked:       {JobStatusPendingClaim, JobStatusCancelled},
	JobStatusPendingClaim: {JobStatusAssigned, JobStatusCancelled},
	JobStatusAssigned:     {JobStatusInProgress, JobStatusCancelled},
	JobStatusInProgress:   {JobStatusCompleted, JobStatusCancelled},
	JobStatusCompleted:    {},
	JobStatusCancelled:    {},
}

func (s JobStatusType) CanTransitionTo(target JobStatusType) bool {
	return slices.Contains(jobStatusFlow[s], target)
}

func (s JobStatusType) IsTerminal() bool {
	return len(jobStatusFlow[s]) == 0
}

// Job is a scheduled, priced engagement. Customer and address fields are a
// snapshot copied from the lead at creation; they do not track the lead.
type Job struct {
	Versioned

	ID        uuid.UUID  `json:"id"`
	AccountID uuid.UUID  `json:"account_id"`
	LeadID    *uuid.UUID `json:"lead_id,omitempty"`

	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	AddressLine1  string  `json:"address_line1"`
	AddressLine2  *string `json:"address_line2,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	Zip           *string `json:"zip,omitempty"`

	PackageID  uuid.UUID `json:"package_id"`
	PriceCents int64     `json:"price_cents"`

	ScheduledDate time.Time       `json:"scheduled_date"`
	TimeWindow    *TimeWindowType `json:"time_window,omitempty"`

	AssignedSubID  *uuid.UUID `json:"assigned_sub_id,omitempty"`
	DispatchSentAt *time.Time `json:"dispatch_sent_at,omitempty"`
	ClaimedAt      *time.Time `json:"claimed_at,omitempty"`

	Status JobStatusType `json:"status"`

	StripeCustomerID      *string           `json:"stripe_customer_id,omitempty"`
	StripePaymentMethodID *string           `json:"stripe_payment_method_id,omitempty"`
	CardLastFour          *string           `json:"card_last_four,omitempty"`
	PaymentStatus         PaymentStatusType `json:"payment_status"`
	IsPrepaid             bool              `json:"is_prepaid"`

	AgreementSigned     bool       `json:"agreement_signed"`
	AgreementSignedAt   *time.Time `json:"agreement_signed_at,omitempty"`
	DumpReceiptURL      *string    `json:"dump_receipt_url,omitempty"`
	CompletionVideoURL  *string    `json:"completion_video_url,omitempty"`

	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`

	Notes         *string `json:"notes,omitempty"`
	InternalNotes *string `json:"internal_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (j *Job) GetID() string {
	return j.ID.String()
}

// NeedsSubAssignment is the dashboard warning: dispatched but unclaimed.
func (j *Job) NeedsSubAssignment() bool {
	return j.Status == JobStatusPendingClaim && j.AssignedSubID == nil
}
