package utils

import (
	"errors"

	"github.com/wey-codes/haulpro-crm/internal/models"
)

/*
   Sentinel errors for the workflow core.
   The controller can do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrQuoteRequired     = errors.New("quote_required")
	ErrReasonRequired    = errors.New("reason_required")
	ErrSubRequired       = errors.New("sub_required")
	ErrInvalidPrice      = errors.New("invalid_price")
	ErrInvalidState      = errors.New("invalid_state")
	ErrSubNotActive      = errors.New("sub_not_active")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")
)

/*
   RowVersionConflictError is returned when there's a concurrency mismatch.
   It includes the "latest" record so the controller can return it
   to the client if desired.
*/
type RowVersionConflictError struct {
	Current any
}

func (e *RowVersionConflictError) Error() string {
	return "row_version_conflict"
}

func (e *RowVersionConflictError) Unwrap() error {
	return ErrRowVersionConflict
}

func NewJobConflictError(current *models.Job) error {
	return &RowVersionConflictError{Current: current}
}

func NewLeadConflictError(current *models.Lead) error {
	return &RowVersionConflictError{Current: current}
}
