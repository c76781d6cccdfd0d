package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v4"

	"github.com/wey-codes/haulpro-crm/internal/dtos"
	"github.com/wey-codes/haulpro-crm/internal/middleware"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

var validate = validator.New()

// accountID pulls the tenant the middleware resolved. A miss means the
// route was wired outside the tenant chain.
func accountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing account in context", nil)
		return uuid.Nil, false
	}
	return id, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid "+name, nil, err)
		return uuid.Nil, false
	}
	return id, true
}

// decodeAndValidate unmarshals the body into dst and runs struct validation,
// writing the error response itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request data", nil, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			details := make([]dtos.ValidationErrorDetail, 0, len(validationErrors))
			for _, fe := range validationErrors {
				details = append(details, dtos.ValidationErrorDetail{
					Field:   fe.Field(),
					Message: fe.Error(),
					Code:    fe.Tag(),
				})
			}
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", details)
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request data", nil, err)
		}
		return false
	}
	return true
}

/*
respondWorkflowError translates service errors into the HTTP error taxonomy:
sentinel rule violations become 409/400s with their own codes, version
conflicts become 409s carrying the latest record, unknown rows become 404s.
*/
func respondWorkflowError(w http.ResponseWriter, err error) {
	var conflict *utils.RowVersionConflictError
	if errors.As(err, &conflict) {
		utils.RespondErrorWithCode(
			w,
			http.StatusConflict,
			utils.ErrCodeRowVersionConflict,
			"The record was modified by someone else; refresh and retry",
			conflict.Current,
		)
		return
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Not found", nil)
	case errors.Is(err, utils.ErrInvalidTransition):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeInvalidTransition, "Transition not allowed from the current status", nil)
	case errors.Is(err, utils.ErrQuoteRequired):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeQuoteRequired, "A saved quote is required first", nil)
	case errors.Is(err, utils.ErrReasonRequired):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeReasonRequired, "A cancellation reason is required", nil)
	case errors.Is(err, utils.ErrSubRequired):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeSubRequired, "A sub must be assigned first", nil)
	case errors.Is(err, utils.ErrInvalidPrice):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPrice, "Price must be a positive amount", nil)
	case errors.Is(err, utils.ErrInvalidState):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeInvalidState, "Operation not valid in the current state", nil)
	case errors.Is(err, utils.ErrSubNotActive):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeSubNotActive, "Sub is not active", nil)
	default:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
