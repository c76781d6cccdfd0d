package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/wey-codes/haulpro-crm/internal/constants"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

type contextKey string

// AccountIDKey is where the middleware stashes the tenant UUID.
const AccountIDKey contextKey = "account_id"

// AccountMiddleware resolves the tenant from the X-Account-ID header and
// places it in request context. Requests without a valid tenant never reach
// the handlers.
func AccountMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(constants.AccountIDHeader)
		if raw == "" {
			utils.RespondErrorWithCode(
				w,
				http.StatusUnauthorized,
				utils.ErrCodeUnauthorized,
				"Missing "+constants.AccountIDHeader+" header",
				nil,
			)
			return
		}
		accountID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondErrorWithCode(
				w,
				http.StatusUnauthorized,
				utils.ErrCodeUnauthorized,
				"Invalid "+constants.AccountIDHeader+" header",
				nil,
				err,
			)
			return
		}

		ctx := context.WithValue(r.Context(), AccountIDKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountIDFromContext pulls the tenant set by AccountMiddleware.
func AccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AccountIDKey).(uuid.UUID)
	return id, ok
}
