package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/keydrop/keydrop/internal/ctxkeys"
	"github.com/keydrop/keydrop/internal/service"
)

const apiKeyHeader = "x-api-key"

// unauthorizedBody is the fixed response for every key-gate failure. Missing
// and invalid credentials must be indistinguishable to the caller.
const unauthorizedBody = "Unauthorized access"

// RequireAPIKey is the machine-facing access gate: it resolves the x-api-key
// header to an account ID and binds it into the request context, or rejects
// the request with 401.
func RequireAPIKey(keyService *service.KeyService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(apiKeyHeader)
			if token == "" {
				http.Error(w, unauthorizedBody, http.StatusUnauthorized)
				return
			}

			accountID, err := keyService.Validate(token)
			if err != nil {
				if !errors.Is(err, service.ErrInvalidKey) {
					// Storage failure, not a bad credential; still terminal
					// for this request.
					slog.Error("api key validation failed", "error", err)
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				http.Error(w, unauthorizedBody, http.StatusUnauthorized)
				return
			}

			ctx := ctxkeys.WithAccountID(r.Context(), accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}
