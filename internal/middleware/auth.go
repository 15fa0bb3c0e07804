package middleware

import (
	"net/http"

	"github.com/keydrop/keydrop/internal/ctxkeys"
	"github.com/keydrop/keydrop/internal/service"
)

// AuthMiddleware resolves the session cookie to an account and adds it to the
// request context. A missing or invalid cookie is not an error here; routes
// that need an identity enforce it with RequireAuth.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := authService.SessionCookie(r)
			if err != nil {
				// No cookie, continue without auth
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyJWT(cookie.Value)
			if err != nil {
				// Invalid token, clear cookie and continue
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			accountID, ok := claims["account_id"].(string)
			if !ok {
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			account, err := authService.ByID(accountID)
			if err != nil {
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// The hash has no business downstream of the gate
			account.PasswordHash = ""

			ctx := ctxkeys.WithAccount(r.Context(), account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the request carries a session identity; otherwise the
// caller is redirected to the login entry point, never silently let through.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := ctxkeys.Account(r.Context())
		if account == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// RequireGuest ensures the user is not authenticated
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := ctxkeys.Account(r.Context())
		if account != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
