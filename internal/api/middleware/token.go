package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/mwhitlock/taskping/internal/api/shared"
)

// TokenMiddleware guards operational endpoints with a shared secret.
// The scan trigger is called by a scheduler, not an interactive user, so
// a static bearer token is sufficient.
type TokenMiddleware struct {
	token string
}

// NewTokenMiddleware creates a new TokenMiddleware with the given token.
func NewTokenMiddleware(token string) *TokenMiddleware {
	return &TokenMiddleware{token: token}
}

// Authenticate validates the bearer token from the Authorization header.
func (m *TokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required", nil)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format", nil)
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.token)) != 1 {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
