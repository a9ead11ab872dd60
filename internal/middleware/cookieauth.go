package middleware

import (
	"context"
	"net/http"

	"github.com/MitchellAV/mern-logging-app/internal/auth"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenParser verifies a session token and returns its claims.
type TokenParser interface {
	Parse(tokenString string) (*auth.Claims, error)
}

// CookieAuth is a middleware that enforces session-cookie authentication.
//
// It reads the named cookie, verifies the token and stores the user ID from
// the claims in the request context, so it can be used downstream as the
// authenticated caller. Requests without a valid cookie get 401.
func CookieAuth(cookieName string, parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				http.Error(w, "no session", http.StatusUnauthorized)
				return
			}
			claims, err := parser.Parse(cookie.Value)
			if err != nil {
				http.Error(w, "invalid session", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user ID from the request
// context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
