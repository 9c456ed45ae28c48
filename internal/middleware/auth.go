package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/divvyup/divvy/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserIDKey is the context key for storing the authenticated user ID.
const UserIDKey contextKey = "user_id"

// userIDHolderKey carries a mutable holder seeded by Logging so the
// user ID resolved further down the chain is visible when the request
// log line is written.
const userIDHolderKey contextKey = "user_id_holder"

type userIDHolder struct {
	id string
}

// GetUserID extracts the authenticated user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// RequireAuth validates the bearer access token on every request, rejects
// revoked tokens, and adds the user ID to the request context.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, auth.ErrMissingToken)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			claims, err := tokens.Validate(r.Context(), parts[1], auth.TokenTypeAccess)
			if err != nil {
				unauthorized(w, err)
				return
			}

			if holder, ok := r.Context().Value(userIDHolderKey).(*userIDHolder); ok {
				holder.id = claims.UserID
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
