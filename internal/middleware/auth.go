package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mindscribe/mindscribe-backend/internal/services"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID returns the authenticated user's id from the request context.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// WithUserID attaches an authenticated user id to ctx. Exposed so handler
// tests can exercise routes without minting tokens.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// RequireAuth gates a subtree behind a valid Bearer token. The verified
// subject is trusted as-is; no user lookup happens here, so a deleted user's
// still-valid token passes the gate but every downstream query stays scoped
// to its user id.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			rejectAuth(w, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			rejectAuth(w, http.StatusUnauthorized, "Invalid token format. Expected 'Bearer <token>'.")
			return
		}

		subject, err := services.Tokens.Verify(parts[1])
		if err != nil {
			rejectAuth(w, http.StatusForbidden, "Invalid or expired token.")
			return
		}

		userID, err := uuid.Parse(subject)
		if subject == "" || err != nil {
			rejectAuth(w, http.StatusForbidden, "Invalid token. User ID missing.")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func rejectAuth(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"message": message})
}
