package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/lepaiper/pos/internal/user/domain"
	"github.com/lepaiper/pos/pkg/auth"
	"github.com/lepaiper/pos/pkg/logger"
)

type contextKey string

// Context keys populated by Authenticate
const (
	UserIDKey contextKey = "user_id"
	EmailKey  contextKey = "email"
	RoleKey   contextKey = "role"
)

// Middleware guards routes with JWT authentication and role checks
type Middleware struct {
	repo domain.UserRepository
}

// NewMiddleware creates the auth middleware
func NewMiddleware(repo domain.UserRepository) *Middleware {
	return &Middleware{repo: repo}
}

// Authenticate validates the bearer token and loads the caller into the
// request context. Unknown roles are downgraded to viewer.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Invalid token")
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		// The token may outlive the account; verify the user still exists
		user, err := m.repo.FindByID(claims.UserID)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("user_id", claims.UserID).Msg("Token for unknown user")
			respondError(w, http.StatusUnauthorized, "User verification failed")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
		ctx = context.WithValue(ctx, EmailKey, user.Email)
		ctx = context.WithValue(ctx, RoleKey, domain.NormalizeRole(user.Role))

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin allows only admin callers through. Viewers get read-only
// access elsewhere; every mutation sits behind this.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(RoleKey).(string)
		if !ok || role != domain.RoleAdmin {
			logger.Logger.Warn().Str("role", role).Msg("Admin access denied")
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CallerID returns the authenticated user id from the request context
func CallerID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}
