package auth

import (
	"context"
	"log/slog"
	"net/http"
)

type ctxKey string

const ContextSessionKey ctxKey = "session"

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ContextSessionKey).(*Session)
	return s, ok
}

func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, ContextSessionKey, session)
}

// RoleAuthorization builds role-gating middleware over the session
// placed in the request context by the auth middleware.
type RoleAuthorization struct {
	logger *slog.Logger
}

func NewRoleAuthorization(logger *slog.Logger) *RoleAuthorization {
	return &RoleAuthorization{logger: logger}
}

func (ra *RoleAuthorization) require(check func(*Session) bool, denied string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok || !session.IsAuthenticated() {
				ra.logger.Warn("authorization check failed: no session in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !check(session) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
					"email", session.Identity.Email,
					"role", session.Role,
					"required", denied)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAllowed admits any allow-listed role (viewer and up).
func (ra *RoleAuthorization) RequireAllowed() func(http.Handler) http.Handler {
	return ra.require((*Session).IsAllowedUser, "viewer")
}

func (ra *RoleAuthorization) RequireEditor() func(http.Handler) http.Handler {
	return ra.require((*Session).CanEdit, "editor")
}

func (ra *RoleAuthorization) RequireSuperAdmin() func(http.Handler) http.Handler {
	return ra.require((*Session).CanAccessAdmin, "super_admin")
}
