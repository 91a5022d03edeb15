package middleware

import (
	"net/http"
	"strings"

	"github.com/devfolio/blog-api/internal/api/respond"
	"github.com/devfolio/blog-api/internal/domain"
)

// OwnerConfig is the environment-configured owner identity used to protect
// singleton-resource mutations in a single-operator deployment.
type OwnerConfig struct {
	Email  string
	UserID string
}

func (c OwnerConfig) matches(user *domain.User) bool {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if email != "" && strings.ToLower(strings.TrimSpace(user.Email)) == email {
		return true
	}
	id := strings.TrimSpace(c.UserID)
	return id != "" && user.ID.Hex() == id
}

// RequireOwnerOrAdmin accepts admins (role compared case-insensitively) and
// the configured owner; everyone else gets 403.
func RequireOwnerOrAdmin(cfg OwnerConfig, wr *respond.Writer) func(http.Handler) http.Handler {
	return requireMatch(cfg, wr, true, "Only owner/admin can perform this action")
}

// RequireDeveloper accepts only the configured owner identity, with no
// admin-role bypass.
func RequireDeveloper(cfg OwnerConfig, wr *respond.Writer) func(http.Handler) http.Handler {
	return requireMatch(cfg, wr, false, "Only developer can perform this action")
}

func requireMatch(cfg OwnerConfig, wr *respond.Writer, allowAdmin bool, denied string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok || user.ID.IsZero() {
				wr.Error(w, domain.NewUnauthorizedError("Unauthorized"))
				return
			}

			if allowAdmin && user.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}
			if cfg.matches(user) {
				next.ServeHTTP(w, r)
				return
			}

			wr.Error(w, domain.NewForbiddenError(denied))
		})
	}
}
