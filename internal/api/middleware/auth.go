package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devfolio/blog-api/internal/api/cookies"
	"github.com/devfolio/blog-api/internal/api/respond"
	"github.com/devfolio/blog-api/internal/domain"
	"github.com/devfolio/blog-api/internal/service"
)

type contextKey string

const userKey contextKey = "authUser"

// Auth is the per-request identity gate. It verifies the access token and,
// when that fails for any reason, falls back to refresh-token re-validation
// with a silent access-token reissue. The fallback is deliberate two-tier
// verification, not error swallowing: every failed stage is logged.
type Auth struct {
	auth      *service.AuthService
	policy    cookies.Policy
	accessTTL time.Duration
	wr        *respond.Writer
	log       *zap.SugaredLogger
}

func NewAuth(auth *service.AuthService, policy cookies.Policy, accessTTL time.Duration, wr *respond.Writer, log *zap.SugaredLogger) *Auth {
	return &Auth{auth: auth, policy: policy, accessTTL: accessTTL, wr: wr, log: log}
}

// Handler runs the verification chain. Cookie takes precedence over the
// Authorization: Bearer header for the access token; the refresh token is
// cookie-only.
func (m *Auth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accessToken := extractAccessToken(r); accessToken != "" {
			claims, err := m.auth.VerifyAccessToken(accessToken)
			if err != nil {
				m.logFailure(r, "access-token-verify", err)
			} else if user, err := m.lookup(r.Context(), claims.UserID); err != nil {
				m.logFailure(r, "access-token-user-lookup", err)
			} else {
				next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user.Sanitized())))
				return
			}
		}

		refreshToken := cookieValue(r, cookies.RefreshToken)
		if refreshToken == "" {
			m.logFailure(r, "refresh-token-missing", domain.ErrNotFound)
			m.wr.Error(w, domain.NewUnauthorizedError("Invalid access token"))
			return
		}

		claims, err := m.auth.VerifyRefreshToken(refreshToken)
		if err != nil {
			m.logFailure(r, "refresh-token-verify", err)
			m.wr.Error(w, domain.NewUnauthorizedError("Refresh token expired or invalid"))
			return
		}

		user, err := m.lookup(r.Context(), claims.UserID)
		if err != nil || user.RefreshToken != refreshToken {
			m.logFailure(r, "refresh-token-store-check", err)
			m.wr.Error(w, domain.NewUnauthorizedError("Invalid refresh token"))
			return
		}

		// Silent renewal: mint a fresh access token only. Rotating the
		// refresh token is the explicit refresh endpoint's job.
		newAccess, err := m.auth.IssueAccessToken(user)
		if err != nil {
			m.wr.Error(w, domain.NewInternalError("Error while generating tokens"))
			return
		}
		m.policy.Set(w, r, cookies.AccessToken, newAccess, m.accessTTL)

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user.Sanitized())))
	})
}

func (m *Auth) lookup(ctx context.Context, hexID string) (*domain.User, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, err
	}
	return m.auth.GetUserByID(ctx, id)
}

func (m *Auth) logFailure(r *http.Request, stage string, err error) {
	m.log.Warnw("auth failure",
		"stage", stage,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"error", err,
	)
}

func extractAccessToken(r *http.Request) string {
	if v := cookieValue(r, cookies.AccessToken); v != "" {
		return v
	}
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func withUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser returns the sanitized identity the auth gate attached.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// WithUser attaches an identity to a context. Exposed for tests.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return withUser(ctx, user)
}
