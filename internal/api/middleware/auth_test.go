package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devfolio/blog-api/internal/api/cookies"
	"github.com/devfolio/blog-api/internal/api/middleware"
	"github.com/devfolio/blog-api/internal/api/respond"
	"github.com/devfolio/blog-api/internal/domain"
	"github.com/devfolio/blog-api/internal/repository/memory"
	"github.com/devfolio/blog-api/internal/service"
	"github.com/devfolio/blog-api/internal/testutil"
	"github.com/devfolio/blog-api/internal/token"
)

type authFixture struct {
	gate  *middleware.Auth
	auth  *service.AuthService
	users *memory.UserRepository
}

func newAuthFixture(t *testing.T, accessTTL time.Duration) *authFixture {
	t.Helper()

	users := memory.NewUserRepository()
	tokens := token.NewManager("test-access", "test-refresh", accessTTL, 7*24*time.Hour)
	auth := service.NewAuthService(users, tokens, testutil.TestLogger())
	wr := &respond.Writer{Log: testutil.TestLogger()}

	gate := middleware.NewAuth(auth, cookies.Policy{}, 15*time.Minute, wr, testutil.TestLogger())
	return &authFixture{gate: gate, auth: auth, users: users}
}

// echoHandler reports the identity the gate attached.
func echoHandler(t *testing.T, wantEmail string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.CurrentUser(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantEmail, user.Email)
		assert.Empty(t, user.PasswordHash)
		assert.Empty(t, user.RefreshToken)
		w.WriteHeader(http.StatusOK)
	})
}

func loginPair(t *testing.T, f *authFixture, user *domain.User, password string) service.TokenPair {
	t.Helper()
	result, err := f.auth.Login(t.Context(), service.LoginInput{
		Identifier: service.Identifier{By: service.ByEmail, Value: user.Email},
		Password:   password,
	})
	require.NoError(t, err)
	return result.TokenPair
}

func TestAuth_ValidAccessCookie(t *testing.T) {
	f := newAuthFixture(t, 15*time.Minute)
	user, password := testutil.NewUserBuilder().Build(t, f.users)
	pair := loginPair(t, f, user, password)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: cookies.AccessToken, Value: pair.AccessToken})
	w := httptest.NewRecorder()

	f.gate.Handler(echoHandler(t, user.Email)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies(), "no renewal cookie expected on a valid access token")
}

func TestAuth_BearerFallback(t *testing.T) {
	f := newAuthFixture(t, 15*time.Minute)
	user, password := testutil.NewUserBuilder().Build(t, f.users)
	pair := loginPair(t, f, user, password)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()

	f.gate.Handler(echoHandler(t, user.Email)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_CookieTakesPrecedenceOverHeader(t *testing.T) {
	f := newAuthFixture(t, 15*time.Minute)
	user, password := testutil.NewUserBuilder().Build(t, f.users)
	pair := loginPair(t, f, user, password)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: cookies.AccessToken, Value: pair.AccessToken})
	r.Header.Set("Authorization", "Bearer garbage-token")
	w := httptest.NewRecorder()

	f.gate.Handler(echoHandler(t, user.Email)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_NoTokens(t *testing.T) {
	f := newAuthFixture(t, 15*time.Minute)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()

	f.gate.Handler(echoHandler(t, "")).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := testutil.DecodeEnvelope(t, w.Result())
	assert.Equal(t, "Invalid access token", env.Message)
	assert.False(t, env.Success)
}

func TestAuth_ExpiredAccessFallsBackToRefresh(t *testing.T) {
	// Access tokens come out already expired; refresh tokens stay valid.
	f := newAuthFixture(t, -time.Minute)
	user, password := testutil.NewUserBuilder().Build(t, f.users)
	pair := loginPair(t, f, user, password)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: cookies.AccessToken, Value: pair.AccessToken})
	r.AddCookie(&http.Cookie{Name: cookies.RefreshToken, Value: pair.RefreshToken})
	w := httptest.NewRecorder()

	f.gate.Handler(echoHandler(t, user.Email)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	renewed := testutil.AccessCookie(t, w.Result().Cookies())
	assert.NotEmpty(t, renewed.Value)
	assert.NotEqual(t, pair.AccessToken, renewed.Value)

	// Silent renewal must not rotate the stored refresh token.
	stored, err := f.users.GetByID(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
	assert.Nil(t, testutil.CookieByName(w.Result().Cookies(), cookies.RefreshToken))
}

func TestAuth_RefreshOnlyRequest(t *testing.T) {
	f := newAuthFixture(t, 15*time.Minute)
	user, password := testutil.NewUserBuilder().Build(t, f.users)
	pair := loginPair(t, f, user, password)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: cookies.RefreshToken, Value: pair.RefreshToken})
	w := httptest.NewRecorder()

	f.gate.Handler(echoHandler(t, user.Email)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	testutil.AccessCookie(t, w.Result().Cookies())
}

func TestAuth_RefreshStoreMismatch(t *testing.T) {
	f := newAuthFixture(t, 15*time.Minute)
	user, password := testutil.NewUserBuilder().Build(t, f.users)
	pair := loginPair(t, f, user, password)

	// A later login supersedes the held refresh token.
	loginPair(t, f, user, password)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: cookies.RefreshToken, Value: pair.RefreshToken})
	w := httptest.NewRecorder()

	f.gate.Handler(echoHandler(t, user.Email)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := testutil.DecodeEnvelope(t, w.Result())
	assert.Equal(t, "Invalid refresh token", env.Message)
}

func TestAuth_MalformedRefreshToken(t *testing.T) {
	f := newAuthFixture(t, 15*time.Minute)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: cookies.RefreshToken, Value: "not.a.jwt"})
	w := httptest.NewRecorder()

	f.gate.Handler(echoHandler(t, "")).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := testutil.DecodeEnvelope(t, w.Result())
	assert.Equal(t, "Refresh token expired or invalid", env.Message)
}
