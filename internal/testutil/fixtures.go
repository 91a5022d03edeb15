package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/devfolio/blog-api/internal/api/cookies"
	"github.com/devfolio/blog-api/internal/domain"
	"github.com/devfolio/blog-api/internal/repository"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	fullName string
	email    string
	username string
	password string
	role     string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		fullName: "Test User",
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		username: "testuser" + suffix,
		password: "Passw0rd!",
	}
}

func (b *UserBuilder) WithFullName(name string) *UserBuilder {
	b.fullName = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithRole(role string) *UserBuilder {
	b.role = role
	return b
}

// Build persists the user through the repository and returns it with the raw password
func (b *UserBuilder) Build(t *testing.T, users repository.UserRepository) (*domain.User, string) {
	t.Helper()

	user := &domain.User{
		FullName: b.fullName,
		Email:    b.email,
		Username: b.username,
		Role:     b.role,
	}
	if err := user.SetPassword(b.password); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndLogin registers the user through the repository, logs in via the
// API and returns the user plus the token cookies the server set.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, []*http.Cookie) {
	t.Helper()

	user, password := b.Build(t, ts.Repos.User)

	body, _ := json.Marshal(map[string]string{
		"email":    b.email,
		"password": password,
	})
	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	return user, resp.Cookies()
}

// CookieByName returns the named cookie from a response cookie list.
func CookieByName(cs []*http.Cookie, name string) *http.Cookie {
	for _, c := range cs {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AccessCookie returns the access token cookie or fails the test.
func AccessCookie(t *testing.T, cs []*http.Cookie) *http.Cookie {
	t.Helper()
	c := CookieByName(cs, cookies.AccessToken)
	if c == nil {
		t.Fatal("access token cookie not set")
	}
	return c
}

// RefreshCookie returns the refresh token cookie or fails the test.
func RefreshCookie(t *testing.T, cs []*http.Cookie) *http.Cookie {
	t.Helper()
	c := CookieByName(cs, cookies.RefreshToken)
	if c == nil {
		t.Fatal("refresh token cookie not set")
	}
	return c
}
