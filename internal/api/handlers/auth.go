package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/devfolio/blog-api/internal/api/cookies"
	"github.com/devfolio/blog-api/internal/api/middleware"
	"github.com/devfolio/blog-api/internal/api/respond"
	"github.com/devfolio/blog-api/internal/domain"
	"github.com/devfolio/blog-api/internal/service"
)

type AuthHandler struct {
	auth       *service.AuthService
	policy     cookies.Policy
	accessTTL  time.Duration
	refreshTTL time.Duration
	wr         *respond.Writer
}

func NewAuthHandler(auth *service.AuthService, policy cookies.Policy, accessTTL, refreshTTL time.Duration, wr *respond.Writer) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		policy:     policy,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		wr:         wr,
	}
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.wr.Error(w, domain.NewValidationError("Invalid request body"))
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.wr.Error(w, err)
		return
	}

	h.wr.JSON(w, http.StatusCreated, user, "User registered successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.wr.Error(w, domain.NewValidationError("Invalid request body"))
		return
	}

	identifier := service.Identifier{By: service.ByEmail, Value: req.Email}
	if req.Email == "" {
		identifier = service.Identifier{By: service.ByUsername, Value: req.Username}
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		h.wr.Error(w, err)
		return
	}

	h.policy.Set(w, r, cookies.AccessToken, result.AccessToken, h.accessTTL)
	h.policy.Set(w, r, cookies.RefreshToken, result.RefreshToken, h.refreshTTL)

	h.wr.JSON(w, http.StatusOK, map[string]any{"user": result.User}, "Logged in successfully")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		h.wr.Error(w, domain.NewUnauthorizedError("Unauthorized"))
		return
	}

	if err := h.auth.Logout(r.Context(), user.ID); err != nil {
		h.wr.Error(w, err)
		return
	}

	h.policy.Clear(w, r, cookies.AccessToken)
	h.policy.Clear(w, r, cookies.RefreshToken)

	h.wr.JSON(w, http.StatusOK, map[string]any{}, "Logged out successfully")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		h.wr.Error(w, domain.NewUnauthorizedError("Unauthorized"))
		return
	}

	h.wr.JSON(w, http.StatusOK, user, "Current user fetched successfully")
}

// Refresh rotates the token pair. The incoming refresh token is read from
// the cookie first, then from the request body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	incoming := ""
	if c, err := r.Cookie(cookies.RefreshToken); err == nil {
		incoming = c.Value
	}
	if incoming == "" {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			incoming = req.RefreshToken
		}
	}

	pair, err := h.auth.Refresh(r.Context(), incoming)
	if err != nil {
		h.wr.Error(w, err)
		return
	}

	h.policy.Set(w, r, cookies.AccessToken, pair.AccessToken, h.accessTTL)
	h.policy.Set(w, r, cookies.RefreshToken, pair.RefreshToken, h.refreshTTL)

	h.wr.JSON(w, http.StatusOK, map[string]string{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Tokens refreshed successfully")
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		h.wr.Error(w, domain.NewUnauthorizedError("Unauthorized"))
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.wr.Error(w, domain.NewValidationError("Invalid request body"))
		return
	}

	if err := h.auth.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		h.wr.Error(w, err)
		return
	}

	h.wr.JSON(w, http.StatusOK, map[string]any{}, "Password changed successfully")
}
