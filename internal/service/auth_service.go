package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devfolio/blog-api/internal/domain"
	"github.com/devfolio/blog-api/internal/repository"
	"github.com/devfolio/blog-api/internal/token"
)

// Only one refresh token is valid per user at a time: login and refresh
// overwrite the stored value, which revokes whatever was issued before.
// Multi-device sessions are deliberately out of scope.
type AuthService struct {
	users  repository.UserRepository
	tokens *token.Manager
	log    *zap.SugaredLogger
}

func NewAuthService(users repository.UserRepository, tokens *token.Manager, log *zap.SugaredLogger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// IdentifierKind tags the login lookup so the store query is unambiguous.
type IdentifierKind string

const (
	ByEmail    IdentifierKind = "email"
	ByUsername IdentifierKind = "username"
)

type Identifier struct {
	By    IdentifierKind
	Value string
}

type LoginInput struct {
	Identifier Identifier
	Password   string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type LoginResult struct {
	User *domain.User
	TokenPair
}

var (
	emailPattern       = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	nonAlphanumPattern = regexp.MustCompile(`[^a-z0-9]`)
	passwordSymbols    = "@$!%*?&"
)

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if fullName == "" || email == "" || strings.TrimSpace(input.Password) == "" {
		return nil, domain.NewValidationError("All fields are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, domain.NewValidationError("Please provide a valid email address")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.NewConflictError("User with this email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	username, err := s.deriveUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FullName: fullName,
		Email:    email,
		Username: username,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, domain.NewInternalError("Failed to hash password")
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewConflictError("User with this email already exists")
		}
		return nil, err
	}

	s.log.Infow("user registered", "userId", user.ID.Hex(), "username", user.Username)
	return user.Sanitized(), nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	value := strings.ToLower(strings.TrimSpace(input.Identifier.Value))
	if value == "" {
		return nil, domain.NewValidationError("Email or Username is required")
	}

	var (
		user *domain.User
		err  error
	)
	switch input.Identifier.By {
	case ByUsername:
		user, err = s.users.GetByUsername(ctx, value)
	default:
		user, err = s.users.GetByEmail(ctx, value)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFoundError("User not found")
		}
		return nil, err
	}

	if !user.PasswordMatches(input.Password) {
		return nil, domain.NewUnauthorizedError("Invalid credentials")
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user.Sanitized(), TokenPair: pair}, nil
}

// Logout unsets the stored refresh token. Unsetting an already-absent token
// is a no-op success.
func (s *AuthService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// Refresh rotates both tokens. The stored refresh token is the sole source
// of truth for refresh validity: a syntactically valid token that does not
// match the stored value is rejected, which covers logout-while-held and
// supersession by a newer login or refresh.
func (s *AuthService) Refresh(ctx context.Context, incoming string) (*TokenPair, error) {
	if incoming == "" {
		return nil, domain.NewUnauthorizedError("Unauthorized request")
	}

	claims, err := s.tokens.VerifyRefresh(incoming)
	if err != nil {
		return nil, domain.NewUnauthorizedError("Refresh token expired or invalid")
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, domain.NewUnauthorizedError("Invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil || user.RefreshToken != incoming {
		return nil, domain.NewUnauthorizedError("Invalid refresh token")
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFoundError("User not found")
		}
		return err
	}

	if !user.PasswordMatches(oldPassword) {
		return domain.NewUnauthorizedError("Invalid credentials")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return domain.NewInternalError("Failed to hash password")
	}
	return s.users.SetPasswordHash(ctx, userID, user.PasswordHash)
}

func (s *AuthService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// IssueAccessToken mints a new access token only, for the middleware's
// silent renewal path. The stored refresh token is left untouched.
func (s *AuthService) IssueAccessToken(user *domain.User) (string, error) {
	return s.tokens.IssueAccess(user)
}

func (s *AuthService) VerifyAccessToken(tokenString string) (*token.AccessClaims, error) {
	return s.tokens.VerifyAccess(tokenString)
}

func (s *AuthService) VerifyRefreshToken(tokenString string) (*token.RefreshClaims, error) {
	return s.tokens.VerifyRefresh(tokenString)
}

// issueTokenPair mints both tokens and persists the refresh token. Two
// concurrent calls for the same user can both pass verification before
// either write lands; the second write wins and the first caller's refresh
// token is immediately stale. Accepted as a low-probability race since a
// session's refresh token is rotated by a single client.
func (s *AuthService) issueTokenPair(ctx context.Context, user *domain.User) (TokenPair, error) {
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return TokenPair{}, domain.NewInternalError("Error while generating tokens")
	}
	refresh, err := s.tokens.IssueRefresh(user.ID.Hex())
	if err != nil {
		return TokenPair{}, domain.NewInternalError("Error while generating tokens")
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) deriveUsername(ctx context.Context, email string) (string, error) {
	base := nonAlphanumPattern.ReplaceAllString(strings.ToLower(strings.Split(email, "@")[0]), "")
	if base == "" {
		base = "user"
	}

	username := base
	for counter := 1; ; counter++ {
		_, err := s.users.GetByUsername(ctx, username)
		if errors.Is(err, domain.ErrNotFound) {
			return username, nil
		}
		if err != nil {
			return "", err
		}
		username = base + strconv.Itoa(counter)
	}
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return domain.NewValidationError("Password must be at least 8 characters long")
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return domain.NewValidationError(
			"Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}
	return nil
}
