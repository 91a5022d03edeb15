package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devfolio/blog-api/internal/domain"
)

// UserRepository is the credential store contract. Implementations surface
// domain.ErrNotFound for missing records and domain.ErrDuplicate for
// unique-index violations on email or username.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// SetRefreshToken overwrites the single stored refresh token; an empty
	// value unsets it. Overwrite is the sole revocation mechanism.
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error
}

// AboutRepository stores the singleton about profile.
type AboutRepository interface {
	Get(ctx context.Context) (*domain.AboutProfile, error)
	// Save upserts the singleton document.
	Save(ctx context.Context, profile *domain.AboutProfile) (*domain.AboutProfile, error)
}

type Repositories struct {
	User  UserRepository
	About AboutRepository
}
