package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// User is the credential record. PasswordHash and RefreshToken never leave
// the service layer; outward-facing responses use Sanitized().
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	FullName     string             `bson:"fullName" json:"fullName"`
	Avatar       string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Role         string             `bson:"role,omitempty" json:"role,omitempty"`
	PasswordHash string             `bson:"password" json:"-"`
	RefreshToken string             `bson:"refreshToken,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SetPassword hashes the plaintext and assigns the result. The plaintext is
// never stored on the struct, so a record can only ever be persisted hashed.
func (u *User) SetPassword(plaintext string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// PasswordMatches reports whether the plaintext matches the stored hash.
func (u *User) PasswordMatches(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

// IsAdmin treats the role string case-insensitively; an absent role means an
// ordinary user.
func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.Role, "admin")
}

// Sanitized returns the outward-facing projection of the record with the
// password hash and refresh token stripped.
func (u *User) Sanitized() *User {
	clone := *u
	clone.PasswordHash = ""
	clone.RefreshToken = ""
	return &clone
}
