package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the owner of a working set. The core only ever consumes its ID;
// email and password hash exist for the session layer.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeEmail lowercases and trims an email for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a User with a generated ID and timestamp.
// The password hash is produced by the caller.
func NewUser(email, passwordHash string) User {
	return User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}
