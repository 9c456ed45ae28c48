package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address. Stored exactly as entered;
	// uniqueness is enforced case-insensitively.
	Email string

	// Username is an optional display handle, unique case-insensitively
	// when set. Empty string means no username.
	Username string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// IsActive gates login. Deactivated accounts keep their data but
	// cannot authenticate.
	IsActive bool

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile or password change.
	UpdatedAt int64
}

// NewUser builds a User with a fresh ID and timestamps. The caller supplies
// an already-hashed password.
func NewUser(email, username, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
