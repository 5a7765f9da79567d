package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrAccountAlreadyExists is returned when trying to create an account with an email that is taken.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrAccountNotFound is returned when looking up a non-existent account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidCredentials is returned when the email/password combination is incorrect
	// or the account is inactive. Callers cannot tell the cases apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Account is a registered identity. Email is the natural key.
type Account struct {
	ID           int64     // Unique identifier
	Email        string    // Normalized login email
	PasswordHash []byte    // bcrypt hash, never serialized
	Name         string    // Display name, may be empty
	IsActive     bool      // Inactive accounts cannot authenticate
	IsStaff      bool      // Administrative access
	IsSuperuser  bool      // All permissions
	CreatedAt    time.Time // Creation time
	UpdatedAt    time.Time // Last modification time
}

// NormalizeEmail trims surrounding whitespace and lower-cases the whole address.
// It is idempotent.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AccountResponse is the outward representation of an account.
// The password hash is never included.
type AccountResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewAccountResponse builds the public view of acc.
func NewAccountResponse(acc *Account) AccountResponse {
	return AccountResponse{
		Email: acc.Email,
		Name:  acc.Name,
	}
}

// ProfileUpdate carries the fields of a partial profile update.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string
	Password *string
}
