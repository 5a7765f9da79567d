package domain

import (
	"errors"
	"time"
)

var (
	// ErrNoAuthToken is returned when an authentication token is required but not provided.
	ErrNoAuthToken = errors.New("no auth token")
	// ErrInvalidAuthToken is returned when a token is unknown or belongs to an inactive account.
	ErrInvalidAuthToken = errors.New("invalid auth token")
	// ErrNotAuthenticated is returned when a request has no resolvable caller.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrTokenNotFound is returned by storage when no token matches.
	ErrTokenNotFound = errors.New("token not found")
)

// AuthToken is an opaque bearer credential bound to one account.
type AuthToken struct {
	Key       string    // Opaque value presented by clients
	AccountID int64     // Owner of the token
	CreatedAt time.Time // Issue time
}

// AuthTokenResponse represents a response containing an authentication token.
type AuthTokenResponse struct {
	Token string `json:"token"`
}
