package token

import (
	"context"
	"errors"

	"github.com/mkrupp/recipe-api/internal/domain"
)

// ErrTokenAlreadyExists is returned when the account already holds a token
// or the key collides.
var ErrTokenAlreadyExists = errors.New("token already exists")

// Repository defines the interface for auth token persistence.
// An account holds at most one token.
type Repository interface {
	// CreateToken stores tok and fills in CreatedAt.
	CreateToken(ctx context.Context, tok *domain.AuthToken) error

	// GetTokenByKey looks a token up by its key.
	// A missing token yields an error matching ErrTokenNotFound.
	GetTokenByKey(ctx context.Context, key string) (*domain.AuthToken, bool, error)

	// GetTokenByAccount returns the token held by accountID.
	GetTokenByAccount(ctx context.Context, accountID int64) (*domain.AuthToken, bool, error)

	// DeleteTokenByAccount removes the token held by accountID, if any.
	DeleteTokenByAccount(ctx context.Context, accountID int64) error
}
