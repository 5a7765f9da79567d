package account

import (
	"context"

	"github.com/mkrupp/recipe-api/internal/domain"
)

// Repository defines the interface for account persistence.
type Repository interface {
	// CreateAccount inserts acc and fills in its ID and timestamps.
	// Returns ErrAccountAlreadyExists if the email is already taken.
	CreateAccount(ctx context.Context, acc *domain.Account) error

	// GetAccountByEmail retrieves an account by its normalized email.
	// Returns the account and true if found; a missing account yields an
	// error matching ErrAccountNotFound.
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, bool, error)

	// GetAccountByID retrieves an account by its identifier.
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, bool, error)

	// UpdateAccount persists name, password hash and flags of acc and
	// refreshes acc.UpdatedAt.
	UpdateAccount(ctx context.Context, acc *domain.Account) error
}
