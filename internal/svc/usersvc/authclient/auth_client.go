package authclient

import (
	"context"

	"github.com/mkrupp/recipe-api/internal/domain"
)

// AuthClient resolves bearer token keys to accounts.
type AuthClient interface {
	// Resolve returns the active account holding key.
	// Unknown keys and inactive accounts yield an error matching
	// domain.ErrNotAuthenticated.
	Resolve(ctx context.Context, key string) (*domain.Account, error)
}

// Resolver is the in-process token lookup backing LocalClient.
type Resolver interface {
	ResolveCaller(ctx context.Context, key string) (*domain.Account, error)
}

// LocalClient implements AuthClient by calling a Resolver in the same process.
type LocalClient struct {
	resolver Resolver
}

var _ AuthClient = (*LocalClient)(nil)

// NewLocalClient creates a LocalClient on resolver.
func NewLocalClient(resolver Resolver) *LocalClient {
	return &LocalClient{resolver: resolver}
}

// Resolve implements AuthClient.Resolve.
func (c *LocalClient) Resolve(ctx context.Context, key string) (*domain.Account, error) {
	//nolint:wrapcheck
	return c.resolver.ResolveCaller(ctx, key)
}
