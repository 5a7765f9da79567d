package context

import (
	"context"

	"github.com/mkrupp/recipe-api/internal/domain"
)

const contextKeyAccount = contextKey("account")

// AccountFromContext returns the authenticated caller resolved for this request.
// Returns nil and false when the request is anonymous.
func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	acc, ok := ctx.Value(contextKeyAccount).(*domain.Account)

	return acc, ok && acc != nil
}

// WithAccount returns a copy of ctx carrying the authenticated caller.
// Handlers read it back once and pass the account explicitly to services.
func WithAccount(ctx context.Context, acc *domain.Account) context.Context {
	return context.WithValue(ctx, contextKeyAccount, acc)
}
