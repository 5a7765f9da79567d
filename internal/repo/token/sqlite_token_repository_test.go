package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/recipe-api/internal/domain"
	"github.com/mkrupp/recipe-api/internal/infra/storage"
	"github.com/mkrupp/recipe-api/internal/repo/account"
	"github.com/mkrupp/recipe-api/internal/repo/token"
)

func setup(t *testing.T) (*token.SQLiteTokenRepository, *domain.Account) {
	t.Helper()

	db, err := storage.Open(context.Background(), storage.SQLiteConfig{
		DatabasePath: storage.MemoryPath,
		BusyTimeout:  time.Second,
		Migrate:      true,
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	acc := &domain.Account{Email: "a@x.com", PasswordHash: []byte("h"), IsActive: true}
	require.NoError(t, account.NewSQLiteAccountRepository(db).CreateAccount(context.Background(), acc))

	return token.NewSQLiteTokenRepository(db), acc
}

func TestTokenLifecycle(t *testing.T) {
	t.Parallel()

	repo, acc := setup(t)
	ctx := context.Background()

	tok := &domain.AuthToken{Key: "key1", AccountID: acc.ID}
	require.NoError(t, repo.CreateToken(ctx, tok))
	assert.False(t, tok.CreatedAt.IsZero())

	byKey, ok, err := repo.GetTokenByKey(ctx, "key1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, acc.ID, byKey.AccountID)

	byAccount, ok, err := repo.GetTokenByAccount(ctx, acc.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "key1", byAccount.Key)

	require.NoError(t, repo.DeleteTokenByAccount(ctx, acc.ID))

	_, ok, err = repo.GetTokenByKey(ctx, "key1")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	assert.False(t, ok)
}

func TestOneTokenPerAccount(t *testing.T) {
	t.Parallel()

	repo, acc := setup(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateToken(ctx, &domain.AuthToken{Key: "key1", AccountID: acc.ID}))

	err := repo.CreateToken(ctx, &domain.AuthToken{Key: "key2", AccountID: acc.ID})
	assert.ErrorIs(t, err, token.ErrTokenAlreadyExists)
}

func TestTokenForUnknownAccount(t *testing.T) {
	t.Parallel()

	repo, _ := setup(t)

	err := repo.CreateToken(context.Background(), &domain.AuthToken{Key: "key1", AccountID: 9999})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
