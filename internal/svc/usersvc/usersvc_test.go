package usersvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkrupp/recipe-api/internal/infra/storage"
	"github.com/mkrupp/recipe-api/internal/repo/account"
	"github.com/mkrupp/recipe-api/internal/repo/token"
	"github.com/mkrupp/recipe-api/internal/svc/usersvc"
)

type fixture struct {
	db       *storage.DB
	accounts *usersvc.AccountService
	tokens   *usersvc.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := storage.Open(context.Background(), storage.SQLiteConfig{
		DatabasePath: storage.MemoryPath,
		BusyTimeout:  time.Second,
		Migrate:      true,
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	accounts, err := usersvc.NewAccountService(account.NewSQLiteAccountRepository(db), usersvc.AccountConfig{
		MinPasswordLength: 5,
		BcryptCost:        bcrypt.MinCost,
	})
	require.NoError(t, err)

	tokens := usersvc.NewTokenService(accounts, token.NewSQLiteTokenRepository(db), usersvc.TokenConfig{KeyBytes: 20})

	return &fixture{db: db, accounts: accounts, tokens: tokens}
}
