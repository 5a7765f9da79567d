package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/recipe-api/internal/domain"
	"github.com/mkrupp/recipe-api/internal/infra/storage"
	"github.com/mkrupp/recipe-api/internal/svc/usersvc"
)

func newTestCLI(t *testing.T, passwords ...string) (*cli, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}

	return &cli{
		cfg: Config{
			DB: storage.SQLiteConfig{
				DatabasePath: filepath.Join(t.TempDir(), "recipe.db"),
				BusyTimeout:  time.Second,
				MaxOpenConns: 1,
				Migrate:      true,
			},
			Account: usersvc.AccountConfig{MinPasswordLength: 5, BcryptCost: 4},
		},
		out: out,
		prompt: func(string) (string, error) {
			if len(passwords) == 0 {
				return "", errors.New("no more input")
			}

			p := passwords[0]
			passwords = passwords[1:]

			return p, nil
		},
	}, out
}

func TestRunUsage(t *testing.T) {
	t.Parallel()

	c, _ := newTestCLI(t)

	require.ErrorIs(t, c.run(context.Background(), nil), errUsage)
	require.ErrorIs(t, c.run(context.Background(), []string{"frobnicate"}), errUsage)
	require.ErrorIs(t, c.run(context.Background(), []string{"createsuperuser"}), errUsage)
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	c, out := newTestCLI(t)

	require.NoError(t, c.run(context.Background(), []string{"migrate"}))
	require.NoError(t, c.run(context.Background(), []string{"migrate"}))
	assert.Contains(t, out.String(), "migrations applied")
}

func TestCreateSuperuserAndChangePassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, out := newTestCLI(t, "Secret1", "Secret1", "Changed2", "Changed2")

	require.NoError(t, c.run(ctx, []string{"createsuperuser", "--email", "Root@X.com"}))
	assert.Contains(t, out.String(), "Superuser created: root@x.com")

	require.NoError(t, c.run(ctx, []string{"changepassword", "--email", "root@x.com"}))
	assert.Contains(t, out.String(), "Password changed for root@x.com")

	accounts, closeDB, err := c.openAccounts(ctx)
	require.NoError(t, err)

	defer closeDB()

	acc, err := accounts.VerifyCredentials(ctx, "root@x.com", "Changed2")
	require.NoError(t, err)
	assert.True(t, acc.IsSuperuser)
	assert.True(t, acc.IsStaff)
}

func TestCreateSuperuserPasswordMismatch(t *testing.T) {
	t.Parallel()

	c, _ := newTestCLI(t, "Secret1", "Secret2")

	err := c.run(context.Background(), []string{"createsuperuser", "--email", "root@x.com"})
	require.ErrorIs(t, err, errPasswordMismatch)
}

func TestChangePasswordUnknownAccount(t *testing.T) {
	t.Parallel()

	c, _ := newTestCLI(t, "Secret1", "Secret1")

	err := c.run(context.Background(), []string{"changepassword", "--email", "nobody@x.com"})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
