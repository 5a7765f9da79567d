package account_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/recipe-api/internal/domain"
	"github.com/mkrupp/recipe-api/internal/infra/storage"
	"github.com/mkrupp/recipe-api/internal/repo/account"
)

func newRepo(t *testing.T) *account.SQLiteAccountRepository {
	t.Helper()

	db, err := storage.Open(context.Background(), storage.SQLiteConfig{
		DatabasePath: storage.MemoryPath,
		BusyTimeout:  time.Second,
		Migrate:      true,
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return account.NewSQLiteAccountRepository(db)
}

func TestCreateAndGetAccount(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	ctx := context.Background()

	acc := &domain.Account{
		Email:        "a@x.com",
		PasswordHash: []byte("hash"),
		Name:         "Alice",
		IsActive:     true,
		IsStaff:      true,
	}
	require.NoError(t, repo.CreateAccount(ctx, acc))
	assert.NotZero(t, acc.ID)
	assert.False(t, acc.CreatedAt.IsZero())

	byEmail, ok, err := repo.GetAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, acc.ID, byEmail.ID)
	assert.Equal(t, "Alice", byEmail.Name)
	assert.Equal(t, []byte("hash"), byEmail.PasswordHash)
	assert.True(t, byEmail.IsActive)
	assert.True(t, byEmail.IsStaff)
	assert.False(t, byEmail.IsSuperuser)

	byID, ok, err := repo.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateAccount(ctx, &domain.Account{Email: "a@x.com", PasswordHash: []byte("h")}))

	err := repo.CreateAccount(ctx, &domain.Account{Email: "a@x.com", PasswordHash: []byte("h")})
	assert.ErrorIs(t, err, domain.ErrAccountAlreadyExists)
}

func TestGetAccountNotFound(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)

	acc, ok, err := repo.GetAccountByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.False(t, ok)
	assert.Nil(t, acc)
}

func TestUpdateAccount(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	ctx := context.Background()

	acc := &domain.Account{Email: "a@x.com", PasswordHash: []byte("old"), IsActive: true}
	require.NoError(t, repo.CreateAccount(ctx, acc))

	acc.Name = "New name"
	acc.PasswordHash = []byte("new")
	acc.IsActive = false
	require.NoError(t, repo.UpdateAccount(ctx, acc))

	got, _, err := repo.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "New name", got.Name)
	assert.Equal(t, []byte("new"), got.PasswordHash)
	assert.False(t, got.IsActive)

	err = repo.UpdateAccount(ctx, &domain.Account{ID: 9999})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestStorageFailures(t *testing.T) {
	t.Parallel()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := account.NewSQLiteAccountRepository(storage.New(sqlDB))
	ctx := context.Background()
	dbDown := errors.New("db down")

	mock.ExpectExec("INSERT INTO accounts").WillReturnError(dbDown)

	err = repo.CreateAccount(ctx, &domain.Account{Email: "a@x.com"})
	require.ErrorIs(t, err, dbDown)
	assert.NotErrorIs(t, err, domain.ErrAccountAlreadyExists)

	mock.ExpectQuery(`(?s)SELECT .+FROM accounts WHERE id = \?`).
		WithArgs(int64(1)).
		WillReturnError(dbDown)

	_, ok, err := repo.GetAccountByID(ctx, 1)
	require.ErrorIs(t, err, dbDown)
	assert.NotErrorIs(t, err, domain.ErrAccountNotFound)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}
