package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/recipe-api/internal/infra/storage"
)

func openTestDB(t *testing.T, path string) *storage.DB {
	t.Helper()

	db, err := storage.Open(context.Background(), storage.SQLiteConfig{
		DatabasePath: path,
		BusyTimeout:  time.Second,
		MaxOpenConns: 2,
		Migrate:      true,
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestOpenMigrates(t *testing.T) {
	t.Parallel()

	db := openTestDB(t, filepath.Join(t.TempDir(), "nested", "recipe.db"))

	for _, table := range []string{"accounts", "auth_tokens", "tags", "ingredients"} {
		var name string

		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	db := openTestDB(t, filepath.Join(t.TempDir(), "recipe.db"))

	require.NoError(t, storage.Migrate(context.Background(), db.DB))
}

func TestConstraintHelpers(t *testing.T) {
	t.Parallel()

	db := openTestDB(t, storage.MemoryPath)

	insert := "INSERT INTO accounts (email, password_hash, created_at, updated_at) VALUES (?, ?, 0, 0)"

	_, err := db.Exec(insert, "a@x.com", []byte("h"))
	require.NoError(t, err)

	_, err = db.Exec(insert, "a@x.com", []byte("h"))
	require.Error(t, err)
	assert.True(t, storage.IsUniqueViolation(err))
	assert.False(t, storage.IsForeignKeyViolation(err))

	_, err = db.Exec("INSERT INTO tags (owner_id, name, created_at) VALUES (999, 'x', 0)")
	require.Error(t, err)
	assert.True(t, storage.IsForeignKeyViolation(err))

	assert.False(t, storage.IsUniqueViolation(errors.New("plain")))
}

func TestWriteSerializes(t *testing.T) {
	t.Parallel()

	db := openTestDB(t, storage.MemoryPath)

	wantErr := errors.New("boom")
	err := db.Write(func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)

	assert.Equal(t, 1, storage.BoolToInt(true))
	assert.Equal(t, 0, storage.BoolToInt(false))
}
