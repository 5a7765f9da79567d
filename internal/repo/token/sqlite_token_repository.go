package token

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mkrupp/recipe-api/internal/domain"
	"github.com/mkrupp/recipe-api/internal/infra/storage"
)

// SQLiteTokenRepository implements Repository on the shared SQLite database.
type SQLiteTokenRepository struct {
	db *storage.DB
}

var _ Repository = (*SQLiteTokenRepository)(nil)

// NewSQLiteTokenRepository creates a repository on db.
func NewSQLiteTokenRepository(db *storage.DB) *SQLiteTokenRepository {
	return &SQLiteTokenRepository{db: db}
}

// CreateToken implements Repository.CreateToken using SQLite.
func (r *SQLiteTokenRepository) CreateToken(ctx context.Context, tok *domain.AuthToken) error {
	now := time.Now().UTC().Truncate(time.Second)

	return r.db.Write(func() error {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO auth_tokens (key, account_id, created_at) VALUES (?, ?, ?)",
			tok.Key,
			tok.AccountID,
			now.Unix(),
		)
		if err != nil {
			switch {
			case storage.IsUniqueViolation(err):
				err = errors.Join(ErrTokenAlreadyExists, err)
			case storage.IsForeignKeyViolation(err):
				err = errors.Join(domain.ErrAccountNotFound, err)
			}

			return fmt.Errorf("insert token: %w", err)
		}

		tok.CreatedAt = now

		return nil
	})
}

// GetTokenByKey implements Repository.GetTokenByKey using SQLite.
func (r *SQLiteTokenRepository) GetTokenByKey(ctx context.Context, key string) (*domain.AuthToken, bool, error) {
	return r.getToken(ctx, "SELECT key, account_id, created_at FROM auth_tokens WHERE key = ?", key)
}

// GetTokenByAccount implements Repository.GetTokenByAccount using SQLite.
func (r *SQLiteTokenRepository) GetTokenByAccount(ctx context.Context, accountID int64) (*domain.AuthToken, bool, error) {
	return r.getToken(ctx, "SELECT key, account_id, created_at FROM auth_tokens WHERE account_id = ?", accountID)
}

func (r *SQLiteTokenRepository) getToken(ctx context.Context, query string, arg any) (*domain.AuthToken, bool, error) {
	var (
		tok       domain.AuthToken
		createdAt int64
	)

	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&tok.Key, &tok.AccountID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = errors.Join(domain.ErrTokenNotFound, err)
		}

		return nil, false, fmt.Errorf("query token: %w", err)
	}

	tok.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &tok, true, nil
}

// DeleteTokenByAccount implements Repository.DeleteTokenByAccount using SQLite.
func (r *SQLiteTokenRepository) DeleteTokenByAccount(ctx context.Context, accountID int64) error {
	return r.db.Write(func() error {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM auth_tokens WHERE account_id = ?", accountID); err != nil {
			return fmt.Errorf("delete token: %w", err)
		}

		return nil
	})
}
