package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mkrupp/recipe-api/internal/domain"
	"github.com/mkrupp/recipe-api/internal/infra/logging"
	"github.com/mkrupp/recipe-api/internal/infra/storage"
)

const selectAccount = `
	SELECT id, email, password_hash, name, is_active, is_staff, is_superuser, created_at, updated_at
	FROM accounts`

// SQLiteAccountRepository implements Repository on the shared SQLite database.
type SQLiteAccountRepository struct {
	db  *storage.DB
	log logging.Logger
}

var _ Repository = (*SQLiteAccountRepository)(nil)

// NewSQLiteAccountRepository creates a repository on db. The schema is owned
// by the storage migrations.
func NewSQLiteAccountRepository(db *storage.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{
		db:  db,
		log: logging.GetLogger("repo.account.sqlite_account_repository"),
	}
}

// CreateAccount implements Repository.CreateAccount using SQLite.
func (r *SQLiteAccountRepository) CreateAccount(ctx context.Context, acc *domain.Account) error {
	now := time.Now().UTC().Truncate(time.Second)

	return r.db.Write(func() error {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO accounts (email, password_hash, name, is_active, is_staff, is_superuser, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			acc.Email,
			acc.PasswordHash,
			acc.Name,
			storage.BoolToInt(acc.IsActive),
			storage.BoolToInt(acc.IsStaff),
			storage.BoolToInt(acc.IsSuperuser),
			now.Unix(),
			now.Unix(),
		)
		if err != nil {
			if storage.IsUniqueViolation(err) {
				err = errors.Join(domain.ErrAccountAlreadyExists, err)
			}

			return fmt.Errorf("insert account: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		acc.ID = id
		acc.CreatedAt = now
		acc.UpdatedAt = now

		return nil
	})
}

// GetAccountByEmail implements Repository.GetAccountByEmail using SQLite.
func (r *SQLiteAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, bool, error) {
	return r.getAccount(ctx, selectAccount+" WHERE email = ?", email)
}

// GetAccountByID implements Repository.GetAccountByID using SQLite.
func (r *SQLiteAccountRepository) GetAccountByID(ctx context.Context, id int64) (*domain.Account, bool, error) {
	return r.getAccount(ctx, selectAccount+" WHERE id = ?", id)
}

func (r *SQLiteAccountRepository) getAccount(ctx context.Context, query string, arg any) (*domain.Account, bool, error) {
	var (
		acc                        domain.Account
		isActive, isStaff, isSuper int
		createdAt, updatedAt       int64
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&acc.ID,
		&acc.Email,
		&acc.PasswordHash,
		&acc.Name,
		&isActive,
		&isStaff,
		&isSuper,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = errors.Join(domain.ErrAccountNotFound, err)
		}

		return nil, false, fmt.Errorf("query account: %w", err)
	}

	acc.IsActive = isActive != 0
	acc.IsStaff = isStaff != 0
	acc.IsSuperuser = isSuper != 0
	acc.CreatedAt = time.Unix(createdAt, 0).UTC()
	acc.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	return &acc, true, nil
}

// UpdateAccount implements Repository.UpdateAccount using SQLite.
func (r *SQLiteAccountRepository) UpdateAccount(ctx context.Context, acc *domain.Account) error {
	now := time.Now().UTC().Truncate(time.Second)

	return r.db.Write(func() error {
		res, err := r.db.ExecContext(ctx, `
			UPDATE accounts
			SET password_hash = ?, name = ?, is_active = ?, is_staff = ?, is_superuser = ?, updated_at = ?
			WHERE id = ?`,
			acc.PasswordHash,
			acc.Name,
			storage.BoolToInt(acc.IsActive),
			storage.BoolToInt(acc.IsStaff),
			storage.BoolToInt(acc.IsSuperuser),
			now.Unix(),
			acc.ID,
		)
		if err != nil {
			return fmt.Errorf("update account: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}

		if n == 0 {
			return fmt.Errorf("update account %d: %w", acc.ID, domain.ErrAccountNotFound)
		}

		acc.UpdatedAt = now

		r.log.DebugContext(ctx, "account updated", "id", acc.ID)

		return nil
	})
}
