package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkrupp/recipe-api/internal/domain"
	"github.com/mkrupp/recipe-api/internal/infra/logging"
	"github.com/mkrupp/recipe-api/internal/infra/storage"
)

//nolint:gochecknoglobals
var tables = map[domain.CatalogKind]string{
	domain.CatalogKindTag:        "tags",
	domain.CatalogKindIngredient: "ingredients",
}

func tableFor(kind domain.CatalogKind) (string, error) {
	table, ok := tables[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCatalogKind, kind)
	}

	return table, nil
}

// SQLiteCatalogRepository implements Repository on the shared SQLite database.
type SQLiteCatalogRepository struct {
	db  *storage.DB
	log logging.Logger
}

var _ Repository = (*SQLiteCatalogRepository)(nil)

// NewSQLiteCatalogRepository creates a repository on db.
func NewSQLiteCatalogRepository(db *storage.DB) *SQLiteCatalogRepository {
	return &SQLiteCatalogRepository{
		db:  db,
		log: logging.GetLogger("repo.catalog.sqlite_catalog_repository"),
	}
}

// CreateItem implements Repository.CreateItem using SQLite.
func (r *SQLiteCatalogRepository) CreateItem(ctx context.Context, item *domain.CatalogItem) error {
	table, err := tableFor(item.Kind)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)

	return r.db.Write(func() error {
		//nolint:gosec // table comes from the fixed kind map
		res, err := r.db.ExecContext(ctx,
			"INSERT INTO "+table+" (owner_id, name, created_at) VALUES (?, ?, ?)",
			item.OwnerID,
			item.Name,
			now.Unix(),
		)
		if err != nil {
			if storage.IsForeignKeyViolation(err) {
				err = errors.Join(domain.ErrAccountNotFound, err)
			}

			return fmt.Errorf("insert %s: %w", item.Kind, err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		item.ID = id
		item.CreatedAt = now

		r.log.DebugContext(ctx, "catalog item created", logging.Group(string(item.Kind),
			"id", item.ID,
			"owner", item.OwnerID,
		))

		return nil
	})
}

// ListItems implements Repository.ListItems using SQLite.
func (r *SQLiteCatalogRepository) ListItems(
	ctx context.Context,
	kind domain.CatalogKind,
	ownerID int64,
) (_ []domain.CatalogItem, err error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // table comes from the fixed kind map
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, owner_id, name, created_at FROM "+table+" WHERE owner_id = ? ORDER BY name DESC, id ASC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}

	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	items := make([]domain.CatalogItem, 0)

	for rows.Next() {
		var (
			item      = domain.CatalogItem{Kind: kind}
			createdAt int64
		)

		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}

		item.CreatedAt = time.Unix(createdAt, 0).UTC()
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	return items, nil
}
