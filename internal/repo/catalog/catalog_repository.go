package catalog

import (
	"context"

	"github.com/mkrupp/recipe-api/internal/domain"
)

// Repository defines persistence for ownership-scoped catalog records.
// Every read is filtered by owner; there is no global listing.
type Repository interface {
	// CreateItem inserts item into the collection named by item.Kind and
	// fills in its ID and CreatedAt.
	CreateItem(ctx context.Context, item *domain.CatalogItem) error

	// ListItems returns the items of kind owned by ownerID, ordered by name
	// descending and by insertion order among equal names.
	ListItems(ctx context.Context, kind domain.CatalogKind, ownerID int64) ([]domain.CatalogItem, error)
}
