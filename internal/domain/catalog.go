package domain

import (
	"errors"
	"time"
)

// ErrUnknownCatalogKind is returned for a catalog kind without storage.
var ErrUnknownCatalogKind = errors.New("unknown catalog kind")

// CatalogKind names one ownership-scoped record collection.
type CatalogKind string

const (
	CatalogKindTag        CatalogKind = "tag"
	CatalogKindIngredient CatalogKind = "ingredient"
)

// CatalogItem is a named record owned by exactly one account.
// Tags and ingredients share this shape.
type CatalogItem struct {
	ID        int64
	Kind      CatalogKind
	OwnerID   int64
	Name      string
	CreatedAt time.Time
}

type (
	Tag        = CatalogItem
	Ingredient = CatalogItem
)

// CatalogItemResponse is the outward representation of a tag or ingredient.
type CatalogItemResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewCatalogItemResponses maps items to their public view, keeping order.
func NewCatalogItemResponses(items []CatalogItem) []CatalogItemResponse {
	out := make([]CatalogItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, CatalogItemResponse{ID: item.ID, Name: item.Name})
	}

	return out
}
