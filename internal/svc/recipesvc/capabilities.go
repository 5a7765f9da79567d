package recipesvc

import (
	"context"

	"github.com/mkrupp/recipe-api/internal/domain"
)

// Lister lists the caller's records of one collection.
type Lister interface {
	List(ctx context.Context, caller *domain.Account) ([]domain.CatalogItem, error)
}

// Creator adds a record owned by the caller to one collection.
type Creator interface {
	Create(ctx context.Context, caller *domain.Account, name string) (*domain.CatalogItem, error)
}

// Endpoint mounts one collection at Path. Only the non-nil capabilities are
// routed; other methods answer 405.
type Endpoint struct {
	Path    string
	Lister  Lister
	Creator Creator
}

// Collection binds a CatalogService to one kind. It provides both capabilities.
type Collection struct {
	svc  *CatalogService
	kind domain.CatalogKind
}

var (
	_ Lister  = (*Collection)(nil)
	_ Creator = (*Collection)(nil)
)

// Collection returns the capabilities of kind.
func (s *CatalogService) Collection(kind domain.CatalogKind) *Collection {
	return &Collection{svc: s, kind: kind}
}

// List implements Lister.
func (c *Collection) List(ctx context.Context, caller *domain.Account) ([]domain.CatalogItem, error) {
	return c.svc.List(ctx, c.kind, caller)
}

// Create implements Creator.
func (c *Collection) Create(ctx context.Context, caller *domain.Account, name string) (*domain.CatalogItem, error) {
	return c.svc.Create(ctx, c.kind, caller, name)
}

// Endpoints returns the default routing of the catalog: tags and
// ingredients, each listable and creatable.
func (s *CatalogService) Endpoints() []Endpoint {
	tags := s.Collection(domain.CatalogKindTag)
	ingredients := s.Collection(domain.CatalogKindIngredient)

	return []Endpoint{
		{Path: "/recipe/tags", Lister: tags, Creator: tags},
		{Path: "/recipe/ingredients", Lister: ingredients, Creator: ingredients},
	}
}
