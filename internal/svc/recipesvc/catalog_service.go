package recipesvc

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mkrupp/recipe-api/internal/domain"
	"github.com/mkrupp/recipe-api/internal/infra/logging"
	"github.com/mkrupp/recipe-api/internal/infra/validation"
	"github.com/mkrupp/recipe-api/internal/repo/catalog"
)

// CatalogConfig contains configuration parameters for the catalog service.
type CatalogConfig struct {
	// MaxNameLength is the longest accepted item name in characters
	MaxNameLength int `env:"MAX_NAME_LENGTH" default:"255"`
}

// CatalogService manages tags and ingredients. Every operation takes the
// calling account explicitly and only ever touches that account's records.
type CatalogService struct {
	Config CatalogConfig
	Repo   catalog.Repository
	Log    logging.Logger
}

// NewCatalogService creates a CatalogService on repo.
func NewCatalogService(repo catalog.Repository, cfg CatalogConfig) *CatalogService {
	return &CatalogService{
		Config: cfg,
		Repo:   repo,
		Log:    logging.GetLogger("svc.recipesvc.catalog_service"),
	}
}

// List returns the caller's items of kind, ordered by name descending.
func (s *CatalogService) List(
	ctx context.Context,
	kind domain.CatalogKind,
	caller *domain.Account,
) ([]domain.CatalogItem, error) {
	if caller == nil {
		return nil, domain.ErrNotAuthenticated
	}

	items, err := s.Repo.ListItems(ctx, kind, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", kind, err)
	}

	return items, nil
}

// Create stores a new item of kind owned by caller. The name is trimmed and
// must be non-empty and within the configured length.
func (s *CatalogService) Create(
	ctx context.Context,
	kind domain.CatalogKind,
	caller *domain.Account,
	name string,
) (_ *domain.CatalogItem, err error) {
	if caller == nil {
		return nil, domain.ErrNotAuthenticated
	}

	log := s.Log.With(logging.Group("catalog", "kind", kind, "owner", caller.ID))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "create item failed", "error", err)
		} else {
			log.DebugContext(ctx, "item created")
		}
	}()

	name = strings.TrimSpace(name)
	if err := s.validateName(name); err != nil {
		return nil, err
	}

	item := &domain.CatalogItem{Kind: kind, OwnerID: caller.ID, Name: name}
	if err := s.Repo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	return item, nil
}

func (s *CatalogService) validateName(name string) error {
	maxLen := s.Config.MaxNameLength
	if maxLen <= 0 {
		maxLen = 255
	}

	switch {
	case name == "":
		return domain.NewValidationError("name", validation.Message("required", ""))
	case utf8.RuneCountInString(name) > maxLen:
		return domain.NewValidationError("name", validation.Message("max", strconv.Itoa(maxLen)))
	default:
		return nil
	}
}

// ListTags returns the caller's tags.
func (s *CatalogService) ListTags(ctx context.Context, caller *domain.Account) ([]domain.Tag, error) {
	return s.List(ctx, domain.CatalogKindTag, caller)
}

// ListIngredients returns the caller's ingredients.
func (s *CatalogService) ListIngredients(ctx context.Context, caller *domain.Account) ([]domain.Ingredient, error) {
	return s.List(ctx, domain.CatalogKindIngredient, caller)
}

// CreateTag stores a tag owned by caller.
func (s *CatalogService) CreateTag(ctx context.Context, caller *domain.Account, name string) (*domain.Tag, error) {
	return s.Create(ctx, domain.CatalogKindTag, caller, name)
}

// CreateIngredient stores an ingredient owned by caller.
func (s *CatalogService) CreateIngredient(
	ctx context.Context,
	caller *domain.Account,
	name string,
) (*domain.Ingredient, error) {
	return s.Create(ctx, domain.CatalogKindIngredient, caller, name)
}
