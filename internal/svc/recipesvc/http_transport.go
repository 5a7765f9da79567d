package recipesvc

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/mkrupp/recipe-api/internal/domain"
	context_ "github.com/mkrupp/recipe-api/internal/infra/context"
	"github.com/mkrupp/recipe-api/internal/infra/logging"
	http_ "github.com/mkrupp/recipe-api/internal/infra/transport/http"
	"github.com/mkrupp/recipe-api/internal/svc/usersvc/authclient"
)

// HTTPTransport serves the catalog collections. Every route requires a token.
type HTTPTransport struct {
	endpoints  []Endpoint
	auth       func(http.Handler) http.Handler
	router     chi.Router
	routerOnce sync.Once
	log        logging.Logger
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

type createItemRequest struct {
	Name string `json:"name"`
}

// NewHTTPTransport creates the catalog routes for endpoints.
func NewHTTPTransport(authClient authclient.AuthClient, endpoints ...Endpoint) *HTTPTransport {
	log := logging.GetLogger("svc.recipesvc.http_transport")

	return &HTTPTransport{
		endpoints: endpoints,
		auth:      http_.AuthenticatingMiddleware(authClient, log),
		log:       log,
	}
}

// Register mounts each endpoint on r: GET for a Lister, POST for a Creator.
func (ht *HTTPTransport) Register(r chi.Router) {
	for _, ep := range ht.endpoints {
		sub := http_.NewRouter()
		sub.Use(ht.auth)

		if ep.Lister != nil {
			sub.Get("/", ht.HandleList(ep.Lister))
		}

		if ep.Creator != nil {
			sub.Post("/", ht.HandleCreate(ep.Creator))
		}

		r.Mount(ep.Path, sub)
	}
}

// ServeHTTP implements http.Handler for serving the transport on its own.
// Servers sharing a router call Register instead.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.routerOnce.Do(func() {
		router := http_.NewRouter()
		ht.Register(router)
		ht.router = router
	})

	ht.router.ServeHTTP(w, r)
}

// HandleList answers with the caller's items as [{id, name}].
func (ht *HTTPTransport) HandleList(lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ht.handleList(w, r, lister); err != nil {
			http_.WriteError(w, r, err)
		}
	}
}

func (ht *HTTPTransport) handleList(w http.ResponseWriter, r *http.Request, lister Lister) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "list items failed", "error", err)
		}
	}(r.Context())

	caller, ok := context_.AccountFromContext(r.Context())
	if !ok {
		return domain.ErrNotAuthenticated
	}

	items, err := lister.List(r.Context(), caller)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, domain.NewCatalogItemResponses(items))
}

// HandleCreate stores an item from {"name": ...} and answers 201 with it.
func (ht *HTTPTransport) HandleCreate(creator Creator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ht.handleCreate(w, r, creator); err != nil {
			http_.WriteError(w, r, err)
		}
	}
}

func (ht *HTTPTransport) handleCreate(w http.ResponseWriter, r *http.Request, creator Creator) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil && http_.ErrorStatus(err) >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "create item failed", "error", err)
		}
	}(r.Context())

	caller, ok := context_.AccountFromContext(r.Context())
	if !ok {
		return domain.ErrNotAuthenticated
	}

	var req createItemRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		return err
	}

	item, err := creator.Create(r.Context(), caller, req.Name)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	return http_.WriteJSON(w, http.StatusCreated, domain.CatalogItemResponse{ID: item.ID, Name: item.Name})
}
