package recipesvc_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/recipe-api/internal/domain"
	http_ "github.com/mkrupp/recipe-api/internal/infra/transport/http"
	"github.com/mkrupp/recipe-api/internal/svc/recipesvc"
)

type fakeAuthClient map[string]*domain.Account

func (c fakeAuthClient) Resolve(_ context.Context, key string) (*domain.Account, error) {
	if acc, ok := c[key]; ok {
		return acc, nil
	}

	return nil, errors.Join(domain.ErrNotAuthenticated, domain.ErrInvalidAuthToken)
}

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHTTPCatalog(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	alice := f.account(t, "a@x.com")
	bob := f.account(t, "b@x.com")
	h := recipesvc.NewHTTPTransport(fakeAuthClient{"alice": alice, "bob": bob}, f.svc.Endpoints()...)

	for _, path := range []string{"/recipe/tags", "/recipe/ingredients"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, path, "", "").Code)
			assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, path, "nope", "").Code)
			assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, path, "", `{"name":"x"}`).Code)

			rec := do(h, http.MethodGet, path, "alice", "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `[]`, rec.Body.String())

			rec = do(h, http.MethodPost, path, "alice", `{"name":"Apple"}`)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"name":"Apple"`)

			require.Equal(t, http.StatusCreated, do(h, http.MethodPost, path, "alice", `{"name":"Zucchini"}`).Code)
			require.Equal(t, http.StatusCreated, do(h, http.MethodPost, path, "bob", `{"name":"Banana"}`).Code)

			rec = do(h, http.MethodGet, path, "alice", "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Regexp(t, `^\[\{"id":\d+,"name":"Zucchini"\},\{"id":\d+,"name":"Apple"\}\]\s*$`, rec.Body.String())

			rec = do(h, http.MethodPost, path, "alice", `{"name":""}`)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"name"`)

			rec = do(h, http.MethodDelete, path, "alice", "")
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestHTTPCatalogListOnlyEndpoint(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	alice := f.account(t, "a@x.com")
	tags := f.svc.Collection(domain.CatalogKindTag)
	h := recipesvc.NewHTTPTransport(fakeAuthClient{"alice": alice}, recipesvc.Endpoint{Path: "/recipe/tags", Lister: tags})

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/recipe/tags", "alice", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(h, http.MethodPost, "/recipe/tags", "alice", `{"name":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/recipe/ingredients", "alice", "").Code)
}

func TestHTTPCatalogRegisterOnSharedRouter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	alice := f.account(t, "a@x.com")

	router := http_.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	recipesvc.NewHTTPTransport(fakeAuthClient{"alice": alice}, f.svc.Endpoints()...).Register(router)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/recipe/ingredients", "alice", `{"name":"Salt"}`).Code)

	rec := do(router, http.MethodGet, "/recipe/ingredients", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Salt"`)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, "/recipe/tags", "", "").Code)
}
