package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter returns a chi router answering unknown routes and unsupported
// methods with JSON error bodies.
func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.NotFound(NotFoundHandler)
	r.MethodNotAllowed(MethodNotAllowedHandler)

	return r
}

// NotFoundHandler answers 404 with a JSON detail.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, ErrNotFound)
}

// MethodNotAllowedHandler answers 405 with a JSON detail naming the method.
// chi has already set the Allow header.
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	_ = WriteJSON(w, http.StatusMethodNotAllowed, Detail{
		Detail: fmt.Sprintf("Method %q not allowed.", r.Method),
	})
}
