package http

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/mkrupp/recipe-api/internal/infra/logging"
)

// ErrPanic marks errors recovered from a handler panic.
var ErrPanic = errors.New("handler panic")

// RescueingMiddleware recovers from panics in HTTP handlers, logs the stack
// and answers 500 with the usual JSON error body.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func RescueingMiddleware(next http.Handler, log logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			} else if p == http.ErrAbortHandler { //nolint:errorlint,err113
				panic(p)
			}

			log.ErrorContext(r.Context(), "request panic", logging.Group("http",
				"uri", r.RequestURI,
				"method", r.Method,
			), logging.Group("error",
				"panic", p,
				"stack", string(debug.Stack()),
			))

			WriteError(w, r, fmt.Errorf("%w: %v", ErrPanic, p))
		}()

		next.ServeHTTP(w, r)
	})
}
