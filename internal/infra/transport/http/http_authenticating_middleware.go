package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mkrupp/recipe-api/internal/domain"
	context_ "github.com/mkrupp/recipe-api/internal/infra/context"
	"github.com/mkrupp/recipe-api/internal/infra/logging"
	"github.com/mkrupp/recipe-api/internal/svc/usersvc/authclient"
)

// ParseAuthorization extracts the token key from an Authorization header.
// Both "Bearer <key>" and "Token <key>" are accepted, case-insensitively.
func ParseAuthorization(header string) (string, error) {
	scheme, key, _ := strings.Cut(strings.TrimSpace(header), " ")
	if scheme == "" {
		return "", domain.ErrNoAuthToken
	}

	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", domain.ErrNoAuthToken
	}

	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", errors.Join(domain.ErrNotAuthenticated, domain.ErrInvalidAuthToken)
	}

	return key, nil
}

// AuthenticatingMiddleware rejects requests without a resolvable bearer token
// with 401. The resolved account is stored in the request context.
func AuthenticatingMiddleware(authClient authclient.AuthClient, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := ParseAuthorization(r.Header.Get("Authorization"))
			if err != nil {
				log.DebugContext(r.Context(), "no usable token", "error", err)
				WriteError(w, r, err)

				return
			}

			acc, err := authClient.Resolve(r.Context(), key)
			if err != nil {
				if errors.Is(err, domain.ErrNotAuthenticated) {
					log.DebugContext(r.Context(), "token rejected", "error", err)
				} else {
					log.ErrorContext(r.Context(), "resolve token failed", "error", err)
				}

				WriteError(w, r, err)

				return
			}

			next.ServeHTTP(w, r.WithContext(context_.WithAccount(r.Context(), acc)))
		})
	}
}
