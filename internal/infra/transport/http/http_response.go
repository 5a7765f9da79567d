package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mkrupp/recipe-api/internal/domain"
)

const maxRequestBodySize = 1 << 20

var (
	// ErrMalformedBody is returned when a request body is not valid JSON.
	ErrMalformedBody = errors.New("malformed request body")
	// ErrRateLimited is returned when a client exceeded its request budget.
	ErrRateLimited = errors.New("request was throttled")
	// ErrNotFound is returned for unknown routes.
	ErrNotFound = errors.New("not found")
)

// Detail is the body of errors that do not belong to a field.
type Detail struct {
	Detail string `json:"detail"`
}

// DecodeJSON reads a JSON object from the request body into dst.
// Unknown fields are ignored and an empty body decodes as an empty object.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize))

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}

		return errors.Join(ErrMalformedBody, err)
	}

	return nil
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return nil
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

// ErrorStatus maps err to the HTTP status it is reported with.
func ErrorStatus(err error) int {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr), errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, ErrMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoAuthToken),
		errors.Is(err, domain.ErrInvalidAuthToken),
		errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) any {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		return verr.Fields
	case errors.Is(err, domain.ErrInvalidCredentials):
		return map[string][]string{
			domain.NonFieldErrorsKey: {"Unable to log in with provided credentials."},
		}
	case errors.Is(err, ErrMalformedBody):
		return Detail{Detail: ErrMalformedBody.Error()}
	case errors.Is(err, domain.ErrNoAuthToken):
		return Detail{Detail: "Authentication credentials were not provided."}
	case errors.Is(err, domain.ErrInvalidAuthToken), errors.Is(err, domain.ErrNotAuthenticated):
		return Detail{Detail: "Invalid token."}
	case errors.Is(err, ErrNotFound):
		return Detail{Detail: "Not found."}
	case errors.Is(err, ErrRateLimited):
		return Detail{Detail: "Request was throttled."}
	default:
		return Detail{Detail: "internal server error"}
	}
}

// WriteError writes the JSON error response for err. Internal details of
// unexpected errors are never sent to the client.
func WriteError(w http.ResponseWriter, _ *http.Request, err error) {
	status := ErrorStatus(err)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	}

	_ = WriteJSON(w, status, errorBody(err))
}
