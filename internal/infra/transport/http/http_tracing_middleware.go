package http

import (
	"net/http"

	"github.com/google/uuid"

	context_ "github.com/mkrupp/recipe-api/internal/infra/context"
	"github.com/mkrupp/recipe-api/internal/util/encoding"
)

// TraceIDHeader carries the request trace ID in both directions.
const TraceIDHeader = "X-Request-ID"

const maxTraceIDLength = 128

// TracingMiddleware stores a trace ID in the request context and echoes it
// in the response. A client-supplied X-Request-ID is kept, otherwise a UUIDv7
// is generated.
func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := getTraceID(r)
		if traceID != "" {
			w.Header().Set(TraceIDHeader, traceID)
		}

		ctx := context_.WithTraceID(r.Context(), traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getTraceID(r *http.Request) string {
	if traceID := r.Header.Get(TraceIDHeader); traceID != "" && len(traceID) <= maxTraceIDLength {
		return traceID
	}

	id, err := uuid.NewV7()
	if err != nil {
		return ""
	}

	return encoding.EncodeCrockfordB32LC(id[:])
}
