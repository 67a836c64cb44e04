package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type traceKey struct{}

// TraceMiddleware generates or extracts the X-Trace-Id for a request and
// echoes it back in the response headers.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-Id")
		if traceID == "" {
			traceID = uuid.New().String()
		}

		w.Header().Set("X-Trace-Id", traceID)

		ctx := context.WithValue(r.Context(), traceKey{}, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetTraceID(r *http.Request) string {
	if traceID, ok := r.Context().Value(traceKey{}).(string); ok {
		return traceID
	}
	return ""
}
