package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const traceIDContextKey = contextKey("trace_id")

// TraceIDHeader carries the per-request trace id on every response.
const TraceIDHeader = "X-Trace-Id"

// TraceID assigns a fresh random trace id to each inbound request, stores it
// in the request context and echoes it in the X-Trace-Id response header.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(TraceIDHeader, id)
		ctx := context.WithValue(r.Context(), traceIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TraceIDFromContext returns the request's trace id, or a new one when the
// TraceID middleware did not run.
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDContextKey).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
