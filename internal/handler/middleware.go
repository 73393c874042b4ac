package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/suar-net/ghost-gateway/internal/config"
	"github.com/suar-net/ghost-gateway/internal/model"
)

// RequestRecorder is the slice of the metrics collector the middleware uses.
type RequestRecorder interface {
	RequestStarted()
	RequestFinished(route, method string, status int, d time.Duration)
}

// SecurityHeaders sets the fixed hardening headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// CORS builds the CORS layer from the configured origin allow-list. A "*"
// entry allows every origin.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if cfg.AllowsAnyOrigin() {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         3600,
	})
}

// LimitRequestSize rejects bodies over max bytes with 413. A declared
// Content-Length over the limit is refused before reading; undeclared
// bodies are capped with http.MaxBytesReader and fail when read past max.
func LimitRequestSize(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > max {
				respondWithError(w, http.StatusRequestEntityTooLarge, model.CodePayloadTooLarge,
					fmt.Sprintf("request body exceeds %d bytes", max), TraceIDFromContext(r.Context()))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs the start and completion of each request. Non-2xx/3xx
// completions are logged at warn.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := TraceIDFromContext(r.Context())
			start := time.Now()
			logger.Info("request started", "method", r.Method, "uri", r.RequestURI, "trace_id", traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			msg := "request completed successfully"
			if status >= http.StatusBadRequest {
				level = slog.LevelWarn
				msg = "request completed with error status"
			}
			logger.Log(r.Context(), level, msg,
				"method", r.Method,
				"uri", r.RequestURI,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"trace_id", traceID,
			)
		})
	}
}

// Instrument records request counts, latency and in-flight requests,
// labelled by chi route pattern.
func Instrument(rec RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec.RequestStarted()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				var pattern string
				if rctx := chi.RouteContext(r.Context()); rctx != nil {
					pattern = rctx.RoutePattern()
				}
				rec.RequestFinished(pattern, r.Method, status, time.Since(start))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
