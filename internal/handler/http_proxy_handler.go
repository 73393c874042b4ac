package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/suar-net/ghost-gateway/internal/model"
	"github.com/suar-net/ghost-gateway/internal/proxy"
	"github.com/suar-net/ghost-gateway/internal/service"
)

// UpstreamForwarder relays one request to the upstream API.
type UpstreamForwarder interface {
	Forward(ctx context.Context, req service.ProxyRequest) (*service.ProxyResult, error)
}

// HTTPProxyHandler serves every route of the table that is forwarded upstream.
type HTTPProxyHandler struct {
	service UpstreamForwarder
	logger  *slog.Logger
}

// NewHTTPProxyHandler is the constructor for HTTPProxyHandler.
func NewHTTPProxyHandler(s UpstreamForwarder, l *slog.Logger) *HTTPProxyHandler {
	return &HTTPProxyHandler{
		service: s,
		logger:  l,
	}
}

// Route returns the handler for one forwarded route. Upstream status and body
// are relayed byte for byte; a transport failure becomes a 502 envelope.
func (h *HTTPProxyHandler) Route(route proxy.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceID := TraceIDFromContext(r.Context())

		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				respondWithError(w, http.StatusRequestEntityTooLarge, model.CodePayloadTooLarge,
					fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), traceID)
				return
			}
			h.logger.Warn("failed to read request body", "trace_id", traceID, "error", err)
			respondWithError(w, http.StatusBadRequest, model.CodeBadRequest, "failed to read request body", traceID)
			return
		}

		result, err := h.service.Forward(r.Context(), service.ProxyRequest{
			TraceID:      traceID,
			Method:       r.Method,
			PathAndQuery: proxy.PathAndQuery(r),
			Body:         body,
			RequireAuth:  route.RequiresAuth(),
		})
		if err != nil {
			respondWithError(w, http.StatusBadGateway, model.CodeUpstreamTimeout, upstreamUnavailableMessage, traceID)
			return
		}

		if result.ContentType != "" {
			w.Header().Set("Content-Type", result.ContentType)
		}
		w.WriteHeader(result.StatusCode)
		_, _ = w.Write(result.Body)
	}
}
