package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/suar-net/ghost-gateway/internal/metrics"
	"github.com/suar-net/ghost-gateway/internal/model"
	"github.com/suar-net/ghost-gateway/internal/service"
)

const (
	serviceName = "ghost-dashboard-gateway"

	upstreamHealthPath    = "/health"
	upstreamHealthTimeout = 10 * time.Second
)

// UpstreamProber performs credentialed GETs against fixed upstream paths.
type UpstreamProber interface {
	Probe(ctx context.Context, path string, timeout time.Duration) (*service.ProxyResult, error)
}

// HealthHandler answers the gateway's own and the upstream's health.
type HealthHandler struct {
	upstream  UpstreamProber
	logger    *slog.Logger
	version   string
	startedAt time.Time
	now       func() time.Time
}

func NewHealthHandler(upstream UpstreamProber, logger *slog.Logger, version string, startedAt time.Time) *HealthHandler {
	return &HealthHandler{
		upstream:  upstream,
		logger:    logger,
		version:   version,
		startedAt: startedAt,
		now:       time.Now,
	}
}

// Local reports the gateway as healthy. It never contacts the upstream.
func (h *HealthHandler) Local(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	respondWithJSON(w, http.StatusOK, model.LocalHealth{
		Status:     model.StatusHealthy,
		Service:    serviceName,
		Version:    h.version,
		Timestamp:  now.UTC(),
		UptimeSecs: metrics.Uptime(h.startedAt, now),
	})
}

// Upstream checks the upstream's /health: 200 when it answers 2xx, 503 when
// it answers anything else (degraded) or cannot be reached (unhealthy).
func (h *HealthHandler) Upstream(w http.ResponseWriter, r *http.Request) {
	traceID := TraceIDFromContext(r.Context())
	now := h.now()

	env := model.HealthEnvelope{
		Gateway: model.GatewayStatus{
			Status:     model.StatusHealthy,
			Version:    h.version,
			UptimeSecs: metrics.Uptime(h.startedAt, now),
		},
		Timestamp: now.UTC(),
		TraceID:   traceID,
	}

	res, err := h.upstream.Probe(r.Context(), upstreamHealthPath, upstreamHealthTimeout)
	switch {
	case err != nil:
		h.logger.Error("upstream health check failed", "trace_id", traceID, "error", err)
		env.Status = model.StatusUnhealthy
		env.ExternalAPI = model.ExternalAPIStatus{Status: model.ExternalUnavailable, Error: err.Error()}
		env.Error = fmt.Sprintf("Failed to connect to external API: %v", err)
		respondWithJSON(w, http.StatusServiceUnavailable, env)

	case res.StatusCode < 200 || res.StatusCode > 299:
		h.logger.Warn("upstream health returned error status", "trace_id", traceID, "status", res.StatusCode)
		env.Status = model.StatusDegraded
		env.ExternalAPI = model.ExternalAPIStatus{Status: model.ExternalError, HTTPStatus: res.StatusCode}
		env.Error = "External API returned status: " + statusLine(res.StatusCode)
		respondWithJSON(w, http.StatusServiceUnavailable, env)

	default:
		h.logger.Info("upstream health check successful", "trace_id", traceID)
		ms := res.Duration.Milliseconds()
		env.Status = model.StatusHealthy
		env.ExternalAPI = model.ExternalAPIStatus{Status: model.ExternalAvailable, ResponseTimeMs: &ms}
		respondWithJSON(w, http.StatusOK, env)
	}
}

func statusLine(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprint(code)
}
