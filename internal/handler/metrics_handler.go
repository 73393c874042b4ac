package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/suar-net/ghost-gateway/internal/model"
)

const (
	upstreamMetricsPath    = "/api/v1/metrics/system"
	upstreamMetricsTimeout = 5 * time.Second
)

// GatewayMetricsSource computes the gateway's own metrics block.
type GatewayMetricsSource interface {
	GatewaySnapshot(now time.Time) model.GatewayMetrics
}

// MetricsHandler merges the gateway's metrics with the upstream's.
type MetricsHandler struct {
	upstream UpstreamProber
	gateway  GatewayMetricsSource
	logger   *slog.Logger
	now      func() time.Time
}

func NewMetricsHandler(upstream UpstreamProber, gateway GatewayMetricsSource, logger *slog.Logger) *MetricsHandler {
	return &MetricsHandler{
		upstream: upstream,
		gateway:  gateway,
		logger:   logger,
		now:      time.Now,
	}
}

// System always answers 200. Any upstream failure downgrades the status to
// "partial" and leaves external_api_metrics null.
func (h *MetricsHandler) System(w http.ResponseWriter, r *http.Request) {
	traceID := TraceIDFromContext(r.Context())
	now := h.now()

	env := model.MetricsEnvelope{
		Status:         model.MetricsPartial,
		GatewayMetrics: h.gateway.GatewaySnapshot(now),
		Timestamp:      now.UTC(),
		TraceID:        traceID,
	}

	res, err := h.upstream.Probe(r.Context(), upstreamMetricsPath, upstreamMetricsTimeout)
	switch {
	case err != nil:
		h.logger.Error("system metrics request failed", "trace_id", traceID, "error", err)
		env.Error = fmt.Sprintf("Failed to connect to external API: %v", err)

	case res.StatusCode < 200 || res.StatusCode > 299:
		h.logger.Warn("metrics endpoint returned error status", "trace_id", traceID, "status", res.StatusCode)
		env.Error = "External API returned status: " + statusLine(res.StatusCode)

	default:
		var compact bytes.Buffer
		if err := json.Compact(&compact, res.Body); err != nil {
			h.logger.Error("failed to parse metrics response", "trace_id", traceID, "error", err)
			env.Error = fmt.Sprintf("Failed to parse external metrics: %v", err)
			break
		}
		env.Status = model.MetricsSuccess
		env.ExternalAPIMetrics = compact.Bytes()
	}

	respondWithJSON(w, http.StatusOK, env)
}
