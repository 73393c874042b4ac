package model

import (
	"encoding/json"
	"time"
)

// Error codes carried in ErrorBody.Code.
const (
	CodeUpstreamTimeout = "UPSTREAM_TIMEOUT"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeBadRequest      = "BAD_REQUEST"
)

// ErrorEnvelope is the body of every gateway-synthesized error:
// {"error":{"code":...,"message":...,"trace_id":...}}.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id"`
}

// LocalHealth is returned by GET /health. It never consults the upstream.
type LocalHealth struct {
	Status     string    `json:"status"`
	Service    string    `json:"service"`
	Version    string    `json:"version"`
	Timestamp  time.Time `json:"timestamp"`
	UptimeSecs uint64    `json:"uptime_secs"`
}

// GatewayStatus is the gateway's view of itself inside composite envelopes.
type GatewayStatus struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	UptimeSecs uint64 `json:"uptime_secs"`
}

// ExternalAPIStatus describes upstream reachability. Which optional fields are
// set depends on the outcome: response time when available, HTTP status when
// the upstream answered non-2xx, error text when it could not be reached.
type ExternalAPIStatus struct {
	Status         string `json:"status"`
	ResponseTimeMs *int64 `json:"response_time_ms,omitempty"`
	HTTPStatus     int    `json:"http_status,omitempty"`
	Error          string `json:"error,omitempty"`
}

// HealthEnvelope is returned by GET /api/health.
type HealthEnvelope struct {
	Status      string            `json:"status"`
	Gateway     GatewayStatus     `json:"gateway"`
	ExternalAPI ExternalAPIStatus `json:"external_api"`
	Error       string            `json:"error,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	TraceID     string            `json:"trace_id"`
}

// Health statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"

	ExternalAvailable   = "available"
	ExternalError       = "error"
	ExternalUnavailable = "unavailable"

	MetricsSuccess = "success"
	MetricsPartial = "partial"
)

// MemoryMetrics describes the gateway process only. AvailableMB is runtime
// headroom: memory the Go runtime has obtained from the OS but not allocated
// to live objects. It says nothing about free memory on the host.
type MemoryMetrics struct {
	UsedMB      uint64 `json:"used_mb"`
	AvailableMB uint64 `json:"available_mb"`
}

type CPUMetrics struct {
	UsagePercent float64 `json:"usage_percent"`
}

// GatewayMetrics is the locally computed block of the metrics envelope.
type GatewayMetrics struct {
	Memory            MemoryMetrics `json:"memory"`
	CPU               CPUMetrics    `json:"cpu"`
	UptimeSecs        uint64        `json:"uptime_secs"`
	ActiveConnections uint32        `json:"active_connections"`
}

// MetricsEnvelope is returned by GET /api/metrics/system. ExternalAPIMetrics
// holds the upstream payload verbatim, or JSON null on partial failure.
type MetricsEnvelope struct {
	Status             string          `json:"status"`
	GatewayMetrics     GatewayMetrics  `json:"gateway_metrics"`
	ExternalAPIMetrics json.RawMessage `json:"external_api_metrics"`
	Error              string          `json:"error,omitempty"`
	Timestamp          time.Time       `json:"timestamp"`
	TraceID            string          `json:"trace_id"`
}
