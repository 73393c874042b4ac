// Package metrics records the gateway's own request and upstream metrics in
// Prometheus collectors and computes the gateway block reported by
// /api/metrics/system.
package metrics

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suar-net/ghost-gateway/internal/model"
)

const defaultNamespace = "ghost_gateway"

// Collector owns the gateway's Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	inFlight         prometheus.Gauge

	active    atomic.Int64
	startedAt time.Time
}

// NewCollector registers the gateway collectors, plus the Go runtime and
// process collectors, on registry. A nil registry gets a fresh one.
func NewCollector(registry *prometheus.Registry, startedAt time.Time) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry:  registry,
		startedAt: startedAt,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: defaultNamespace,
				Name:      "requests_total",
				Help:      "Inbound requests by route pattern, method and status code",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: defaultNamespace,
				Name:      "request_duration_seconds",
				Help:      "Inbound request latency",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"route", "method"},
		),
		upstreamTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: defaultNamespace,
				Name:      "upstream_requests_total",
				Help:      "Outbound upstream calls by path and outcome",
			},
			[]string{"path", "outcome"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: defaultNamespace,
				Name:      "upstream_duration_seconds",
				Help:      "Outbound upstream call latency",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"path"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: defaultNamespace,
			Name:      "requests_in_flight",
			Help:      "Inbound requests currently being served",
		}),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.upstreamTotal,
		c.upstreamDuration,
		c.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the Prometheus exposition format for the registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RequestStarted marks one more inbound request in flight.
func (c *Collector) RequestStarted() {
	c.active.Add(1)
	c.inFlight.Inc()
}

// RequestFinished records a completed inbound request.
func (c *Collector) RequestFinished(route, method string, status int, d time.Duration) {
	c.active.Add(-1)
	c.inFlight.Dec()
	if route == "" {
		route = "unmatched"
	}
	c.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// UpstreamRequest records one outbound call. outcome is the HTTP status code
// as text, or a transport failure cause.
func (c *Collector) UpstreamRequest(path, outcome string, d time.Duration) {
	c.upstreamTotal.WithLabelValues(path, outcome).Inc()
	c.upstreamDuration.WithLabelValues(path).Observe(d.Seconds())
}

// ActiveConnections is the number of inbound requests in flight.
func (c *Collector) ActiveConnections() uint32 {
	n := c.active.Load()
	if n < 0 {
		return 0
	}
	return uint32(n)
}

// Uptime is the whole seconds elapsed since the process start time.
func Uptime(startedAt, now time.Time) uint64 {
	d := now.Sub(startedAt)
	if d < 0 {
		return 0
	}
	return uint64(d / time.Second)
}

// GatewaySnapshot computes the gateway block of the system metrics envelope.
func (c *Collector) GatewaySnapshot(now time.Time) model.GatewayMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	var headroom uint64
	if ms.Sys > ms.Alloc {
		headroom = ms.Sys - ms.Alloc
	}

	return model.GatewayMetrics{
		Memory: model.MemoryMetrics{
			UsedMB:      ms.Alloc >> 20,
			AvailableMB: headroom >> 20,
		},
		// TODO: sample process CPU time between snapshots to fill UsagePercent.
		CPU:               model.CPUMetrics{UsagePercent: 0},
		UptimeSecs:        Uptime(c.startedAt, now),
		ActiveConnections: c.ActiveConnections(),
	}
}
