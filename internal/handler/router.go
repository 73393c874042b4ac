package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/suar-net/ghost-gateway/internal/config"
	"github.com/suar-net/ghost-gateway/internal/proxy"
)

const banner = "Ghost Dashboard API"

// Upstream is everything the handlers need from the upstream service.
type Upstream interface {
	UpstreamForwarder
	UpstreamProber
}

// Metrics is everything the handlers need from the metrics collector.
type Metrics interface {
	RequestRecorder
	GatewayMetricsSource
	Handler() http.Handler
}

// Dependencies are shared, read-only values handed to every handler.
type Dependencies struct {
	Config    *config.Config
	Upstream  Upstream
	Metrics   Metrics
	Logger    *slog.Logger
	Version   string
	StartedAt time.Time
}

// SetupRouter creates the main Chi router for the gateway. Every entry of
// proxy.Routes is registered; local routes must have a handler here.
func SetupRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(TraceID)
	r.Use(RequestLogger(deps.Logger))
	r.Use(Instrument(deps.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(CORS(deps.Config.CORS))
	r.Use(LimitRequestSize(deps.Config.Server.MaxRequestSize))

	healthHandler := NewHealthHandler(deps.Upstream, deps.Logger, deps.Version, deps.StartedAt)
	metricsHandler := NewMetricsHandler(deps.Upstream, deps.Metrics, deps.Logger)
	httpProxyHandler := NewHTTPProxyHandler(deps.Upstream, deps.Logger)

	local := map[string]http.Handler{
		"/":                   http.HandlerFunc(serveBanner),
		"/health":             http.HandlerFunc(healthHandler.Local),
		"/api/health":         http.HandlerFunc(healthHandler.Upstream),
		"/api/metrics/system": http.HandlerFunc(metricsHandler.System),
		"/metrics":            deps.Metrics.Handler(),
	}

	for _, route := range proxy.Routes {
		if route.Access != proxy.Local {
			r.Method(route.Method, route.Path, httpProxyHandler.Route(route))
			continue
		}
		h, ok := local[route.Path]
		if !ok {
			panic(fmt.Sprintf("no local handler for %s %s", route.Method, route.Path))
		}
		r.Method(route.Method, route.Path, h)
	}

	return r
}

func serveBanner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(banner))
}
