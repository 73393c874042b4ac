// Package proxy holds the gateway's static route table and the composition
// of outbound requests to the upstream API.
package proxy

import "net/http"

// Access says how the gateway treats a matched route.
type Access int

const (
	// Local routes are answered by the gateway itself.
	Local Access = iota
	// Public routes are forwarded without the upstream credential.
	Public
	// Authenticated routes are forwarded with the shared bearer credential.
	Authenticated
)

func (a Access) String() string {
	switch a {
	case Local:
		return "local"
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Route is one (method, path) entry. Paths match exactly; there are no
// wildcards or prefixes.
type Route struct {
	Method string
	Path   string
	Access Access
}

// RequiresAuth reports whether the upstream credential is attached.
func (r Route) RequiresAuth() bool { return r.Access == Authenticated }

// Routes is the complete route table.
var Routes = []Route{
	{http.MethodGet, "/", Local},
	{http.MethodGet, "/health", Local},
	{http.MethodGet, "/api/health", Local},
	{http.MethodGet, "/api/metrics/system", Local},
	{http.MethodGet, "/metrics", Local},

	{http.MethodGet, "/api/v1/info", Public},

	{http.MethodPost, "/api/v1/analyze", Authenticated},
	{http.MethodPost, "/api/analyze", Authenticated},
	{http.MethodPost, "/api/v1/historical", Authenticated},
	{http.MethodPost, "/api/v1/indicators", Authenticated},
	{http.MethodPost, "/api/v1/compare", Authenticated},
	{http.MethodGet, "/api/v1/providers/status", Authenticated},
	{http.MethodGet, "/api/v1/metrics/system", Authenticated},
	{http.MethodGet, "/api/v1/metrics/reconciliation", Authenticated},
	{http.MethodGet, "/api/v1/metrics/data_quality", Authenticated},
	{http.MethodGet, "/api/timeframes/config", Authenticated},
	{http.MethodGet, "/api/v1/timeframes/config", Authenticated},
}

// Classify looks up the route for method and path.
func Classify(method, path string) (Route, bool) {
	for _, r := range Routes {
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Forwarded returns the routes that are proxied to the upstream.
func Forwarded() []Route {
	var out []Route
	for _, r := range Routes {
		if r.Access != Local {
			out = append(out, r)
		}
	}
	return out
}
