package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		method string
		path   string
		found  bool
		access Access
	}{
		{http.MethodGet, "/", true, Local},
		{http.MethodGet, "/health", true, Local},
		{http.MethodGet, "/api/v1/info", true, Public},
		{http.MethodPost, "/api/v1/analyze", true, Authenticated},
		{http.MethodPost, "/api/analyze", true, Authenticated},
		{http.MethodGet, "/api/v1/timeframes/config", true, Authenticated},
		{http.MethodGet, "/api/v1/analyze", false, Local},
		{http.MethodGet, "/api/v1/info/", false, Local},
		{http.MethodGet, "/api/v1", false, Local},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			is := is.New(t)
			r, ok := Classify(tt.method, tt.path)
			is.Equal(ok, tt.found)
			if ok {
				is.Equal(r.Access, tt.access)
			}
		})
	}
}

func TestRoutesAreUnique(t *testing.T) {
	is := is.New(t)
	seen := map[string]bool{}
	for _, r := range Routes {
		key := r.Method + " " + r.Path
		is.True(!seen[key]) // duplicate route
		seen[key] = true
	}
}

func TestForwarded_ExcludesLocal(t *testing.T) {
	is := is.New(t)
	for _, r := range Forwarded() {
		is.True(r.Access != Local)
	}
	is.True(len(Forwarded()) > 0)
}

func TestNewOutboundRequest(t *testing.T) {
	target := Target{BaseURL: "http://up.local", APIKey: "k1", Timeout: time.Second}

	t.Run("authenticated post", func(t *testing.T) {
		is := is.New(t)
		out := target.NewOutboundRequest(http.MethodPost, "/api/v1/analyze?x=1", []byte(`{}`), true)
		is.Equal(out.URL, "http://up.local/api/v1/analyze?x=1")
		is.Equal(out.Headers.Values("Authorization"), []string{"Bearer k1"})
		is.Equal(out.Headers.Get("Content-Type"), "application/json")
		is.Equal(out.Timeout, time.Second)
	})

	t.Run("public get", func(t *testing.T) {
		is := is.New(t)
		out := target.NewOutboundRequest(http.MethodGet, "/api/v1/info", nil, false)
		is.Equal(len(out.Headers.Values("Authorization")), 0)
		is.Equal(out.Headers.Get("Content-Type"), "")
	})
}

func TestPathAndQuery(t *testing.T) {
	is := is.New(t)
	r := httptest.NewRequest(http.MethodGet, "/api/v1/metrics/system?window=5m&a=%20b", nil)
	is.Equal(PathAndQuery(r), "/api/v1/metrics/system?window=5m&a=%20b")
}
