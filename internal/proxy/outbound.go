package proxy

import (
	"net/http"
	"time"
)

// OutboundRequest represents a request to be sent to the upstream API.
type OutboundRequest struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
	Timeout time.Duration
}

// Target is the upstream the gateway forwards to.
type Target struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewOutboundRequest composes the upstream request for one inbound call.
//
// The URL is the base concatenated with the inbound path and raw query, with
// no normalisation. Inbound headers are not copied: the only headers set are
// Authorization (when requireAuth) and Content-Type for POST.
func (t Target) NewOutboundRequest(method, pathAndQuery string, body []byte, requireAuth bool) *OutboundRequest {
	headers := make(http.Header)
	if requireAuth {
		headers.Set("Authorization", "Bearer "+t.APIKey)
	}
	if method == http.MethodPost {
		headers.Set("Content-Type", "application/json")
	}

	return &OutboundRequest{
		Method:  method,
		URL:     t.BaseURL + pathAndQuery,
		Headers: headers,
		Body:    body,
		Timeout: t.Timeout,
	}
}

// PathAndQuery renders the request-URI the way it arrived, minus scheme and host.
func PathAndQuery(r *http.Request) string {
	p := r.URL.EscapedPath()
	if p == "" {
		p = "/"
	}
	if r.URL.RawQuery != "" {
		p += "?" + r.URL.RawQuery
	}
	return p
}
