package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/suar-net/ghost-gateway/internal/proxy"
)

// maxLoggedBody caps how much of a request or response body is written to
// debug logs.
const maxLoggedBody = 4 * 1024

// Transport failure causes, used in logs and metric labels.
const (
	CauseTimeout           = "timeout"
	CauseConnectionRefused = "connection_refused"
	CauseDNS               = "dns"
	CauseCanceled          = "canceled"
	CauseOther             = "other"
)

// Observer receives one call per outbound upstream request.
type Observer interface {
	UpstreamRequest(path, outcome string, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) UpstreamRequest(string, string, time.Duration) {}

// ProxyRequest is one inbound call to be relayed.
type ProxyRequest struct {
	TraceID      string
	Method       string
	PathAndQuery string
	Body         []byte
	RequireAuth  bool
}

// ProxyResult is the upstream's answer, relayed without modification.
type ProxyResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
	Duration    time.Duration
}

// TransportError wraps an upstream transport failure with its cause.
type TransportError struct {
	Cause string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Cause, e.Err)
}

func (e *TransportError) Unwrap() []error {
	if e.Cause == CauseTimeout {
		return []error{ErrUpstreamTimeout, e.Err}
	}
	return []error{ErrUpstreamUnavailable, e.Err}
}

// UpstreamService forwards requests to the single upstream API through one
// shared http.Client.
type UpstreamService struct {
	httpClient *http.Client
	target     proxy.Target
	logger     *slog.Logger
	observer   Observer
}

// NewUpstreamService builds the service with a pooled transport. observer
// may be nil.
func NewUpstreamService(target proxy.Target, logger *slog.Logger, observer Observer) *UpstreamService {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return NewUpstreamServiceWithClient(target, &http.Client{Transport: transport}, logger, observer)
}

// NewUpstreamServiceWithClient is NewUpstreamService with a caller-supplied client.
func NewUpstreamServiceWithClient(target proxy.Target, client *http.Client, logger *slog.Logger, observer Observer) *UpstreamService {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UpstreamService{
		httpClient: client,
		target:     target,
		logger:     logger,
		observer:   observer,
	}
}

// Forward relays req to the upstream under the configured timeout. The call is
// bound to ctx, so cancelling the inbound request cancels it. A transport
// failure is returned as a *TransportError; any HTTP status, 2xx or not, is a
// successful relay.
func (s *UpstreamService) Forward(ctx context.Context, req ProxyRequest) (*ProxyResult, error) {
	outbound := s.target.NewOutboundRequest(req.Method, req.PathAndQuery, req.Body, req.RequireAuth)

	s.logger.Info("proxy request",
		"trace_id", req.TraceID,
		"method", req.Method,
		"path", req.PathAndQuery,
		"target", outbound.URL,
		"auth", req.RequireAuth,
	)
	if s.logger.Enabled(ctx, slog.LevelDebug) && len(req.Body) > 0 {
		s.logger.Debug("proxy request body", "trace_id", req.TraceID, "body", capped(req.Body))
	}

	result, err := s.Execute(ctx, outbound)
	if err != nil {
		var te *TransportError
		cause := CauseOther
		if errors.As(err, &te) {
			cause = te.Cause
		}
		s.logger.Error("upstream error",
			"trace_id", req.TraceID,
			"target", outbound.URL,
			"cause", cause,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("proxy response",
		"trace_id", req.TraceID,
		"status", result.StatusCode,
		"bytes", len(result.Body),
		"duration_ms", result.Duration.Milliseconds(),
	)
	if s.logger.Enabled(ctx, slog.LevelDebug) {
		s.logger.Debug("proxy response body", "trace_id", req.TraceID, "body", capped(result.Body))
	}

	return result, nil
}

// Probe performs a credentialed GET against a fixed upstream path with its own
// timeout, independent of the configured request timeout.
func (s *UpstreamService) Probe(ctx context.Context, path string, timeout time.Duration) (*ProxyResult, error) {
	outbound := s.target.NewOutboundRequest(http.MethodGet, path, nil, true)
	outbound.Timeout = timeout
	return s.Execute(ctx, outbound)
}

// Execute sends one outbound request and reads the whole response body.
func (s *UpstreamService) Execute(ctx context.Context, outboundRequest *proxy.OutboundRequest) (*ProxyResult, error) {
	startTime := time.Now()
	path := pathOf(outboundRequest.URL, s.target.BaseURL)

	reqCtx, cancel := context.WithTimeout(ctx, outboundRequest.Timeout)
	defer cancel()

	var bodyReader io.Reader
	if len(outboundRequest.Body) > 0 {
		bodyReader = bytes.NewReader(outboundRequest.Body)
	}

	httpRequest, err := http.NewRequestWithContext(
		reqCtx,
		outboundRequest.Method,
		outboundRequest.URL,
		bodyReader,
	)
	if err != nil {
		s.observer.UpstreamRequest(path, CauseOther, time.Since(startTime))
		return nil, &TransportError{Cause: CauseOther, Err: fmt.Errorf("failed to create http request: %w", err)}
	}
	httpRequest.Header = outboundRequest.Headers

	httpResponse, err := s.httpClient.Do(httpRequest)
	if err != nil {
		cause := transportCause(err)
		s.observer.UpstreamRequest(path, cause, time.Since(startTime))
		return nil, &TransportError{Cause: cause, Err: err}
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	duration := time.Since(startTime)
	if err != nil {
		cause := transportCause(err)
		s.observer.UpstreamRequest(path, cause, duration)
		return nil, &TransportError{Cause: cause, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	s.observer.UpstreamRequest(path, strconv.Itoa(httpResponse.StatusCode), duration)

	return &ProxyResult{
		StatusCode:  httpResponse.StatusCode,
		ContentType: httpResponse.Header.Get("Content-Type"),
		Body:        body,
		Duration:    duration,
	}, nil
}

// transportCause sorts a client error into one of the Cause constants.
func transportCause(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return CauseTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CauseTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CauseDNS
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return CauseConnectionRefused
	}
	if errors.Is(err, context.Canceled) {
		return CauseCanceled
	}
	return CauseOther
}

// pathOf strips the base URL and query so metric labels stay bounded.
func pathOf(url, base string) string {
	p, _, _ := strings.Cut(strings.TrimPrefix(url, base), "?")
	if p == "" {
		return "/"
	}
	return p
}

func capped(b []byte) string {
	if len(b) <= maxLoggedBody {
		return string(b)
	}
	return string(b[:maxLoggedBody]) + "...(truncated)"
}
