// Package dashboard is a client for the Ghost dashboard. It talks either to
// the gateway, which injects credentials, or straight to the inBestia API.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/suar-net/ghost-gateway/internal/model"
	"github.com/suar-net/ghost-gateway/internal/proxy"
	"github.com/suar-net/ghost-gateway/internal/service"
	"github.com/suar-net/ghost-gateway/internal/timeframe"
	"github.com/suar-net/ghost-gateway/internal/validation"
)

// Mode selects who the client talks to.
type Mode string

const (
	ModeGateway Mode = "gateway"
	ModeDirect  Mode = "direct"
)

const (
	infoPath          = "/api/v1/info"
	gatewayHealthPath = "/api/health"
	directHealthPath  = "/health"
	gatewayMetrics    = "/api/metrics/system"
	directMetrics     = "/api/v1/metrics/system"
	providersPath     = "/api/v1/providers/status"
	analyzePath       = "/api/v1/analyze"
	timeframesPath    = "/api/v1/timeframes/config"

	// healthyMarker is the phrase the upstream's plain-text /health carries
	// when it is up.
	healthyMarker = "funcionando correctamente"

	defaultTimeout     = 30 * time.Second
	defaultConcurrency = 3
)

// ParseMode converts a flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeGateway, ModeDirect:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (want gateway or direct)", ErrInvalidMode, s)
	}
}

// Options configures a Client. GatewayURL is used in gateway mode; APIURL and
// APIKey in direct mode.
type Options struct {
	Mode        Mode          `validate:"oneof=gateway direct"`
	GatewayURL  string        `validate:"required_if=Mode gateway,omitempty,httpurl"`
	APIURL      string        `validate:"required_if=Mode direct,omitempty,httpurl"`
	APIKey      string        `validate:"required_if=Mode direct"`
	Timeout     time.Duration `validate:"gte=0"`
	Concurrency int           `validate:"gte=0"`
	Logger      *slog.Logger
}

// Client fetches and decodes dashboard data.
type Client struct {
	mode        Mode
	upstream    *service.UpstreamService
	logger      *slog.Logger
	concurrency int
}

func New(opts Options) (*Client, error) {
	if err := validation.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid dashboard options: %w", err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	concurrency := opts.Concurrency
	if concurrency == 0 {
		concurrency = defaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// The gateway holds the credential itself; only direct mode sends one.
	target := proxy.Target{BaseURL: opts.GatewayURL, Timeout: timeout}
	if opts.Mode == ModeDirect {
		target = proxy.Target{BaseURL: opts.APIURL, APIKey: opts.APIKey, Timeout: timeout}
	}

	return &Client{
		mode:        opts.Mode,
		upstream:    service.NewUpstreamService(target, logger, nil),
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

// Mode reports who the client talks to.
func (c *Client) Mode() Mode { return c.mode }

// HealthReport is the dashboard's view of upstream health. Gateway is set
// only in gateway mode.
type HealthReport struct {
	model.UpstreamHealth
	ResponseTimeMs *int64
	Gateway        *model.HealthEnvelope
}

// SystemMetrics combines whatever metrics the current mode exposes.
type SystemMetrics struct {
	Status   string
	Upstream *model.UpstreamSystemMetrics
	Gateway  *model.GatewayMetrics
	Error    string
}

// FetchInfo returns the upstream's self-description.
func (c *Client) FetchInfo(ctx context.Context) (*model.APIInfo, error) {
	var info model.APIInfo
	if err := c.getJSON(ctx, infoPath, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CheckHealth reports upstream health. In gateway mode it reads the gateway's
// composite health; in direct mode it interprets the upstream's plain text.
func (c *Client) CheckHealth(ctx context.Context) (*HealthReport, error) {
	if c.mode == ModeDirect {
		res, err := c.call(ctx, http.MethodGet, directHealthPath, nil)
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(string(res.Body))
		status := model.StatusUnhealthy
		if isSuccess(res.StatusCode) && strings.Contains(text, healthyMarker) {
			status = model.StatusHealthy
		}
		ms := res.Duration.Milliseconds()
		return &HealthReport{
			UpstreamHealth: model.UpstreamHealth{Status: status, Message: text},
			ResponseTimeMs: &ms,
		}, nil
	}

	res, err := c.call(ctx, http.MethodGet, gatewayHealthPath, nil)
	if err != nil {
		return nil, err
	}
	// 503 still carries the composite envelope.
	var env model.HealthEnvelope
	if err := json.Unmarshal(res.Body, &env); err != nil || env.Status == "" {
		return nil, statusError(res)
	}

	msg := env.Error
	if msg == "" {
		msg = "External API " + env.ExternalAPI.Status
	}
	return &HealthReport{
		UpstreamHealth: model.UpstreamHealth{Status: env.Status, Message: msg},
		ResponseTimeMs: env.ExternalAPI.ResponseTimeMs,
		Gateway:        &env,
	}, nil
}

// FetchSystemMetrics returns system metrics. In gateway mode a partial
// envelope is not an error; the returned Status and Error say what is missing.
func (c *Client) FetchSystemMetrics(ctx context.Context) (*SystemMetrics, error) {
	if c.mode == ModeDirect {
		var m model.UpstreamSystemMetrics
		if err := c.getJSON(ctx, directMetrics, &m); err != nil {
			return nil, err
		}
		return &SystemMetrics{Status: model.MetricsSuccess, Upstream: &m}, nil
	}

	var env model.MetricsEnvelope
	if err := c.getJSON(ctx, gatewayMetrics, &env); err != nil {
		return nil, err
	}

	out := &SystemMetrics{Status: env.Status, Gateway: &env.GatewayMetrics, Error: env.Error}
	if len(env.ExternalAPIMetrics) > 0 && string(env.ExternalAPIMetrics) != "null" {
		var m model.UpstreamSystemMetrics
		if err := json.Unmarshal(env.ExternalAPIMetrics, &m); err != nil {
			out.Status = model.MetricsPartial
			out.Error = fmt.Sprintf("failed to parse external metrics: %v", err)
		} else {
			out.Upstream = &m
		}
	}
	return out, nil
}

// FetchProvidersStatus lists the upstream's data providers.
func (c *Client) FetchProvidersStatus(ctx context.Context) ([]model.ProviderStatus, error) {
	var providers []model.ProviderStatus
	if err := c.getJSON(ctx, providersPath, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// Analyze runs one analysis. A 400 carrying symbol suggestions is returned as
// *SymbolNotFoundError.
func (c *Client) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResponse, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis request: %w", err)
	}

	res, err := c.call(ctx, http.MethodPost, analyzePath, body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusBadRequest {
		var symErr model.SymbolErrorResponse
		if json.Unmarshal(res.Body, &symErr) == nil && symErr.Message != "" {
			return nil, &SymbolNotFoundError{SymbolErrorResponse: symErr}
		}
	}
	if !isSuccess(res.StatusCode) {
		return nil, statusError(res)
	}

	var out model.AnalysisResponse
	if err := decode(res.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchTimeframesConfig loads the timeframe table from the API. On any
// failure it logs and returns the built-in table; the boolean reports whether
// the remote table was used.
func (c *Client) FetchTimeframesConfig(ctx context.Context) (*timeframe.Table, bool) {
	var cfg model.TimeframesConfigResponse
	if err := c.getJSON(ctx, timeframesPath, &cfg); err != nil {
		c.logger.Warn("using built-in timeframe table", "error", err)
		return timeframe.Default(), false
	}
	tbl, err := timeframe.New(cfg)
	if err != nil {
		c.logger.Warn("remote timeframe table rejected, using built-in table", "error", err)
		return timeframe.Default(), false
	}
	return tbl, true
}

// AnalyzeMultiTemporal analyses symbol on every recommended timeframe of tbl
// and combines the scores into a confluence. Failed timeframes keep their
// error in the returned rows; it is an error only when none succeeded.
func (c *Client) AnalyzeMultiTemporal(ctx context.Context, tbl *timeframe.Table, symbol string, includeFundamental bool) (*model.MultiTemporalResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := validation.Var("symbol", symbol, "required,max=16"); err != nil {
		return nil, err
	}
	if tbl == nil {
		tbl = timeframe.Default()
	}

	tfs := tbl.MultiTemporal()
	rows := make([]model.TimeframeScore, len(tfs))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, tf := range tfs {
		rows[i].Timeframe = tf
		api, err := tbl.ToAPIFormat(tf.Name)
		if err != nil {
			rows[i].Err = err
			continue
		}
		rows[i].APIFormat = api

		i, tf := i, tf
		g.Go(func() error {
			resp, err := c.Analyze(ctx, model.AnalysisRequest{
				Symbol:             symbol,
				Timeframe:          api,
				IncludeFundamental: includeFundamental,
			})
			if err != nil {
				c.logger.Warn("timeframe analysis failed", "symbol", symbol, "timeframe", tf.Name, "error", err)
				rows[i].Err = err
				return nil
			}
			score := resp.Score
			rows[i].Score = &score
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &model.MultiTemporalResult{Symbol: symbol, Rows: rows, FinishedAt: time.Now()}
	scores := make(map[string]float64, len(rows))
	for _, r := range rows {
		if r.Score != nil {
			scores[r.Timeframe.Name] = *r.Score
		}
	}
	result.Completed = len(scores)
	if len(scores) == 0 {
		return result, ErrNoTimeframeScore
	}

	confluence, err := tbl.Confluence(scores)
	if err != nil {
		return result, fmt.Errorf("failed to calculate confluence: %w", err)
	}
	result.Confluence = confluence
	return result, nil
}

// call sends one request. In direct mode the credential is attached exactly
// when the route table marks the path as authenticated.
func (c *Client) call(ctx context.Context, method, path string, body []byte) (*service.ProxyResult, error) {
	requireAuth := false
	if c.mode == ModeDirect {
		if route, ok := proxy.Classify(method, path); ok {
			requireAuth = route.RequiresAuth()
		}
	}
	return c.upstream.Forward(ctx, service.ProxyRequest{
		TraceID:      uuid.NewString(),
		Method:       method,
		PathAndQuery: path,
		Body:         body,
		RequireAuth:  requireAuth,
	})
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	res, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if !isSuccess(res.StatusCode) {
		return statusError(res)
	}
	return decode(res.Body, out)
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func statusError(res *service.ProxyResult) error {
	return &StatusError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(res.Body))}
}

func isSuccess(code int) bool {
	return code >= 200 && code <= 299
}
