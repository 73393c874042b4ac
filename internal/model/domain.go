package model

// The types below mirror payloads produced by the upstream financial-data
// API. The gateway never decodes them; the dashboard client does.

// APIInfo is the body of GET /api/v1/info.
type APIInfo struct {
	Name           string         `json:"name"`
	Version        string         `json:"version"`
	Description    string         `json:"description"`
	DataMode       string         `json:"data_mode"`
	Authentication Authentication `json:"authentication"`
	Endpoints      []Endpoint     `json:"endpoints"`
}

type Authentication struct {
	Type    string       `json:"type"`
	Methods []AuthMethod `json:"methods"`
	Note    string       `json:"note"`
}

type AuthMethod struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Format   string `json:"format"`
}

type Endpoint struct {
	Description  string `json:"description"`
	Method       string `json:"method"`
	Path         string `json:"path"`
	RequiresAuth bool   `json:"requires_auth"`
}

// UpstreamSystemMetrics is the body of the upstream's /api/v1/metrics/system.
type UpstreamSystemMetrics struct {
	CPUUsage            float64 `json:"cpu_usage"`
	MemoryUsage         float64 `json:"memory_usage"`
	DatabaseConnections uint32  `json:"database_connections"`
	CacheHitRatio       float64 `json:"cache_hit_ratio"`
	ActiveRequests      uint32  `json:"active_requests"`
}

// ProviderStatus is one element of GET /api/v1/providers/status.
type ProviderStatus struct {
	Name               string  `json:"name"`
	TypeCode           string  `json:"type_code"`
	Available          bool    `json:"available"`
	Active             bool    `json:"active"`
	RateLimitRemaining *uint32 `json:"rate_limit_remaining"`
	RateLimitReset     *string `json:"rate_limit_reset"`
	ResponseTimeMs     uint64  `json:"response_time_ms"`
}

// AnalysisResponse is the body of a successful POST /api/v1/analyze.
type AnalysisResponse struct {
	Symbol             string   `json:"symbol"`
	Timeframe          string   `json:"timeframe"`
	Score              float64  `json:"score"`
	TechnicalScore     float64  `json:"technical_score"`
	FundamentalScore   *float64 `json:"fundamental_score"`
	TrendScore         float64  `json:"trend_score"`
	MomentumScore      float64  `json:"momentum_score"`
	VolatilityScore    float64  `json:"volatility_score"`
	VolumeScore        float64  `json:"volume_score"`
	SuggestedOperation string   `json:"suggested_operation"`
	Explanation        string   `json:"explanation"`
}

// SymbolErrorResponse is the 400 body the upstream returns for unknown symbols.
type SymbolErrorResponse struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// TimeframeMetadata describes one canonical timeframe.
type TimeframeMetadata struct {
	Name             string   `json:"name" yaml:"name"`
	DisplayName      string   `json:"display_name" yaml:"display_name"`
	DurationSeconds  int64    `json:"duration_seconds" yaml:"duration_seconds"`
	Weight           float64  `json:"weight" yaml:"weight"`
	Category         string   `json:"category" yaml:"category"`
	Aliases          []string `json:"aliases" yaml:"aliases"`
	RecommendedLimit int      `json:"recommended_limit" yaml:"recommended_limit"`
	MaxGapHours      int64    `json:"max_gap_hours" yaml:"max_gap_hours"`
}

// TimeframesConfigResponse is the body of GET /api/v1/timeframes/config.
type TimeframesConfigResponse struct {
	Timeframes []TimeframeMetadata          `json:"timeframes" yaml:"timeframes"`
	Aliases    map[string]string            `json:"aliases" yaml:"aliases"`
	Categories map[string][]string          `json:"categories" yaml:"categories"`
	Providers  map[string]map[string]string `json:"providers" yaml:"providers"`
	Metadata   TimeframesMetadata           `json:"metadata" yaml:"metadata"`
}

type TimeframesMetadata struct {
	Version            string   `json:"version" yaml:"version"`
	LastUpdated        string   `json:"last_updated" yaml:"last_updated"`
	TotalTimeframes    int      `json:"total_timeframes" yaml:"total_timeframes"`
	TotalAliases       int      `json:"total_aliases" yaml:"total_aliases"`
	SupportedProviders []string `json:"supported_providers" yaml:"supported_providers"`
}
