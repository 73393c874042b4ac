package model

import "time"

// AnalysisRequest is the body the dashboard posts to /api/v1/analyze.
// Timeframe is the upstream enum form (minute5, hour1, daily, ...).
type AnalysisRequest struct {
	Symbol             string `json:"symbol" validate:"required,max=16"`
	Timeframe          string `json:"timeframe" validate:"required,oneof=minute1 minute5 minute15 minute30 hour1 hour4 daily weekly monthly"`
	IncludeFundamental bool   `json:"include_fundamental"`
}

// UpstreamHealth is the dashboard's reading of the upstream's plain-text /health.
type UpstreamHealth struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TimeframeScore is one row of a multi-timeframe analysis.
type TimeframeScore struct {
	Timeframe TimeframeMetadata
	APIFormat string
	Score     *float64
	Err       error
}

// MultiTemporalResult aggregates per-timeframe scores and their confluence.
type MultiTemporalResult struct {
	Symbol     string
	Rows       []TimeframeScore
	Confluence float64
	Completed  int
	FinishedAt time.Time
}
