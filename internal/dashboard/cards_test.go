package dashboard

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/suar-net/ghost-gateway/internal/model"
	"github.com/suar-net/ghost-gateway/internal/timeframe"
)

func TestScoreLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0.95, LevelGood},
		{0.61, LevelGood},
		{0.6, LevelWarning},
		{0.41, LevelWarning},
		{0.4, LevelBad},
		{0, LevelBad},
	}
	for _, tt := range tests {
		is := is.New(t)
		is.Equal(ScoreLevel(tt.score), tt.want)
	}
}

func TestRenderMultiTemporal(t *testing.T) {
	is := is.New(t)
	tfs := timeframe.Default().MultiTemporal()
	good, bad := 0.8, 0.2

	out := RenderMultiTemporal(&model.MultiTemporalResult{
		Symbol: "AAPL",
		Rows: []model.TimeframeScore{
			{Timeframe: tfs[0], APIFormat: "minute15", Score: &bad},
			{Timeframe: tfs[1], APIFormat: "hour1", Err: errors.New("no data")},
			{Timeframe: tfs[3], APIFormat: "daily", Score: &good},
		},
		Confluence: 0.7333,
		Completed:  2,
	})

	is.True(strings.Contains(out, "AAPL"))
	is.True(strings.Contains(out, "15 Minutos"))
	is.True(strings.Contains(out, "0.80"))
	is.True(strings.Contains(out, "error: no data"))
	is.True(strings.Contains(out, "73.3%"))
	is.True(strings.Contains(out, "Based on 2 timeframe analyses"))
}

func TestRenderTimeframes(t *testing.T) {
	is := is.New(t)
	out := RenderTimeframes(timeframe.Default(), false)
	is.True(strings.Contains(out, "built-in"))
	is.True(strings.Contains(out, "minute5"))
	is.True(strings.Contains(out, "monthly"))
}

func TestRenderHealth(t *testing.T) {
	is := is.New(t)
	ms := int64(42)
	out := RenderHealth(&HealthReport{
		UpstreamHealth: model.UpstreamHealth{Status: model.StatusHealthy, Message: "API funcionando correctamente"},
		ResponseTimeMs: &ms,
	})
	is.True(strings.Contains(out, "healthy"))
	is.True(strings.Contains(out, "42 ms"))
}

func TestRenderProviders(t *testing.T) {
	is := is.New(t)
	remaining := uint32(7)
	out := RenderProviders([]model.ProviderStatus{
		{Name: "yahoo", Available: true, Active: true, ResponseTimeMs: 120, RateLimitRemaining: &remaining},
		{Name: "fmp"},
	})
	is.True(strings.Contains(out, "yahoo"))
	is.True(strings.Contains(out, "7 calls left"))
	is.True(strings.Contains(out, "unavailable"))

	is.True(strings.Contains(RenderProviders(nil), "no providers reported"))
}

func TestRenderSystemMetrics_GatewayMemory(t *testing.T) {
	is := is.New(t)
	out := RenderSystemMetrics(&SystemMetrics{
		Status: model.MetricsSuccess,
		Gateway: &model.GatewayMetrics{
			Memory: model.MemoryMetrics{UsedMB: 12, AvailableMB: 30},
		},
	})
	is.True(strings.Contains(out, "12 MB used / 30 MB runtime headroom"))
	is.True(!strings.Contains(out, "MB available"))
}

func TestFormatUptime(t *testing.T) {
	is := is.New(t)
	is.Equal(formatUptime(5), "5s")
	is.Equal(formatUptime(65), "1m05s")
	is.Equal(formatUptime(3725), "1h02m05s")
}
