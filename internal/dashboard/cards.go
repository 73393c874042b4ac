package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/suar-net/ghost-gateway/internal/model"
	"github.com/suar-net/ghost-gateway/internal/timeframe"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(22)

	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Level buckets a value for colouring.
type Level int

const (
	LevelBad Level = iota
	LevelWarning
	LevelGood
)

// ScoreLevel buckets an analysis score in [0,1].
func ScoreLevel(score float64) Level {
	switch {
	case score > 0.6:
		return LevelGood
	case score > 0.4:
		return LevelWarning
	default:
		return LevelBad
	}
}

func (l Level) style() lipgloss.Style {
	switch l {
	case LevelGood:
		return goodStyle
	case LevelWarning:
		return warningStyle
	default:
		return badStyle
	}
}

func statusLevel(status string) Level {
	switch status {
	case model.StatusHealthy, model.ExternalAvailable, model.MetricsSuccess:
		return LevelGood
	case model.StatusDegraded, model.MetricsPartial:
		return LevelWarning
	default:
		return LevelBad
	}
}

type card struct {
	title string
	lines []string
}

func (c *card) row(label, value string) {
	c.lines = append(c.lines, labelStyle.Render(label)+value)
}

func (c *card) text(s string) {
	c.lines = append(c.lines, s)
}

func (c *card) render() string {
	body := titleStyle.Render(c.title) + "\n" + strings.Join(c.lines, "\n")
	return cardStyle.Render(body)
}

// RenderInfo renders the API information card.
func RenderInfo(info *model.APIInfo) string {
	c := card{title: "API Information"}
	c.row("Name", info.Name)
	c.row("Version", info.Version)
	c.row("Data mode", info.DataMode)
	if info.Description != "" {
		c.row("Description", info.Description)
	}
	c.row("Authentication", info.Authentication.Type)
	for _, m := range info.Authentication.Methods {
		c.text(mutedStyle.Render(fmt.Sprintf("  %s in %s (%s)", m.Name, m.Location, m.Format)))
	}
	c.row("Endpoints", fmt.Sprint(len(info.Endpoints)))
	for _, e := range info.Endpoints {
		lock := ""
		if e.RequiresAuth {
			lock = " [auth]"
		}
		c.text(mutedStyle.Render(fmt.Sprintf("  %-6s %s%s", e.Method, e.Path, lock)))
	}
	return c.render()
}

// RenderHealth renders the health card.
func RenderHealth(h *HealthReport) string {
	c := card{title: "API Health"}
	c.row("Status", statusLevel(h.Status).style().Render(h.Status))
	if h.ResponseTimeMs != nil {
		c.row("Response time", fmt.Sprintf("%d ms", *h.ResponseTimeMs))
	}
	if h.Gateway != nil {
		c.row("Gateway", fmt.Sprintf("%s (v%s, up %s)", h.Gateway.Gateway.Status, h.Gateway.Gateway.Version, formatUptime(h.Gateway.Gateway.UptimeSecs)))
		c.row("External API", statusLevel(h.Gateway.ExternalAPI.Status).style().Render(h.Gateway.ExternalAPI.Status))
	}
	if h.Message != "" {
		c.text(mutedStyle.Render(h.Message))
	}
	return c.render()
}

// RenderSystemMetrics renders the system metrics card.
func RenderSystemMetrics(m *SystemMetrics) string {
	c := card{title: "System Metrics"}
	c.row("Status", statusLevel(m.Status).style().Render(m.Status))
	if g := m.Gateway; g != nil {
		c.row("Gateway memory", fmt.Sprintf("%d MB used / %d MB runtime headroom", g.Memory.UsedMB, g.Memory.AvailableMB))
		c.row("Gateway uptime", formatUptime(g.UptimeSecs))
		c.row("Active connections", fmt.Sprint(g.ActiveConnections))
	}
	if u := m.Upstream; u != nil {
		c.row("CPU usage", percentLevel(u.CPUUsage))
		c.row("Memory usage", percentLevel(u.MemoryUsage))
		c.row("DB connections", fmt.Sprint(u.DatabaseConnections))
		c.row("Cache hit ratio", fmt.Sprintf("%.1f%%", u.CacheHitRatio*100))
		c.row("Active requests", fmt.Sprint(u.ActiveRequests))
	}
	if m.Error != "" {
		c.text(badStyle.Render(m.Error))
	}
	return c.render()
}

// RenderProviders renders one line per data provider.
func RenderProviders(providers []model.ProviderStatus) string {
	c := card{title: "Data Providers"}
	if len(providers) == 0 {
		c.text(mutedStyle.Render("no providers reported"))
	}
	for _, p := range providers {
		state := badStyle.Render("unavailable")
		if p.Available {
			state = goodStyle.Render("available")
		}
		if p.Active {
			state += " " + mutedStyle.Render("(active)")
		}
		line := fmt.Sprintf("%s %d ms", state, p.ResponseTimeMs)
		if p.RateLimitRemaining != nil {
			line += fmt.Sprintf(", %d calls left", *p.RateLimitRemaining)
		}
		c.row(p.Name, line)
	}
	return c.render()
}

// RenderAnalysis renders a single analysis result.
func RenderAnalysis(a *model.AnalysisResponse) string {
	c := card{title: fmt.Sprintf("%s · %s", a.Symbol, a.Timeframe)}
	c.row("Score", scoreText(a.Score))
	c.row("Technical", scoreText(a.TechnicalScore))
	if a.FundamentalScore != nil {
		c.row("Fundamental", scoreText(*a.FundamentalScore))
	}
	c.row("Trend", scoreText(a.TrendScore))
	c.row("Momentum", scoreText(a.MomentumScore))
	c.row("Volatility", scoreText(a.VolatilityScore))
	c.row("Volume", scoreText(a.VolumeScore))
	c.row("Suggested operation", a.SuggestedOperation)
	if a.Explanation != "" {
		c.text(mutedStyle.Render(a.Explanation))
	}
	return c.render()
}

// RenderMultiTemporal renders the per-timeframe scores and their confluence.
func RenderMultiTemporal(r *model.MultiTemporalResult) string {
	c := card{title: "Multi-timeframe analysis · " + r.Symbol}
	for _, row := range r.Rows {
		label := fmt.Sprintf("%s (w %.1f)", row.Timeframe.DisplayName, row.Timeframe.Weight)
		switch {
		case row.Score != nil:
			c.row(label, scoreText(*row.Score))
		case row.Err != nil:
			c.row(label, badStyle.Render("error: "+row.Err.Error()))
		default:
			c.row(label, mutedStyle.Render("n/a"))
		}
	}
	if r.Completed > 0 {
		c.text("")
		c.row("Confluence", ScoreLevel(r.Confluence).style().Render(fmt.Sprintf("%.1f%%", r.Confluence*100)))
		c.text(mutedStyle.Render(fmt.Sprintf("Based on %d timeframe analyses", r.Completed)))
	}
	return c.render()
}

// RenderTimeframes renders a timeframe table. remote reports whether it came
// from the API or the built-in copy.
func RenderTimeframes(tbl *timeframe.Table, remote bool) string {
	cfg := tbl.Config()
	source := "built-in"
	if remote {
		source = "remote"
	}
	c := card{title: fmt.Sprintf("Timeframes v%s (%s)", cfg.Metadata.Version, source)}
	for _, tf := range cfg.Timeframes {
		api, err := tbl.ToAPIFormat(tf.Name)
		if err != nil {
			api = "?"
		}
		c.row(tf.Name, fmt.Sprintf("%-10s %-12s w %.1f  %s", api, tf.DisplayName, tf.Weight, mutedStyle.Render(tf.Category)))
	}
	return c.render()
}

func scoreText(score float64) string {
	return ScoreLevel(score).style().Render(fmt.Sprintf("%.2f", score))
}

// percentLevel colours a utilisation percentage: high load is bad.
func percentLevel(p float64) string {
	s := fmt.Sprintf("%.1f%%", p)
	switch {
	case p > 80:
		return badStyle.Render(s)
	case p > 60:
		return warningStyle.Render(s)
	default:
		return goodStyle.Render(s)
	}
}

func formatUptime(secs uint64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
