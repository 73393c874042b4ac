package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/suar-net/ghost-gateway/internal/model"
)

// Snapshot is one refresh of the status board. Each card fails on its own.
type Snapshot struct {
	Health       *HealthReport
	HealthErr    error
	Metrics      *SystemMetrics
	MetricsErr   error
	Providers    []model.ProviderStatus
	ProvidersErr error
	FetchedAt    time.Time
}

// Failed reports whether every card failed.
func (s Snapshot) Failed() bool {
	return s.HealthErr != nil && s.MetricsErr != nil && s.ProvidersErr != nil
}

// Snapshot fetches health, system metrics and providers concurrently.
func (c *Client) Snapshot(ctx context.Context) Snapshot {
	var s Snapshot
	var g errgroup.Group
	g.Go(func() error {
		s.Health, s.HealthErr = c.CheckHealth(ctx)
		return nil
	})
	g.Go(func() error {
		s.Metrics, s.MetricsErr = c.FetchSystemMetrics(ctx)
		return nil
	})
	g.Go(func() error {
		s.Providers, s.ProvidersErr = c.FetchProvidersStatus(ctx)
		return nil
	})
	_ = g.Wait()
	s.FetchedAt = time.Now()
	return s
}

// RenderSnapshot lays the three status cards out side by side.
func RenderSnapshot(s Snapshot) string {
	cards := make([]string, 0, 3)

	if s.HealthErr != nil {
		cards = append(cards, renderError("API Health", s.HealthErr))
	} else {
		cards = append(cards, RenderHealth(s.Health))
	}
	if s.MetricsErr != nil {
		cards = append(cards, renderError("System Metrics", s.MetricsErr))
	} else {
		cards = append(cards, RenderSystemMetrics(s.Metrics))
	}
	if s.ProvidersErr != nil {
		cards = append(cards, renderError("Data Providers", s.ProvidersErr))
	} else {
		cards = append(cards, RenderProviders(s.Providers))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderError(title string, err error) string {
	return cardStyle.BorderForeground(lipgloss.Color("196")).
		Render(titleStyle.Render(title) + "\n" + badStyle.Render(err.Error()))
}
