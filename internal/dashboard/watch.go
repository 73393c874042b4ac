package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var helpStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	MarginTop(1)

type snapshotMsg Snapshot

// tickMsg carries the generation it was scheduled for; ticks from an older
// generation are dropped so a manual refresh does not start a second timer.
type tickMsg struct{ gen int }

// WatchModel is the bubbletea model for the live status board.
type WatchModel struct {
	ctx      context.Context
	fetch    func(context.Context) Snapshot
	interval time.Duration

	snap     Snapshot
	loaded   bool
	loading  bool
	gen      int
	spinner  spinner.Model
	quitting bool
}

// NewWatch creates a board that refreshes every interval.
func NewWatch(ctx context.Context, c *Client, interval time.Duration) WatchModel {
	return newWatch(ctx, c.Snapshot, interval)
}

func newWatch(ctx context.Context, fetch func(context.Context) Snapshot, interval time.Duration) WatchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle.UnsetMarginBottom()
	return WatchModel{
		ctx:      ctx,
		fetch:    fetch,
		interval: interval,
		loading:  true,
		spinner:  s,
	}
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

func (m WatchModel) refresh() tea.Cmd {
	ctx, fetch := m.ctx, m.fetch
	return func() tea.Msg {
		return snapshotMsg(fetch(ctx))
	}
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = Snapshot(msg)
		m.loaded = true
		m.loading = false
		m.gen++
		gen := m.gen
		return m, tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })

	case tickMsg:
		if msg.gen != m.gen || m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.refresh()
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	status := fmt.Sprintf("refreshing every %s", m.interval)
	if m.loading {
		status = m.spinner.View() + " refreshing"
	}

	body := mutedStyle.Render("loading…")
	if m.loaded {
		body = RenderSnapshot(m.snap) + "\n" +
			mutedStyle.Render("updated "+m.snap.FetchedAt.Format(time.TimeOnly))
	}

	return titleStyle.Render("Ghost Dashboard") + "\n" + body + "\n" +
		helpStyle.Render(status+"  [r] Refresh  [q] Quit")
}

// RunWatch runs the live status board until the user quits or ctx ends.
func RunWatch(ctx context.Context, c *Client, interval time.Duration) error {
	p := tea.NewProgram(NewWatch(ctx, c, interval), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
