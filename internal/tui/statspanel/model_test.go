package statspanel

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"portfolio.dev/portfolio/internal/i18n"
	"portfolio.dev/portfolio/internal/stats"
)

func sampleDashboard() stats.Dashboard {
	return stats.Dashboard{
		Visits: stats.VisitSnapshot{
			Portfolio: stats.Metric{Total: stats.Available(1200), Today: stats.Available(4)},
			Studio:    stats.Metric{Total: stats.Available(300), Today: stats.Unavailable(errors.New("down"))},
			Combined:  stats.Metric{Total: stats.Available(1500), Today: stats.Available(4)},
			Partial:   true,
		},
		Social: stats.SocialSnapshot{
			GitHubFollowers:   stats.Available(80),
			LinkedInFollowers: stats.Available(20),
			GitHubToday:       stats.Available(1),
			LinkedInToday:     stats.Unavailable(errors.New("down")),
		},
	}
}

func newTestModel(t *testing.T, lang string, calls *int) Model {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	fetch := func(context.Context) stats.Dashboard {
		*calls++
		return sampleDashboard()
	}
	now := func() time.Time { return time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC) }
	return New(fetch, Options{Lang: lang, Interval: time.Minute, Now: now})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestModelLifecycle(t *testing.T) {
	var calls int
	m := newTestModel(t, "en", &calls)

	require.True(t, m.Loading())
	require.Contains(t, m.View(), "Loading...")
	_, ok := m.Dashboard()
	require.False(t, ok)

	msg := m.fetchCmd(m.seq)()
	require.Equal(t, 1, calls)

	m, cmd := update(t, m, msg)
	require.False(t, m.Loading())
	require.NotNil(t, cmd, "a refresh is scheduled after each reading")

	view := m.View()
	require.Contains(t, view, "● Partial")
	require.Contains(t, view, "1,200")
	require.Contains(t, view, "All channels")
	require.Contains(t, view, "1,600")
	require.Contains(t, view, "Updated 10:30:00")

	t.Run("stale readings are dropped", func(t *testing.T) {
		m, _ := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
		require.True(t, m.Loading())

		m, cmd := update(t, m, dashboardMsg{seq: m.seq - 1})
		require.Nil(t, cmd)
		require.True(t, m.Loading())

		m, _ = update(t, m, refreshMsg{seq: m.seq - 1})
		require.True(t, m.Loading())
	})

	t.Run("periodic refresh", func(t *testing.T) {
		before := m.seq
		m, cmd := update(t, m, refreshMsg{seq: m.seq})
		require.NotNil(t, cmd)
		require.True(t, m.Loading())
		require.Equal(t, before+1, m.seq)
	})

	t.Run("quit", func(t *testing.T) {
		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		require.Empty(t, m.View())
	})
}

func TestModelPortuguese(t *testing.T) {
	var calls int
	m := newTestModel(t, "pt", &calls)
	m, _ = update(t, m, m.fetchCmd(m.seq)())

	view := m.View()
	require.Contains(t, view, "Visitas")
	require.Contains(t, view, "Parcial")
	require.Contains(t, view, "1.200")
	require.Contains(t, view, "r atualizar")
}

func TestSummary(t *testing.T) {
	out := Summary(i18n.NewPrinter("en"), sampleDashboard(), nil, nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	require.Contains(t, lines[0], "Total")
	require.Contains(t, lines[2], "Rizzer Studio")
	require.True(t, strings.HasSuffix(lines[2], "-"))
	require.Contains(t, lines[6], "1,600")
	require.Contains(t, lines[6], "5")
}
