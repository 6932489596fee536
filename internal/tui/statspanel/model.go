// Package statspanel is a live terminal view of the portfolio statistics.
package statspanel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"portfolio.dev/portfolio/internal/i18n"
	"portfolio.dev/portfolio/internal/output"
	"portfolio.dev/portfolio/internal/stats"
)

const (
	// DefaultInterval matches the refresh period of the site widgets.
	DefaultInterval = 30 * time.Second

	fetchTimeout = 15 * time.Second
)

// Fetcher reads one dashboard.
type Fetcher func(ctx context.Context) stats.Dashboard

// Options configure a Model.
type Options struct {
	Lang     string
	Interval time.Duration
	Now      func() time.Time
}

type dashboardMsg struct {
	seq       int
	dashboard stats.Dashboard
	at        time.Time
}

type refreshMsg struct {
	seq int
}

// Model is the bubbletea model of the panel.
type Model struct {
	fetch    Fetcher
	printer  *i18n.Printer
	interval time.Duration
	now      func() time.Time

	spinner   spinner.Model
	loading   bool
	seq       int
	dashboard *stats.Dashboard
	updated   time.Time
	quitting  bool
	styles    styles
}

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	live  lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
	dim   lipgloss.Style
}

// New creates a panel that reads dashboards with fetch.
func New(fetch Fetcher, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(output.ColorPulse)

	return Model{
		fetch:    fetch,
		printer:  i18n.NewPrinter(opts.Lang),
		interval: opts.Interval,
		now:      opts.Now,
		spinner:  s,
		loading:  true,
		styles: styles{
			title: lipgloss.NewStyle().Foreground(output.ColorAccent).Bold(true),
			label: lipgloss.NewStyle().Foreground(output.ColorMuted),
			value: lipgloss.NewStyle().Bold(true),
			live:  lipgloss.NewStyle().Foreground(output.ColorAccent),
			warn:  lipgloss.NewStyle().Foreground(output.ColorWarn),
			err:   lipgloss.NewStyle().Foreground(output.ColorError),
			dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd(m.seq))
}

func (m Model) fetchCmd(seq int) tea.Cmd {
	fetch, now := m.fetch, m.now
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return dashboardMsg{seq: seq, dashboard: fetch(ctx), at: now()}
	}
}

func (m Model) scheduleRefresh(seq int) tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return refreshMsg{seq: seq}
	})
}

func (m Model) refresh() (Model, tea.Cmd) {
	m.seq++
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.fetchCmd(m.seq))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m.refresh()
		}

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dashboardMsg:
		// a manual refresh supersedes readings still in flight
		if msg.seq != m.seq {
			return m, nil
		}
		d := msg.dashboard
		m.dashboard = &d
		m.updated = msg.at
		m.loading = false
		return m, m.scheduleRefresh(m.seq)

	case refreshMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m.refresh()
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(m.styles.title.Render(m.printer.T(i18n.LabelVisits)))
	b.WriteString("  ")
	b.WriteString(m.status())
	b.WriteString("\n\n")

	if m.dashboard != nil {
		b.WriteString(Summary(m.printer, *m.dashboard, m.styles.label.Render, m.styles.value.Render))
		b.WriteString("\n")
		b.WriteString("  " + m.styles.dim.Render(m.printer.T(i18n.LabelUpdated, m.updated.Format("15:04:05"))))
		b.WriteString("\n")
	}
	b.WriteString("  " + m.styles.dim.Render(m.printer.T(i18n.LabelRefreshHint)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) status() string {
	if m.loading {
		return m.spinner.View() + " " + m.styles.dim.Render(m.printer.T(i18n.StatusLoading))
	}
	if m.dashboard == nil {
		return m.styles.err.Render(m.printer.T(i18n.StatusUnavailable))
	}
	text := m.printer.Status(m.dashboard.Visits)
	switch {
	case m.dashboard.Visits.HasError:
		return m.styles.err.Render("● " + text)
	case m.dashboard.Visits.Partial:
		return m.styles.warn.Render("● " + text)
	default:
		return m.styles.live.Render("● " + text)
	}
}

// Dashboard returns the last reading, if any.
func (m Model) Dashboard() (stats.Dashboard, bool) {
	if m.dashboard == nil {
		return stats.Dashboard{}, false
	}
	return *m.dashboard, true
}

// Loading reports whether a reading is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Summary lays out a dashboard as an indented table of totals and today counts. label and
// value style the two columns; pass nil for plain text.
func Summary(p *i18n.Printer, d stats.Dashboard, label, value func(...string) string) string {
	if label == nil {
		label = plain
	}
	if value == nil {
		value = plain
	}

	rows := []struct {
		name         string
		total, today string
	}{
		{p.T(i18n.LabelPortfolio), p.Count(d.Visits.Portfolio.Total), p.Count(d.Visits.Portfolio.Today)},
		{p.T(i18n.LabelStudio), p.Count(d.Visits.Studio.Total), p.Count(d.Visits.Studio.Today)},
		{p.T(i18n.LabelCombined), p.Count(d.Visits.Combined.Total), p.Count(d.Visits.Combined.Today)},
		{p.T(i18n.LabelGitHub), p.Count(d.Social.GitHubFollowers), p.Count(d.Social.GitHubToday)},
		{p.T(i18n.LabelLinkedIn), p.Count(d.Social.LinkedInFollowers), p.Count(d.Social.LinkedInToday)},
		{p.T(i18n.LabelAllChannels), p.Number(d.CombinedTotal()), p.Number(d.CombinedToday())},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %-16s %12s %10s\n", "", p.T(i18n.LabelTotal), p.T(i18n.LabelToday))
	for _, r := range rows {
		b.WriteString("  ")
		b.WriteString(label(fmt.Sprintf("%-16s", r.name)))
		b.WriteString(" ")
		b.WriteString(value(fmt.Sprintf("%12s", r.total)))
		b.WriteString(" ")
		b.WriteString(value(fmt.Sprintf("%10s", r.today)))
		b.WriteString("\n")
	}
	return b.String()
}

func plain(strs ...string) string {
	return strings.Join(strs, " ")
}
