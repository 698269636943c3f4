// Package analytics renders the mood chart, streak and window totals.
package analytics

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/soulsync/pkg/analytics"
	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/tui/theme"
	"tableflip.dev/soulsync/pkg/tui/ui"
)

// chartRows is one row per mood notch.
const chartRows = 5

// Model is the analytics view. It is read-only; the root recomputes the
// summary after every journal mutation.
type Model struct {
	th      theme.Theme
	summary analytics.Summary

	width  int
	height int
}

// New builds the analytics view.
func New(th theme.Theme) *Model {
	return &Model{th: th}
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements ui.Component.
func (m *Model) Update(tea.Msg) (ui.Component, tea.Cmd) { return m, nil }

// SetSize implements ui.Component.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
}

// SetTheme swaps styles and bar colors.
func (m *Model) SetTheme(th theme.Theme) {
	m.th = th
}

// SetSummary replaces the rendered numbers.
func (m *Model) SetSummary(s analytics.Summary) {
	m.summary = s
}

// Summary is the summary currently shown.
func (m *Model) Summary() analytics.Summary {
	return m.summary
}

// View renders the chart and the totals.
func (m *Model) View() string {
	st := m.th.Analytics
	s := m.summary
	heading := st.Heading.Render(fmt.Sprintf("Mood over the last %s", s.Window))

	if s.Entries == 0 {
		empty := st.Axis.Render("No journal entries in this window yet. Write one in the Journal view.")
		return lipgloss.JoinVertical(lipgloss.Left, heading, "", empty, "", m.renderTotals())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		heading, "",
		m.renderChart(),
		m.renderAxis(),
		"",
		st.Axis.Render("trend ")+analytics.Sparkline(s.Days),
		"",
		m.renderTotals(),
	)
}

// colWidth spreads the days across the width, one or two cells each.
func (m *Model) colWidth() int {
	if n := len(m.summary.Days); n > 0 && (m.width-4)/n >= 2 {
		return 2
	}
	return 1
}

func (m *Model) renderChart() string {
	st := m.th.Analytics
	cw := m.colWidth()
	days := m.visibleDays(cw)
	rows := make([]string, 0, chartRows)
	for level := chartRows; level >= 1; level-- {
		var b strings.Builder
		b.WriteString(st.Axis.Render(fmt.Sprintf("%d ", level)))
		for _, d := range days {
			cell := strings.Repeat(" ", cw)
			switch {
			case !d.HasData && level == 1:
				cell = st.Gap.Render(padRight(string(analytics.GapRune), cw))
			case d.HasData && int(math.Round(d.Mean)) >= level:
				bar := lipgloss.NewStyle().Foreground(m.th.MoodColor(d.Mean))
				cell = bar.Render(strings.Repeat("█", max(1, cw-1))) + strings.Repeat(" ", min(1, cw-1))
			}
			b.WriteString(cell)
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

// visibleDays keeps the most recent days that fit the width.
func (m *Model) visibleDays(cw int) []analytics.Day {
	days := m.summary.Days
	if fit := (m.width - 2) / cw; fit > 0 && len(days) > fit {
		return days[len(days)-fit:]
	}
	return days
}

func (m *Model) renderAxis() string {
	st := m.th.Analytics
	cw := m.colWidth()
	days := m.visibleDays(cw)
	if len(days) == 0 {
		return ""
	}
	first, last := days[0].Label(), days[len(days)-1].Label()
	span := len(days) * cw
	gap := span - len(first) - len(last)
	if gap < 1 {
		return st.Axis.Render("  " + last)
	}
	return st.Axis.Render("  " + first + strings.Repeat(" ", gap) + last)
}

func (m *Model) renderTotals() string {
	st := m.th.Analytics
	s := m.summary
	avg := "n/a"
	if s.Entries > 0 {
		avg = fmt.Sprintf("%.1f %s", s.Mean, journal.Mood(int(math.Round(s.Mean))).Emoji())
	}
	days := "days"
	if s.Streak == 1 {
		days = "day"
	}
	return strings.Join([]string{
		st.Axis.Render("Streak   ") + st.Value.Render(fmt.Sprintf("%d %s", s.Streak, days)),
		st.Axis.Render("Entries  ") + st.Value.Render(fmt.Sprintf("%d", s.Entries)),
		st.Axis.Render("Average  ") + st.Value.Render(avg),
	}, "\n")
}

func padRight(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
