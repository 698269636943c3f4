// Package eventviewer renders the debug log of messages flowing through the
// update loop.
package eventviewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/soulsync/pkg/tui/theme"
	"tableflip.dev/soulsync/pkg/tui/ui"
)

// Level indicates the severity of a logged event.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Entry captures a rendered event.
type Entry struct {
	Timestamp time.Time
	Source    string
	Summary   string
	Detail    string
	Level     Level
}

// Model renders a newest-first event log inside a frame.
type Model struct {
	viewport viewport.Model
	entries  []Entry
	limit    int

	width  int
	height int

	styles theme.EventsTheme
}

// New constructs a viewer that keeps at most limit entries.
func New(limit int, th theme.EventsTheme) *Model {
	if limit <= 0 {
		limit = 200
	}
	return &Model{
		viewport: viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		limit:    limit,
		styles:   th,
	}
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements ui.Component; the log scrolls with the viewport keys.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// SetSize resizes the viewport inside the frame and header row.
func (m *Model) SetSize(width, height int) {
	width, height = max(width, 4), max(height, 3)
	if m.width == width && m.height == height {
		return
	}
	m.width, m.height = width, height
	m.viewport.SetWidth(max(1, width-2))
	m.viewport.SetHeight(max(1, height-3))
	m.refresh()
}

// SetTheme swaps the styles.
func (m *Model) SetTheme(th theme.EventsTheme) {
	m.styles = th
	m.refresh()
}

// View renders the framed log.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.styles.Header.Render(fmt.Sprintf("Events (%d)", len(m.entries)))
	body := lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
	return m.styles.Frame.Width(m.width).Height(m.height).Render(body)
}

// Len is the number of retained entries.
func (m *Model) Len() int {
	return len(m.entries)
}

// Append inserts an entry at the top, dropping the oldest past the limit.
func (m *Model) Append(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Source == "" {
		e.Source = "tea"
	}
	if e.Summary == "" {
		e.Summary = "event"
	}
	m.entries = append([]Entry{e}, m.entries...)
	if len(m.entries) > m.limit {
		m.entries = m.entries[:m.limit]
	}
	m.refresh()
	m.viewport.SetYOffset(0)
}

func (m *Model) refresh() {
	if len(m.entries) == 0 {
		m.viewport.SetContent(m.styles.Timestamp.Render("No events yet"))
		return
	}
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		lines = append(lines, m.render(e))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func (m *Model) render(e Entry) string {
	text := e.Summary
	if e.Detail != "" {
		text += " " + e.Detail
	}
	switch e.Level {
	case LevelWarn:
		text = m.styles.Warn.Render(text)
	case LevelError:
		text = m.styles.Error.Render(text)
	default:
		text = m.styles.Info.Render(text)
	}
	return fmt.Sprintf("%s %s %s",
		m.styles.Timestamp.Render(e.Timestamp.Format("15:04:05.000")),
		m.styles.Source.Render("["+e.Source+"]"),
		text)
}
