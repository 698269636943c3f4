// Package panel renders the sidebar menu listing the views.
package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/soulsync/pkg/nav"
	"tableflip.dev/soulsync/pkg/tui/theme"
)

// Model renders the view list with a cursor and the active view marked.
type Model struct {
	title  string
	footer []string
	cursor int
	active nav.View

	frameStyle    lipgloss.Style
	titleStyle    lipgloss.Style
	bodyStyle     lipgloss.Style
	selectedStyle lipgloss.Style
}

// New returns a panel styled by th.
func New(th theme.PanelTheme) Model {
	m := Model{title: "SoulSync"}
	m.SetTheme(th)
	return m
}

// SetTheme swaps the panel styles.
func (m *Model) SetTheme(th theme.PanelTheme) {
	m.frameStyle = th.Frame
	m.titleStyle = th.Title
	m.bodyStyle = th.Body
	m.selectedStyle = th.Selected
}

// SetFooter sets the hint lines under the view list.
func (m *Model) SetFooter(lines []string) {
	m.footer = lines
}

// Open moves the cursor to the active view.
func (m *Model) Open(active nav.View) {
	m.active = active
	for i, v := range nav.Views {
		if v == active {
			m.cursor = i
		}
	}
}

// Move shifts the cursor by delta, wrapping.
func (m *Model) Move(delta int) {
	n := len(nav.Views)
	m.cursor = ((m.cursor+delta)%n + n) % n
}

// Selected is the view under the cursor.
func (m Model) Selected() nav.View {
	return nav.Views[m.cursor]
}

// View returns the rendered panel and its height in lines.
func (m Model) View() (string, int) {
	content := []string{m.titleStyle.Render(m.title), ""}
	for i, v := range nav.Views {
		marker := "  "
		if v == m.active {
			marker = "• "
		}
		line := marker + v.Title()
		if i == m.cursor {
			content = append(content, m.selectedStyle.Render("› "+line))
			continue
		}
		content = append(content, m.bodyStyle.Render("  "+line))
	}
	if len(m.footer) > 0 {
		content = append(content, "")
		for _, line := range m.footer {
			content = append(content, m.bodyStyle.Faint(true).Render(line))
		}
	}
	view := m.frameStyle.Render(strings.Join(content, "\n"))
	return view, strings.Count(view, "\n") + 1
}
