// Package help renders the key reference as a scrollable Glamour overlay.
package help

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/soulsync/pkg/tui/theme"
	"tableflip.dev/soulsync/pkg/tui/ui"
)

//go:embed help.md
var helpMarkdown string

// Model is the help overlay.
type Model struct {
	viewport viewport.Model
	width    int
	height   int
	inner    int
	style    string

	frame lipgloss.Style
	err   error
}

// New constructs a help overlay for the given bounds.
func New(width, height int, th theme.Theme) *Model {
	vp := viewport.New(viewport.WithWidth(max(width, 1)), viewport.WithHeight(max(height, 1)))
	vp.MouseWheelEnabled = true
	m := &Model{viewport: vp}
	m.SetTheme(th)
	m.SetSize(width, height)
	return m
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// Update forwards scrolling keys to the viewport.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the help inside the modal frame.
func (m *Model) View() string {
	body := m.viewport.View()
	if m.err != nil {
		body = "help unavailable: " + m.err.Error()
	}
	return m.frame.Width(m.width).Height(m.height).Render(body)
}

// SetTheme picks the matching Glamour style and frame.
func (m *Model) SetTheme(th theme.Theme) {
	m.frame = th.Modal.Frame.Padding(0, 1)
	style := styles.LightStyle
	if th.Dark {
		style = styles.DarkStyle
	}
	if style != m.style {
		m.style = style
		if m.width > 0 {
			m.render()
		}
	}
}

// SetSize sizes the overlay and re-renders the markdown to fit.
func (m *Model) SetSize(width, height int) {
	width, height = max(width, 32), max(height, 8)
	if m.width == width && m.height == height {
		return
	}
	m.width, m.height = width, height
	m.inner = max(width-m.frame.GetHorizontalFrameSize(), 1)
	m.viewport.SetWidth(m.inner)
	m.viewport.SetHeight(max(height-m.frame.GetVerticalFrameSize(), 1))
	m.render()
}

func (m *Model) render() {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(max(m.inner-2, 10)),
	)
	if err == nil {
		var out string
		if out, err = r.Render(strings.TrimSpace(helpMarkdown)); err == nil {
			m.err = nil
			m.viewport.SetContent(out)
			m.viewport.SetYOffset(0)
			return
		}
	}
	m.err = err
}
