// Package settings renders preferences and the data actions: theme, motion,
// new chat, export, import and clear.
package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/soulsync/pkg/tui/events"
	"tableflip.dev/soulsync/pkg/tui/theme"
	"tableflip.dev/soulsync/pkg/tui/ui"
)

// ID identifies the settings view in events.
const ID = events.ComponentID("settings")

type item struct {
	action events.Action
	label  string
	hint   string
}

var items = []item{
	{events.ActionToggleTheme, "Theme", "switch between dark and light"},
	{events.ActionToggleMotion, "Reduced motion", "freeze the starfield"},
	{events.ActionNewChat, "New chat", "start an empty conversation"},
	{events.ActionExport, "Export data", "write messages and entries to a JSON file"},
	{events.ActionImport, "Import data", "replace data from a SoulSync export"},
	{events.ActionClear, "Clear all data", "erase messages, entries and the draft"},
}

// Info is the read-only block under the menu.
type Info struct {
	DataPath      string
	ExportDir     string
	ReplyEndpoint string
	Speech        bool
	Messages      int
	Entries       int
}

// Model is the settings view.
type Model struct {
	styles theme.SettingsTheme
	cursor int

	themeName string
	reduced   bool
	info      Info

	path       textinput.Model
	importing  bool
	confirming bool

	width  int
	height int
}

// New builds the settings view.
func New(th theme.SettingsTheme) *Model {
	in := textinput.New()
	in.Prompt = "path: "
	in.Placeholder = "~/soulsync-export.json"
	return &Model{styles: th, path: in}
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize implements ui.Component.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.path.SetWidth(max(10, width-10))
}

// SetTheme swaps styles.
func (m *Model) SetTheme(th theme.SettingsTheme) { m.styles = th }

// SetPreferences updates the toggle labels.
func (m *Model) SetPreferences(themeName string, reduced bool) {
	m.themeName, m.reduced = themeName, reduced
}

// SetInfo updates the info block.
func (m *Model) SetInfo(info Info) { m.info = info }

// Confirming reports whether the clear confirmation is showing.
func (m *Model) Confirming() bool { return m.confirming }

// Importing reports whether the import path prompt is showing.
func (m *Model) Importing() bool { return m.importing }

// BeginClear shows the clear confirmation.
func (m *Model) BeginClear() {
	m.importing = false
	m.confirming = true
	m.cursor = len(items) - 1
}

// BeginImport shows the import path prompt.
func (m *Model) BeginImport() tea.Cmd {
	m.confirming = false
	m.importing = true
	m.cursor = len(items) - 2
	return m.path.Focus()
}

// Cancel leaves the confirmation or import prompt.
func (m *Model) Cancel() bool {
	if !m.confirming && !m.importing {
		return false
	}
	m.confirming = false
	m.importing = false
	m.path.Blur()
	m.path.SetValue("")
	return true
}

// Focus implements ui.Focusable.
func (m *Model) Focus() tea.Cmd {
	if m.importing {
		return m.path.Focus()
	}
	return nil
}

// Blur implements ui.Focusable.
func (m *Model) Blur() { m.path.Blur() }

// CapturesKeys implements ui.Capturing.
func (m *Model) CapturesKeys() bool { return m.importing || m.confirming }

// Update moves the cursor and fires actions.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.confirming {
		m.confirming = false
		if s := key.String(); s == "y" || s == "Y" {
			return m, events.ActionCmd(ID, events.ActionClear, "")
		}
		return m, events.StatusCmd("Clear cancelled", false)
	}
	if m.importing {
		switch key.String() {
		case "esc":
			m.Cancel()
			return m, events.StatusCmd("Import cancelled", false)
		case "enter":
			path := strings.TrimSpace(m.path.Value())
			m.Cancel()
			if path == "" {
				return m, events.StatusCmd("Import cancelled", false)
			}
			return m, events.ActionCmd(ID, events.ActionImport, path)
		}
		var cmd tea.Cmd
		m.path, cmd = m.path.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "up", "k":
		m.cursor = (m.cursor + len(items) - 1) % len(items)
	case "down", "j":
		m.cursor = (m.cursor + 1) % len(items)
	case "enter", " ", "space":
		return m, m.activate(items[m.cursor].action)
	}
	return m, nil
}

func (m *Model) activate(a events.Action) tea.Cmd {
	switch a {
	case events.ActionImport:
		return m.BeginImport()
	case events.ActionClear:
		m.BeginClear()
		return nil
	case events.ActionExport:
		return events.ActionCmd(ID, a, m.info.ExportDir)
	default:
		return events.ActionCmd(ID, a, "")
	}
}

// View renders the menu, any prompt and the info block.
func (m *Model) View() string {
	var rows []string
	for i, it := range items {
		label := it.label + m.value(it.action)
		line := "  " + m.styles.Item.Render(label)
		if i == m.cursor {
			line = m.styles.Selected.Render("› " + label)
		}
		if it.action == events.ActionClear {
			line = m.styles.Danger.Render(line)
		}
		rows = append(rows, line+"  "+m.styles.Hint.Render(it.hint))
	}

	switch {
	case m.confirming:
		rows = append(rows, "", m.styles.Danger.Render("Clear all messages and journal entries? This cannot be undone. [y/N]"))
	case m.importing:
		rows = append(rows, "", m.path.View(), m.styles.Hint.Render("enter import · esc cancel"))
	}

	speech := "not configured"
	if m.info.Speech {
		speech = "configured"
	}
	rows = append(rows, "",
		m.styles.Hint.Render(fmt.Sprintf("Data        %s", m.info.DataPath)),
		m.styles.Hint.Render(fmt.Sprintf("Exports     %s", m.info.ExportDir)),
		m.styles.Hint.Render(fmt.Sprintf("Replies     %s", m.info.ReplyEndpoint)),
		m.styles.Hint.Render(fmt.Sprintf("Voice input %s", speech)),
		m.styles.Hint.Render(fmt.Sprintf("Stored      %d messages · %d entries", m.info.Messages, m.info.Entries)),
	)
	return lipgloss.NewStyle().MaxWidth(max(1, m.width)).Render(strings.Join(rows, "\n"))
}

func (m *Model) value(a events.Action) string {
	switch a {
	case events.ActionToggleTheme:
		return ": " + m.themeName
	case events.ActionToggleMotion:
		if m.reduced {
			return ": on"
		}
		return ": off"
	}
	return ""
}
