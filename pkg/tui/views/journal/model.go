// Package journal renders the mood journal: the editor with prompt and mood
// slider next to the list of saved entries.
package journal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/tui/events"
	"tableflip.dev/soulsync/pkg/tui/theme"
	"tableflip.dev/soulsync/pkg/tui/ui"
)

// ID identifies the journal view in events.
const ID = events.ComponentID("journal")

// Focus is the journal area receiving keys.
type Focus int

const (
	FocusText Focus = iota
	FocusMood
	FocusList
)

const editorRows = 9

// Model is the journal view.
type Model struct {
	text    textinput.Model
	entries list.Model
	styles  theme.JournalTheme

	prompt string
	mood   journal.Mood
	focus  Focus
	notice string

	width   int
	height  int
	stacked bool
	editorW int
}

// New builds the journal view with an empty editor.
func New(th theme.JournalTheme) *Model {
	in := textinput.New()
	in.Placeholder = "Write freely…"
	in.Prompt = ""
	in.CharLimit = 10000

	d := list.NewDefaultDelegate()
	d.SetSpacing(1)
	l := list.New(nil, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return &Model{
		text:    in,
		entries: l,
		styles:  th,
		prompt:  journal.DefaultPrompt(),
		mood:    journal.DefaultMood,
	}
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize implements ui.Component. Narrow terminals stack the list under the
// editor.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = max(width, 20), max(height, editorRows+2)
	m.stacked = m.width < 80
	if m.stacked {
		m.editorW = m.width
		m.entries.SetSize(m.width, max(2, m.height-editorRows))
	} else {
		m.editorW = m.width * 11 / 20
		m.entries.SetSize(m.width-m.editorW-2, m.height)
	}
	m.text.SetWidth(max(1, m.editorW-6))
}

// SetTheme swaps styles.
func (m *Model) SetTheme(th theme.JournalTheme) {
	m.styles = th
}

// SetEntries replaces the list; entries are expected newest first.
func (m *Model) SetEntries(entries []journal.Entry) {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryItem{e: e})
	}
	m.entries.SetItems(items)
}

// EntryCount is the number of listed entries.
func (m *Model) EntryCount() int {
	return len(m.entries.Items())
}

// SetDraft puts restored or externally edited draft text into the editor.
func (m *Model) SetDraft(text string) {
	if m.text.Value() == text {
		return
	}
	m.text.SetValue(text)
	m.text.CursorEnd()
}

// Text is the editor text.
func (m *Model) Text() string { return m.text.Value() }

// Prompt is the selected prompt.
func (m *Model) Prompt() string { return m.prompt }

// Mood is the slider value.
func (m *Model) Mood() journal.Mood { return m.mood }

// Focused is the area receiving keys.
func (m *Model) Focused() Focus { return m.focus }

// SetNotice shows a one-line message under the editor.
func (m *Model) SetNotice(text string) {
	m.notice = text
}

// ResetEditor clears the text after a save or for a new entry. The prompt
// stays and the mood returns to the middle.
func (m *Model) ResetEditor() {
	m.text.SetValue("")
	m.mood = journal.DefaultMood
	m.notice = ""
}

// Focus implements ui.Focusable.
func (m *Model) Focus() tea.Cmd {
	if m.focus == FocusText {
		return m.text.Focus()
	}
	return nil
}

// Blur implements ui.Focusable.
func (m *Model) Blur() { m.text.Blur() }

// CapturesKeys implements ui.Capturing.
func (m *Model) CapturesKeys() bool {
	return m.focus != FocusList
}

func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	if f == FocusText {
		return m.text.Focus()
	}
	m.text.Blur()
	return nil
}

// Update routes keys by focus area.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "tab":
		return m, m.setFocus((m.focus + 1) % 3)
	case "shift+tab":
		return m, m.setFocus((m.focus + 2) % 3)
	case "ctrl+p":
		m.prompt = journal.NextPrompt(m.prompt)
		return m, nil
	case "ctrl+n":
		m.ResetEditor()
		return m, tea.Batch(m.setFocus(FocusText), events.DraftChangedCmd(ID, ""))
	}

	switch m.focus {
	case FocusMood:
		return m, m.updateMood(key)
	case FocusList:
		return m, m.updateList(msg, key)
	default:
		return m, m.updateText(msg, key)
	}
}

func (m *Model) save() tea.Cmd {
	return events.EntrySaveCmd(ID, m.prompt, m.text.Value(), m.mood)
}

func (m *Model) updateText(msg tea.Msg, key tea.KeyMsg) tea.Cmd {
	if key.String() == "enter" {
		return m.save()
	}
	prev := m.text.Value()
	var cmd tea.Cmd
	m.text, cmd = m.text.Update(msg)
	if v := m.text.Value(); v != prev {
		m.notice = ""
		return tea.Batch(cmd, events.DraftChangedCmd(ID, v))
	}
	return cmd
}

func (m *Model) updateMood(key tea.KeyMsg) tea.Cmd {
	switch s := key.String(); s {
	case "left", "h", "-":
		m.mood = m.mood.Dec()
	case "right", "l", "+":
		m.mood = m.mood.Inc()
	case "1", "2", "3", "4", "5":
		m.mood, _ = journal.ParseMood(s)
	case "enter":
		return m.save()
	}
	return nil
}

func (m *Model) updateList(msg tea.Msg, key tea.KeyMsg) tea.Cmd {
	if key.String() == "enter" {
		item, ok := m.entries.SelectedItem().(entryItem)
		if !ok {
			return nil
		}
		m.prompt = item.e.Prompt
		m.mood = item.e.Mood
		m.text.SetValue(item.e.Text)
		m.text.CursorEnd()
		return m.setFocus(FocusText)
	}
	var cmd tea.Cmd
	m.entries, cmd = m.entries.Update(msg)
	return cmd
}

// View renders the editor and the list.
func (m *Model) View() string {
	editor := m.renderEditor()
	var entries string
	if m.EntryCount() == 0 {
		entries = m.styles.Label.Render("No entries yet. Your first one will show up here.")
	} else {
		entries = m.entries.View()
	}
	if m.stacked {
		return lipgloss.JoinVertical(lipgloss.Left, editor, entries)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, editor, "  ", entries)
}

func (m *Model) renderEditor() string {
	box := m.styles.Blurred
	if m.focus == FocusText {
		box = m.styles.Focused
	}
	lines := []string{
		m.styles.Prompt.Render(truncate.StringWithTail(m.prompt, uint(max(1, m.editorW)), "…")),
		box.Width(m.editorW).Render(m.text.View()),
		m.renderMood(),
		"",
		m.styles.Label.Render("enter save · ctrl+p prompt · ctrl+n new · tab focus"),
	}
	if m.notice != "" {
		lines = append(lines, m.styles.Highlighted.Render(m.notice))
	}
	return lipgloss.NewStyle().Width(m.editorW).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderMood() string {
	label := m.styles.Label
	if m.focus == FocusMood {
		label = m.styles.Highlighted
	}
	var dots []string
	for v := journal.MinMood; v <= journal.MaxMood; v++ {
		if v == m.mood {
			dots = append(dots, m.styles.MoodOn.Render("●"))
			continue
		}
		dots = append(dots, m.styles.MoodOff.Render("○"))
	}
	return fmt.Sprintf("%s %s %s  %d %s",
		label.Render("Mood"),
		journal.MinMood.Emoji(),
		strings.Join(dots, " ")+" "+journal.MaxMood.Emoji(),
		m.mood, m.mood.Emoji())
}

type entryItem struct {
	e journal.Entry
}

func (i entryItem) Title() string       { return i.e.Meta() }
func (i entryItem) Description() string { return i.e.Preview() }
func (i entryItem) FilterValue() string { return i.e.Text }
