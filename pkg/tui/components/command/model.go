// Package command renders the footer: a status line that turns into a
// ":"-style command prompt with tab completion.
package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/soulsync/pkg/tui/events"
	"tableflip.dev/soulsync/pkg/tui/theme"
	"tableflip.dev/soulsync/pkg/tui/ui"
)

// Suggestion is a command the prompt can complete to.
type Suggestion struct {
	Name        string
	Description string
}

// Options configures the command bar.
type Options struct {
	ID           events.ComponentID
	PromptPrefix string
	Placeholder  string
	StatusText   string
	Hint         string
}

// Mode identifies the command component operating state.
type Mode int

const (
	// ModePassive displays the status line.
	ModePassive Mode = iota
	// ModeInput collects a command.
	ModeInput
)

// Model is the footer bar.
type Model struct {
	id     events.ComponentID
	mode   Mode
	width  int
	styles theme.FooterTheme

	status    string
	statusErr bool
	hint      string

	prompt textinput.Model
	prefix string

	suggestions []Suggestion
	matches     []Suggestion
	selected    int
	typed       string
}

// New constructs a command bar.
func New(opts Options, th theme.FooterTheme) *Model {
	prompt := textinput.New()
	prompt.Placeholder = opts.Placeholder
	prompt.Prompt = ""
	prompt.Blur()

	id := opts.ID
	if id == "" {
		id = events.ComponentID("command")
	}
	return &Model{
		id:       id,
		status:   opts.StatusText,
		hint:     opts.Hint,
		prompt:   prompt,
		prefix:   opts.PromptPrefix,
		styles:   th,
		selected: -1,
	}
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize implements ui.Component; the bar is always one row.
func (m *Model) SetSize(width, _ int) {
	m.width = max(width, 1)
	m.fitPrompt()
}

// fitPrompt sizes the text input to its contents so the completion hints
// can follow the cursor instead of sitting past a fully padded prompt.
func (m *Model) fitPrompt() {
	avail := max(1, m.width-lipgloss.Width(m.prefix)-1)
	want := max(lipgloss.Width(m.prompt.Value()), lipgloss.Width(m.prompt.Placeholder)) + 1
	m.prompt.SetWidth(min(want, avail))
}

// SetTheme swaps the footer styles.
func (m *Model) SetTheme(th theme.FooterTheme) {
	m.styles = th
}

// SetStatus updates the passive status text.
func (m *Model) SetStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// Status returns the current status text.
func (m *Model) Status() string {
	return m.status
}

// SetHint sets the key hint shown on the right of the status line.
func (m *Model) SetHint(text string) {
	m.hint = text
}

// SetSuggestions configures the completion list.
func (m *Model) SetSuggestions(options []Suggestion) {
	m.suggestions = append([]Suggestion(nil), options...)
	m.filter(m.prompt.Value())
}

// InInputMode reports if the prompt is active.
func (m *Model) InInputMode() bool { return m.mode == ModeInput }

// CapturesKeys implements ui.Capturing.
func (m *Model) CapturesKeys() bool { return m.mode == ModeInput }

// Value returns the current prompt contents.
func (m *Model) Value() string { return m.prompt.Value() }

// BeginInput switches the bar into input mode.
func (m *Model) BeginInput(initial string) tea.Cmd {
	m.mode = ModeInput
	m.prompt.SetValue(initial)
	m.prompt.CursorEnd()
	m.filter(initial)
	return m.prompt.Focus()
}

// ExitInput returns the bar to passive mode.
func (m *Model) ExitInput() {
	m.mode = ModePassive
	m.prompt.Blur()
	m.prompt.SetValue("")
	m.matches = nil
	m.selected = -1
	m.typed = ""
}

func (m *Model) filter(value string) {
	m.typed = value
	m.selected = -1
	m.fitPrompt()
	prefix := strings.ToLower(strings.TrimSpace(value))
	m.matches = m.matches[:0]
	for _, s := range m.suggestions {
		if strings.HasPrefix(strings.ToLower(s.Name), prefix) {
			m.matches = append(m.matches, s)
		}
	}
}

// complete cycles the prompt through the suggestions matching what was typed.
func (m *Model) complete(delta int) {
	if len(m.matches) == 0 {
		return
	}
	n := len(m.matches)
	if m.selected < 0 && delta < 0 {
		m.selected = n - 1
	} else {
		m.selected = ((m.selected+delta)%n + n) % n
	}
	m.prompt.SetValue(m.matches[m.selected].Name)
	m.prompt.CursorEnd()
	m.fitPrompt()
}

// Update routes keys to the prompt while in input mode.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	if m.mode != ModeInput {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.ExitInput()
			return m, events.CommandCancelCmd(m.id)
		case "enter":
			value := strings.TrimSpace(m.prompt.Value())
			m.ExitInput()
			if value == "" {
				return m, events.CommandCancelCmd(m.id)
			}
			return m, events.CommandSubmitCmd(m.id, value)
		case "tab", "down":
			m.complete(1)
			return m, nil
		case "shift+tab", "up":
			m.complete(-1)
			return m, nil
		}
	}
	prev := m.prompt.Value()
	m.prompt.SetWidth(max(1, m.width-lipgloss.Width(m.prefix)-1))
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	if v := m.prompt.Value(); v != prev {
		m.filter(v)
	} else {
		m.fitPrompt()
	}
	return m, cmd
}

// View renders the single footer row.
func (m *Model) View() string {
	if m.mode == ModeInput {
		line := m.prefix + m.prompt.View()
		room := m.width - lipgloss.Width(m.prefix) - lipgloss.Width(m.prompt.Value()) - 3
		if hints := m.renderMatches(room); hints != "" {
			line += "  " + hints
		}
		return pad(line, m.width)
	}

	style := m.styles.Status
	if m.statusErr {
		style = m.styles.Error
	}
	left := style.Render(m.status)
	right := m.styles.Help.Render(m.hint)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return pad(left, m.width)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderMatches(room int) string {
	var parts []string
	used := 0
	for i, s := range m.matches {
		name, desc := m.styles.CommandName, m.styles.CommandDescription
		if i == m.selected {
			name, desc = m.styles.CommandSelectedName, m.styles.CommandSelectedDesc
		}
		part := name.Render(s.Name)
		if len(m.matches) == 1 && s.Description != "" {
			part += " " + desc.Render(s.Description)
		}
		w := lipgloss.Width(part) + 1
		if used+w > room {
			break
		}
		used += w
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

func pad(s string, width int) string {
	cur := lipgloss.Width(s)
	if cur >= width {
		return lipgloss.NewStyle().MaxWidth(width).Render(s)
	}
	return s + strings.Repeat(" ", width-cur)
}
