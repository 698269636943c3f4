// Package chat renders the conversation transcript and the message composer.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	chatflow "tableflip.dev/soulsync/pkg/chat"
	"tableflip.dev/soulsync/pkg/message"
	"tableflip.dev/soulsync/pkg/speech"
	"tableflip.dev/soulsync/pkg/tui/events"
	"tableflip.dev/soulsync/pkg/tui/theme"
	"tableflip.dev/soulsync/pkg/tui/ui"
)

const (
	// ID identifies the chat view in events.
	ID = events.ComponentID("chat")

	composerRows = 3
	typingLine   = "SoulSync is typing…"
	welcome      = "Say hello. Whatever is on your mind, there is room for it here."
)

// Model is the chat view.
type Model struct {
	transcript viewport.Model
	input      textinput.Model
	styles     theme.ChatTheme

	messages []message.Message
	// stream reveals the last message while a reply is being shown.
	stream   *chatflow.Stream
	busy     bool
	thinking bool
	visible  bool

	width  int
	height int
}

// New builds the chat view.
func New(th theme.ChatTheme) *Model {
	in := textinput.New()
	in.Placeholder = "Share what's on your mind…"
	in.Prompt = "› "
	in.CharLimit = 4000
	return &Model{
		transcript: viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		input:      in,
		styles:     th,
		visible:    true,
	}
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize implements ui.Component.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = max(width, 10), max(height, composerRows+1)
	m.transcript.SetWidth(m.width)
	m.transcript.SetHeight(m.transcriptHeight())
	m.input.SetWidth(max(1, m.width-6))
	m.refresh(true)
}

func (m *Model) transcriptHeight() int {
	h := m.height
	if m.visible {
		h -= composerRows
	}
	return max(1, h)
}

// SetComposerVisible shows or hides the composer row.
func (m *Model) SetComposerVisible(v bool) {
	if m.visible == v {
		return
	}
	m.visible = v
	m.transcript.SetHeight(m.transcriptHeight())
}

// SetTheme swaps styles.
func (m *Model) SetTheme(th theme.ChatTheme) {
	m.styles = th
	m.refresh(false)
}

// SetMessages replaces the transcript and scrolls to the end.
func (m *Model) SetMessages(msgs []message.Message) {
	m.messages = msgs
	m.refresh(true)
}

// BeginStream shows the last message through s until EndStream.
func (m *Model) BeginStream(s *chatflow.Stream) {
	m.stream = s
	m.refresh(true)
}

// Streaming reports whether a reply is being revealed.
func (m *Model) Streaming() bool {
	return m.stream != nil
}

// StreamTick reveals the next token and reports whether more remain.
func (m *Model) StreamTick() bool {
	if m.stream == nil {
		return false
	}
	if _, ok := m.stream.Next(); !ok {
		return false
	}
	m.refresh(m.stream.ShouldScroll())
	return !m.stream.Done()
}

// EndStream shows the full last message again.
func (m *Model) EndStream() {
	m.stream = nil
	m.refresh(true)
}

// SetBusy disables the composer and toggles the typing indicator.
func (m *Model) SetBusy(busy, thinking bool) {
	m.busy, m.thinking = busy, thinking
	if busy {
		m.input.Blur()
	}
	m.refresh(true)
}

// Busy reports whether input is disabled.
func (m *Model) Busy() bool { return m.busy }

// Value is the composer text.
func (m *Model) Value() string { return m.input.Value() }

// Reset clears the composer.
func (m *Model) Reset() { m.input.SetValue("") }

// AppendTranscript adds recognized speech to the composer.
func (m *Model) AppendTranscript(text string) {
	m.input.SetValue(speech.AppendTranscript(m.input.Value(), text))
	m.input.CursorEnd()
}

// Focus implements ui.Focusable.
func (m *Model) Focus() tea.Cmd {
	if m.busy {
		return nil
	}
	return m.input.Focus()
}

// Blur implements ui.Focusable.
func (m *Model) Blur() { m.input.Blur() }

// CapturesKeys implements ui.Capturing.
func (m *Model) CapturesKeys() bool { return m.input.Focused() }

// Update handles composer keys and transcript scrolling.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "esc":
		if m.stream != nil {
			return m, events.StreamCancelCmd(ID)
		}
		return m, nil
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	case "ctrl+r":
		if m.busy {
			return m, nil
		}
		return m, events.TranscribeRequestCmd(ID)
	case "enter":
		if m.busy || strings.TrimSpace(m.input.Value()) == "" {
			return m, nil
		}
		return m, events.ChatSubmitCmd(ID, m.input.Value())
	}
	if m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the transcript above the composer.
func (m *Model) View() string {
	if !m.visible {
		return m.transcript.View()
	}
	style := m.styles.Composer
	if m.busy {
		style = m.styles.Disabled
	}
	composer := style.Width(m.width).Render(m.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.transcript.View(), composer)
}

func (m *Model) refresh(scroll bool) {
	if m.width == 0 {
		return
	}
	m.transcript.SetContent(m.render())
	if scroll {
		m.transcript.GotoBottom()
	}
}

func (m *Model) render() string {
	if len(m.messages) == 0 && !m.thinking {
		return m.styles.Empty.Render(wordwrap.String(welcome, m.width))
	}
	wrap := max(10, m.width-4)
	var b strings.Builder
	for i, msg := range m.messages {
		text := msg.Text
		if m.stream != nil && i == len(m.messages)-1 {
			text = m.stream.Revealed()
		}
		style := m.styles.Assistant
		if msg.Role == message.User {
			style = m.styles.User
		}
		header := msg.Role.Avatar() + " " + m.styles.Time.Render(msg.Time.Local().Format("15:04"))
		body := indent(wordwrap.String(text, wrap), "   ")
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(header)
		b.WriteByte('\n')
		b.WriteString(style.Render(body))
	}
	if m.thinking {
		if len(m.messages) > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.styles.Typing.Render(message.Assistant.Avatar() + " " + typingLine))
	}
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
