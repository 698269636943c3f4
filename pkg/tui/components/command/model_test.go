package command

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/soulsync/pkg/tui/events"
	"tableflip.dev/soulsync/pkg/tui/theme"
)

func newBar(width int) *Model {
	m := New(Options{
		ID:           "test-command",
		PromptPrefix: ":",
		StatusText:   "Ready",
		Hint:         ": command",
	}, theme.Dark().Footer)
	m.SetSuggestions([]Suggestion{
		{Name: "chat", Description: "Open chat"},
		{Name: "clear", Description: "Erase all data"},
		{Name: "journal", Description: "Open journal"},
	})
	m.SetSize(width, 1)
	return m
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestPassiveViewFitsWidth(t *testing.T) {
	m := newBar(60)
	view := m.View()
	if w := lipgloss.Width(view); w != 60 {
		t.Fatalf("width = %d, want 60", w)
	}
	if !strings.Contains(view, "Ready") || !strings.Contains(view, ": command") {
		t.Fatalf("status line missing text: %q", view)
	}
}

func TestPassiveIgnoresKeys(t *testing.T) {
	m := newBar(40)
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("passive bar must not emit commands")
	}
}

func TestSubmitTrimsValue(t *testing.T) {
	m := newBar(60)
	m.BeginInput("")
	typeText(m, " journal ")
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	msg, ok := cmd().(events.CommandSubmitMsg)
	if !ok {
		t.Fatalf("expected CommandSubmitMsg")
	}
	if msg.Value != "journal" || msg.Component != "test-command" {
		t.Fatalf("submit = %+v", msg)
	}
	if m.InInputMode() {
		t.Fatalf("bar should leave input mode after submit")
	}
}

func TestBlankSubmitCancels(t *testing.T) {
	m := newBar(60)
	m.BeginInput("   ")
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := cmd().(events.CommandCancelMsg); !ok {
		t.Fatalf("blank submit should cancel")
	}
}

func TestEscapeCancels(t *testing.T) {
	m := newBar(60)
	m.BeginInput("cha")
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(events.CommandCancelMsg); !ok {
		t.Fatalf("esc should cancel")
	}
	if m.Value() != "" {
		t.Fatalf("value should reset, got %q", m.Value())
	}
}

func TestTabCompletesMatches(t *testing.T) {
	m := newBar(80)
	m.BeginInput("c")
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if m.Value() != "chat" {
		t.Fatalf("first tab = %q, want chat", m.Value())
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if m.Value() != "clear" {
		t.Fatalf("second tab = %q, want clear", m.Value())
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if m.Value() != "chat" {
		t.Fatalf("tab should wrap, got %q", m.Value())
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if m.Value() != "clear" {
		t.Fatalf("shift+tab = %q, want clear", m.Value())
	}
}

func TestInputViewShowsMatches(t *testing.T) {
	m := newBar(80)
	m.BeginInput("jo")
	view := m.View()
	if !strings.Contains(view, "journal") || !strings.Contains(view, "Open journal") {
		t.Fatalf("single match should show its description: %q", view)
	}
	if w := lipgloss.Width(view); w != 80 {
		t.Fatalf("width = %d, want 80", w)
	}
}

func TestTypedMatchesFollowPrompt(t *testing.T) {
	m := newBar(80)
	m.BeginInput("")
	typeText(m, "c")
	view := m.View()
	for _, want := range []string{"chat", "clear"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q: %q", want, view)
		}
	}
	if w := lipgloss.Width(view); w != 80 {
		t.Fatalf("width = %d, want 80", w)
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	view = m.View()
	if !strings.Contains(view, "chat") || !strings.Contains(view, "clear") {
		t.Fatalf("completion should keep the match list visible: %q", view)
	}
}
