// Package ui holds the contracts shared by SoulSync views and widgets.
package ui

import tea "github.com/charmbracelet/bubbletea/v2"

// Component defines the contract for reusable Bubble Tea widgets.
type Component interface {
	Init() tea.Cmd
	Update(tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Focusable is implemented by components that own a text input.
type Focusable interface {
	Focus() tea.Cmd
	Blur()
}

// Capturing is implemented by components that want printable keys for
// themselves, e.g. while an input is focused, so global shortcuts that are
// plain characters are not triggered.
type Capturing interface {
	CapturesKeys() bool
}
