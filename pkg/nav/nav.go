// Package nav holds view navigation state: which of the four views is shown
// and whether the sidebar overlay is open.
package nav

import (
	"fmt"
	"strings"
)

// View names one of the top-level views.
type View int

const (
	Chat View = iota
	Journal
	Analytics
	Settings
)

// Views lists every view in sidebar order.
var Views = []View{Chat, Journal, Analytics, Settings}

var viewNames = map[View]string{
	Chat:      "chat",
	Journal:   "journal",
	Analytics: "analytics",
	Settings:  "settings",
}

var viewTitles = map[View]string{
	Chat:      "Chat",
	Journal:   "Journal",
	Analytics: "Analytics",
	Settings:  "Settings",
}

func (v View) String() string {
	if n, ok := viewNames[v]; ok {
		return n
	}
	return fmt.Sprintf("view(%d)", int(v))
}

// Title is the sidebar label.
func (v View) Title() string {
	return viewTitles[v]
}

// ParseView resolves a view name.
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, n := range viewNames {
		if n == s {
			return v, nil
		}
	}
	return Chat, fmt.Errorf("nav: unknown view %q", s)
}

// State is the navigation state. The zero value shows chat with the sidebar
// closed.
type State struct {
	active      View
	sidebarOpen bool
}

// Active is the visible view.
func (s *State) Active() View {
	return s.active
}

// Visible reports whether v is the shown view. Exactly one view is visible.
func (s *State) Visible(v View) bool {
	return s.active == v
}

// Show switches to v and closes the sidebar.
func (s *State) Show(v View) {
	if _, ok := viewNames[v]; !ok {
		return
	}
	s.active = v
	s.sidebarOpen = false
}

// Next cycles forward through Views.
func (s *State) Next() {
	s.Show(Views[(int(s.active)+1)%len(Views)])
}

// Prev cycles backward through Views.
func (s *State) Prev() {
	s.Show(Views[(int(s.active)+len(Views)-1)%len(Views)])
}

// ComposerVisible reports whether the message composer is shown.
func (s *State) ComposerVisible() bool {
	return s.active == Chat
}

// SidebarOpen reports whether the sidebar overlay is open.
func (s *State) SidebarOpen() bool {
	return s.sidebarOpen
}

// ToggleSidebar opens or closes the sidebar overlay.
func (s *State) ToggleSidebar() {
	s.sidebarOpen = !s.sidebarOpen
}

// CloseSidebar closes the sidebar overlay.
func (s *State) CloseSidebar() {
	s.sidebarOpen = false
}
