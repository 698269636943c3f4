// Package events defines the messages SoulSync components exchange through the
// Bubble Tea update loop.
package events

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/chat"
	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/nav"
	"tableflip.dev/soulsync/pkg/store"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// ShowViewMsg asks the root to switch the visible view.
type ShowViewMsg struct {
	Component ComponentID
	View      nav.View
}

// Describe renders the request for the event log.
func (m ShowViewMsg) Describe() string {
	return fmt.Sprintf(`view:%q`, m.View)
}

// ShowViewCmd wraps ShowViewMsg.
func ShowViewCmd(component ComponentID, v nav.View) tea.Cmd {
	return func() tea.Msg {
		return ShowViewMsg{Component: component, View: v}
	}
}

// ChatSubmitMsg is emitted when the composer is submitted.
type ChatSubmitMsg struct {
	Component ComponentID
	Text      string
}

// Describe implements the logging helper.
func (m ChatSubmitMsg) Describe() string {
	return fmt.Sprintf(`chars:%d`, len(m.Text))
}

// ChatSubmitCmd wraps ChatSubmitMsg.
func ChatSubmitCmd(component ComponentID, text string) tea.Cmd {
	return func() tea.Msg {
		return ChatSubmitMsg{Component: component, Text: text}
	}
}

// ReplyMsg carries the outcome of a reply request back into the loop.
type ReplyMsg struct {
	Outcome *chat.Outcome
	Err     error
}

// Describe implements the logging helper.
func (m ReplyMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`err:%q`, m.Err.Error())
	}
	if m.Outcome == nil {
		return "empty"
	}
	return fmt.Sprintf(`fallback:%t chars:%d`, m.Outcome.Fallback, len(m.Outcome.Message.Text))
}

// StreamTickMsg reveals the next token of the stream numbered Seq.
type StreamTickMsg struct {
	Seq int
}

// Describe implements the logging helper.
func (m StreamTickMsg) Describe() string {
	return fmt.Sprintf(`seq:%d`, m.Seq)
}

// StreamCancelMsg asks the active stream to reveal the rest at once.
type StreamCancelMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m StreamCancelMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// StreamCancelCmd wraps StreamCancelMsg.
func StreamCancelCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return StreamCancelMsg{Component: component}
	}
}

// StarTickMsg advances the starfield; ticks from an old Gen are dropped.
type StarTickMsg struct {
	Gen int
	At  time.Time
}

// TranscribeRequestMsg asks for a single voice capture.
type TranscribeRequestMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m TranscribeRequestMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// TranscribeRequestCmd wraps TranscribeRequestMsg.
func TranscribeRequestCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return TranscribeRequestMsg{Component: component}
	}
}

// TranscriptMsg carries the result of a voice capture.
type TranscriptMsg struct {
	Text string
	Err  error
}

// Describe implements the logging helper.
func (m TranscriptMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`err:%q`, m.Err.Error())
	}
	return fmt.Sprintf(`chars:%d`, len(m.Text))
}

// DraftChangedMsg is emitted on every edit of the journal editor.
type DraftChangedMsg struct {
	Component ComponentID
	Text      string
}

// Describe implements the logging helper.
func (m DraftChangedMsg) Describe() string {
	return fmt.Sprintf(`chars:%d`, len(m.Text))
}

// DraftChangedCmd wraps DraftChangedMsg.
func DraftChangedCmd(component ComponentID, text string) tea.Cmd {
	return func() tea.Msg {
		return DraftChangedMsg{Component: component, Text: text}
	}
}

// EntrySaveMsg asks the root to persist a new journal entry.
type EntrySaveMsg struct {
	Component ComponentID
	Prompt    string
	Text      string
	Mood      journal.Mood
}

// Describe implements the logging helper.
func (m EntrySaveMsg) Describe() string {
	return fmt.Sprintf(`prompt:%q mood:%d chars:%d`, m.Prompt, m.Mood, len(m.Text))
}

// EntrySaveCmd wraps EntrySaveMsg.
func EntrySaveCmd(component ComponentID, prompt, text string, mood journal.Mood) tea.Cmd {
	return func() tea.Msg {
		return EntrySaveMsg{Component: component, Prompt: prompt, Text: text, Mood: mood}
	}
}

// Action names a settings operation.
type Action string

const (
	ActionToggleTheme  Action = "theme"
	ActionToggleMotion Action = "motion"
	ActionExport       Action = "export"
	ActionImport       Action = "import"
	ActionClear        Action = "clear"
	ActionNewChat      Action = "new-chat"
)

// ActionMsg is emitted by the settings view and the command bar.
type ActionMsg struct {
	Component ComponentID
	Action    Action
	// Arg is the export directory or import path.
	Arg string
}

// Describe implements the logging helper.
func (m ActionMsg) Describe() string {
	return fmt.Sprintf(`action:%q arg:%q`, m.Action, m.Arg)
}

// ActionCmd wraps ActionMsg.
func ActionCmd(component ComponentID, action Action, arg string) tea.Cmd {
	return func() tea.Msg {
		return ActionMsg{Component: component, Action: action, Arg: arg}
	}
}

// ExportDoneMsg reports a finished export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// Describe implements the logging helper.
func (m ExportDoneMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`err:%q`, m.Err.Error())
	}
	return fmt.Sprintf(`path:%q`, m.Path)
}

// ImportDoneMsg reports a finished import.
type ImportDoneMsg struct {
	Path   string
	Result app.ImportResult
	Err    error
}

// Describe implements the logging helper.
func (m ImportDoneMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`path:%q err:%q`, m.Path, m.Err.Error())
	}
	return fmt.Sprintf(`path:%q messages:%d entries:%d`, m.Path, m.Result.Messages, m.Result.Entries)
}

// StoreChangedMsg is emitted when another process rewrote a slot.
type StoreChangedMsg struct {
	Event store.Event
}

// Describe implements the logging helper.
func (m StoreChangedMsg) Describe() string {
	if m.Event.Slot == "" {
		return `slot:"*"`
	}
	return fmt.Sprintf(`slot:%q`, m.Event.Slot)
}

// CommandMode represents the current state of the command prompt.
type CommandMode string

const (
	// CommandModePassive indicates the command bar is idle.
	CommandModePassive CommandMode = "passive"
	// CommandModeInput indicates the command bar is collecting user input.
	CommandModeInput CommandMode = "input"
)

// CommandSubmitMsg is emitted when the command input is submitted.
type CommandSubmitMsg struct {
	Component ComponentID
	Value     string
}

// Describe implements the logging helper.
func (m CommandSubmitMsg) Describe() string {
	return fmt.Sprintf(`value:%q`, m.Value)
}

// CommandSubmitCmd wraps CommandSubmitMsg.
func CommandSubmitCmd(component ComponentID, value string) tea.Cmd {
	return func() tea.Msg {
		return CommandSubmitMsg{Component: component, Value: value}
	}
}

// CommandCancelMsg is emitted when command entry is cancelled.
type CommandCancelMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m CommandCancelMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// CommandCancelCmd wraps CommandCancelMsg.
func CommandCancelCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return CommandCancelMsg{Component: component}
	}
}

// StatusMsg replaces the footer status text.
type StatusMsg struct {
	Text  string
	Error bool
}

// Describe implements the logging helper.
func (m StatusMsg) Describe() string {
	return fmt.Sprintf(`text:%q error:%t`, m.Text, m.Error)
}

// StatusCmd wraps StatusMsg.
func StatusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: text, Error: isErr}
	}
}
