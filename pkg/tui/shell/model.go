// Package shell hosts the root Bubble Tea model of the SoulSync terminal UI.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/soulsync/pkg/analytics"
	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/chat"
	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/nav"
	"tableflip.dev/soulsync/pkg/reply"
	"tableflip.dev/soulsync/pkg/speech"
	"tableflip.dev/soulsync/pkg/starfield"
	"tableflip.dev/soulsync/pkg/store"
	"tableflip.dev/soulsync/pkg/tui/components/command"
	"tableflip.dev/soulsync/pkg/tui/components/eventviewer"
	"tableflip.dev/soulsync/pkg/tui/components/help"
	"tableflip.dev/soulsync/pkg/tui/components/panel"
	"tableflip.dev/soulsync/pkg/tui/events"
	"tableflip.dev/soulsync/pkg/tui/theme"
	"tableflip.dev/soulsync/pkg/tui/ui"
	analyticsview "tableflip.dev/soulsync/pkg/tui/views/analytics"
	chatview "tableflip.dev/soulsync/pkg/tui/views/chat"
	journalview "tableflip.dev/soulsync/pkg/tui/views/journal"
	settingsview "tableflip.dev/soulsync/pkg/tui/views/settings"
)

const footerID = events.ComponentID("footer")

const statusReady = "Ready"

var commandDefinitions = []command.Suggestion{
	{Name: "chat", Description: "Show the chat"},
	{Name: "journal", Description: "Show the journal"},
	{Name: "analytics", Description: "Show mood analytics"},
	{Name: "settings", Description: "Show settings"},
	{Name: "stats", Description: "Set the analytics window, e.g. stats 7d"},
	{Name: "theme", Description: "Toggle dark and light"},
	{Name: "motion", Description: "Toggle reduced motion"},
	{Name: "new", Description: "Start a new chat"},
	{Name: "export", Description: "Export data [dir]"},
	{Name: "import", Description: "Import data <file>"},
	{Name: "clear", Description: "Clear all data (asks first)"},
	{Name: "help", Description: "Show key reference"},
	{Name: "debug", Description: "Toggle the event log"},
	{Name: "quit", Description: "Exit SoulSync"},
}

// Options configures the root model.
type Options struct {
	Settings store.Settings
	// Remote is the reply service; nil answers locally.
	Remote      reply.Replier
	Transcriber speech.Transcriber
	// ExportDir is where exports land; defaults to the working directory.
	ExportDir string
	// Rand seeds the starfield; tests pass a fixed source.
	Rand *rand.Rand
	// NoWatch disables the store watcher.
	NoWatch bool
}

// Model composes the views, the starfield banner and the footer.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	svc    *app.Service
	engine *chat.Engine
	opts   Options

	th      theme.Theme
	nav     nav.State
	sidebar panel.Model
	footer  *command.Model

	help      *help.Model
	helpOpen  bool
	debug     *eventviewer.Model
	debugOpen bool

	chatView      *chatview.Model
	journalView   *journalview.Model
	analyticsView *analyticsview.Model
	settingsView  *settingsview.Model

	stars   *starfield.Loop
	focused bool
	reduced bool
	window  int

	stream    *chat.Stream
	streamSeq int

	transcribing bool

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	width  int
	height int
}

// New builds the root model over a loaded service.
func New(svc *app.Service, opts Options) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	if opts.Transcriber == nil {
		opts.Transcriber = speech.Unsupported{}
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	engine := chat.NewEngine(svc, opts.Remote)
	if opts.Settings.TokenDelay > 0 {
		engine.TokenDelay = opts.Settings.TokenDelay
	}
	if opts.Settings.FallbackDelay > 0 {
		engine.FallbackDelay = opts.Settings.FallbackDelay
	}

	th := theme.ByName(svc.Theme())
	m := &Model{
		ctx:           ctx,
		cancel:        cancel,
		svc:           svc,
		engine:        engine,
		opts:          opts,
		th:            th,
		sidebar:       panel.New(th.Panel),
		chatView:      chatview.New(th.Chat),
		journalView:   journalview.New(th.Journal),
		analyticsView: analyticsview.New(th),
		settingsView:  settingsview.New(th.Settings),
		reduced:       opts.Settings.ReducedMotion,
		window:        analytics.DefaultDays,
		focused:       true,
	}
	m.footer = command.New(command.Options{
		ID:           footerID,
		PromptPrefix: ":",
		StatusText:   statusReady,
		Hint:         "F10 help · ctrl+o menu · ctrl+k command",
	}, th.Footer)
	m.footer.SetSuggestions(commandDefinitions)
	m.sidebar.SetFooter([]string{"↑/↓ move · enter open", "esc close"})
	m.stars = starfield.NewLoop(1, bannerRows, th.Dark, m.reduced, opts.Rand)

	m.journalView.SetDraft(svc.Draft())
	m.refreshAll()
	return m
}

// Run launches the Bubble Tea program over svc.
func Run(svc *app.Service, opts Options) error {
	if path := os.Getenv("SOULSYNC_LOG"); path != "" {
		f, err := tea.LogToFile(path, "soulsync")
		if err != nil {
			return fmt.Errorf("tui: open log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m := New(svc, opts)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}

// Close stops background work. It is safe to call more than once.
func (m *Model) Close() {
	m.stopWatch()
	m.cancel()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.chatView.Focus()}
	if !m.opts.NoWatch {
		cmds = append(cmds, startWatchCmd(m.ctx, m.svc))
	}
	if m.stars.Start() {
		cmds = append(cmds, starTickCmd(m.stars.Generation()))
	}
	return tea.Batch(cmds...)
}

// Update routes Bubble Tea messages to the composed components.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.noteEvent(msg)

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
	case tea.FocusMsg:
		m.focused = true
		if m.stars.Start() {
			cmds = append(cmds, starTickCmd(m.stars.Generation()))
		}
	case tea.BlurMsg:
		m.focused = false
		m.stars.Pause()
	case events.StarTickMsg:
		if m.stars.Tick(msg.Gen, msg.At) {
			cmds = append(cmds, starTickCmd(msg.Gen))
		}
	case tea.KeyPressMsg:
		if quit := m.handleKey(msg, &cmds); quit {
			m.Close()
			return m, tea.Quit
		}
	case events.ShowViewMsg:
		cmds = append(cmds, m.show(msg.View))
	case events.ChatSubmitMsg:
		cmds = append(cmds, m.submit(msg.Text))
	case events.ReplyMsg:
		cmds = append(cmds, m.handleReply(msg))
	case events.StreamTickMsg:
		cmds = append(cmds, m.handleStreamTick(msg))
	case events.StreamCancelMsg:
		if m.stream != nil {
			m.stream.Cancel()
		}
	case events.TranscribeRequestMsg:
		cmds = append(cmds, m.transcribe())
	case events.TranscriptMsg:
		m.handleTranscript(msg)
	case events.DraftChangedMsg:
		if err := m.svc.SetDraft(msg.Text); err != nil {
			log.Printf("[tui] save draft: %v", err)
		}
	case events.EntrySaveMsg:
		m.saveEntry(msg)
	case events.ActionMsg:
		cmds = append(cmds, m.runAction(msg))
	case events.ExportDoneMsg:
		if msg.Err != nil {
			m.setError("Export failed: " + msg.Err.Error())
		} else {
			m.setStatus("Exported to " + msg.Path)
		}
	case events.ImportDoneMsg:
		m.handleImport(msg)
	case watchStartedMsg:
		if msg.err != nil {
			log.Printf("[tui] watch: %v", msg.err)
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		cmds = append(cmds, m.waitForWatch())
	case events.StoreChangedMsg:
		m.handleStoreChange(msg.Event)
		cmds = append(cmds, m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
		if m.ctx.Err() == nil {
			cmds = append(cmds, startWatchCmd(m.ctx, m.svc))
		}
	case events.CommandSubmitMsg:
		cmd, quit := m.runCommand(msg.Value)
		cmds = append(cmds, cmd)
		if quit {
			m.Close()
			return m, tea.Quit
		}
	case events.CommandCancelMsg:
		m.setStatus(statusReady)
		cmds = append(cmds, m.focusActive())
	case events.StatusMsg:
		m.footer.SetStatus(msg.Text, msg.Error)
	}

	return m, tea.Batch(cmds...)
}

// handleKey resolves overlays first, then global shortcuts, then the active
// view. It reports whether the program should quit.
func (m *Model) handleKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	key := msg.String()
	if key == "ctrl+c" {
		return true
	}

	if m.footer.InInputMode() {
		_, cmd := m.footer.Update(msg)
		*cmds = append(*cmds, cmd)
		return false
	}

	if m.helpOpen {
		switch key {
		case "esc", "f10", "q":
			m.helpOpen = false
		default:
			_, cmd := m.help.Update(msg)
			*cmds = append(*cmds, cmd)
		}
		return false
	}

	if m.nav.SidebarOpen() {
		switch key {
		case "up", "k":
			m.sidebar.Move(-1)
		case "down", "j":
			m.sidebar.Move(1)
		case "enter":
			*cmds = append(*cmds, m.show(m.sidebar.Selected()))
		case "esc", "ctrl+o":
			m.nav.CloseSidebar()
		}
		return false
	}

	switch key {
	case "ctrl+o":
		m.sidebar.Open(m.nav.Active())
		m.nav.ToggleSidebar()
		return false
	case "ctrl+k":
		m.blurActive()
		*cmds = append(*cmds, m.footer.BeginInput(""))
		return false
	case "ctrl+g":
		m.toggleDebug()
		return false
	case "f10":
		m.openHelp()
		return false
	case "f1", "alt+1":
		*cmds = append(*cmds, m.show(nav.Chat))
		return false
	case "f2", "alt+2":
		*cmds = append(*cmds, m.show(nav.Journal))
		return false
	case "f3", "alt+3":
		*cmds = append(*cmds, m.show(nav.Analytics))
		return false
	case "f4", "alt+4":
		*cmds = append(*cmds, m.show(nav.Settings))
		return false
	case "alt+right", "alt+l":
		*cmds = append(*cmds, m.step(1))
		return false
	case "alt+left", "alt+h":
		*cmds = append(*cmds, m.step(-1))
		return false
	case "esc":
		if m.nav.Active() == nav.Settings && m.settingsView.Cancel() {
			m.setStatus(statusReady)
			return false
		}
	case "q":
		// Plain q quits only where no input is collecting text.
		if c, ok := m.activeView().(ui.Capturing); !ok || !c.CapturesKeys() {
			return true
		}
	}

	_, cmd := m.activeView().Update(msg)
	*cmds = append(*cmds, cmd)
	return false
}

func (m *Model) activeView() ui.Component {
	switch m.nav.Active() {
	case nav.Journal:
		return m.journalView
	case nav.Analytics:
		return m.analyticsView
	case nav.Settings:
		return m.settingsView
	default:
		return m.chatView
	}
}

func (m *Model) blurActive() {
	if f, ok := m.activeView().(ui.Focusable); ok {
		f.Blur()
	}
}

func (m *Model) focusActive() tea.Cmd {
	if f, ok := m.activeView().(ui.Focusable); ok {
		return f.Focus()
	}
	return nil
}

// show switches the visible view; nav.Show also closes the sidebar.
func (m *Model) show(v nav.View) tea.Cmd {
	m.blurActive()
	m.nav.Show(v)
	m.chatView.SetComposerVisible(m.nav.ComposerVisible())
	if v == nav.Analytics {
		m.analyticsView.SetSummary(m.svc.Analytics(m.window))
	}
	m.layout()
	return m.focusActive()
}

func (m *Model) step(delta int) tea.Cmd {
	cur := m.nav
	if delta > 0 {
		cur.Next()
	} else {
		cur.Prev()
	}
	return m.show(cur.Active())
}

func (m *Model) setStatus(text string) { m.footer.SetStatus(text, false) }

func (m *Model) setError(text string) { m.footer.SetStatus(text, true) }

// submit appends the user message and starts the reply request.
func (m *Model) submit(text string) tea.Cmd {
	if _, err := m.engine.Submit(text); err != nil {
		if !errors.Is(err, chat.ErrEmptyInput) {
			m.setError("Message not sent: " + err.Error())
		}
		return nil
	}
	m.chatView.Reset()
	m.chatView.SetMessages(m.svc.Messages())
	m.chatView.SetBusy(true, true)
	m.refreshSettingsInfo()
	return respondCmd(m.ctx, m.engine)
}

func (m *Model) handleReply(msg events.ReplyMsg) tea.Cmd {
	if msg.Err != nil || msg.Outcome == nil {
		log.Printf("[tui] reply: %v", msg.Err)
		m.engine.Finish()
		m.chatView.SetBusy(false, false)
		m.chatView.SetMessages(m.svc.Messages())
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.setError("Reply not saved: " + msg.Err.Error())
		}
		return m.focusChat()
	}
	m.streamSeq++
	m.stream = msg.Outcome.Stream
	m.chatView.SetBusy(true, false)
	m.chatView.SetMessages(m.svc.Messages())
	m.chatView.BeginStream(m.stream)
	m.refreshSettingsInfo()
	return streamTickCmd(m.streamSeq, 0)
}

func (m *Model) handleStreamTick(msg events.StreamTickMsg) tea.Cmd {
	if msg.Seq != m.streamSeq || m.stream == nil {
		return nil
	}
	if m.chatView.StreamTick() {
		delay := m.stream.Delay()
		if m.stream.Cancelled() {
			delay = 0
		}
		return streamTickCmd(msg.Seq, delay)
	}
	return m.finishStream()
}

// finishStream re-enables input whatever way the stream ended.
func (m *Model) finishStream() tea.Cmd {
	m.stream = nil
	m.chatView.EndStream()
	m.engine.Finish()
	m.chatView.SetBusy(false, false)
	return m.focusChat()
}

func (m *Model) focusChat() tea.Cmd {
	if m.nav.Active() == nav.Chat && !m.footer.InInputMode() {
		return m.chatView.Focus()
	}
	return nil
}

func (m *Model) transcribe() tea.Cmd {
	if m.transcribing {
		return nil
	}
	m.transcribing = true
	m.setStatus("Listening…")
	return transcribeCmd(m.ctx, m.opts.Transcriber)
}

func (m *Model) handleTranscript(msg events.TranscriptMsg) {
	m.transcribing = false
	switch {
	case errors.Is(msg.Err, speech.ErrUnsupported):
		m.setError("Voice input is not supported on this system")
	case msg.Err != nil:
		log.Printf("[tui] transcribe: %v", msg.Err)
		m.setError("Voice input failed")
	default:
		m.chatView.AppendTranscript(msg.Text)
		m.setStatus(statusReady)
	}
}

func (m *Model) saveEntry(msg events.EntrySaveMsg) {
	_, err := m.svc.AddEntry(msg.Prompt, msg.Text, msg.Mood)
	switch {
	case errors.Is(err, journal.ErrEmptyText):
		m.journalView.SetNotice("Please write something before saving.")
		m.setError("Nothing to save")
		return
	case err != nil:
		m.setError("Entry not saved: " + err.Error())
		return
	}
	m.journalView.ResetEditor()
	m.refreshJournal()
	m.setStatus("Entry saved")
}

// busyGuard refuses history-replacing actions while a reply is in flight.
func (m *Model) busyGuard() bool {
	if m.engine.Busy() {
		m.setError("Wait for the reply to finish")
		return true
	}
	return false
}

func (m *Model) runAction(msg events.ActionMsg) tea.Cmd {
	switch msg.Action {
	case events.ActionToggleTheme:
		name, err := m.svc.ToggleTheme()
		if err != nil {
			m.setError("Theme not saved: " + err.Error())
			return nil
		}
		m.applyTheme(name)
		m.setStatus("Theme: " + name)
	case events.ActionToggleMotion:
		return m.setReducedMotion(!m.reduced)
	case events.ActionNewChat:
		if m.busyGuard() {
			return nil
		}
		if err := m.svc.NewChat(); err != nil {
			m.setError("New chat failed: " + err.Error())
			return nil
		}
		m.refreshChat()
		m.setStatus("Started a new chat")
	case events.ActionExport:
		dir := msg.Arg
		if dir == "" {
			dir = m.opts.ExportDir
		}
		m.setStatus("Exporting…")
		return exportCmd(m.svc, dir)
	case events.ActionImport:
		if m.busyGuard() {
			return nil
		}
		m.setStatus("Importing…")
		return importCmd(m.svc, msg.Arg)
	case events.ActionClear:
		if m.busyGuard() {
			return nil
		}
		if err := m.svc.Clear(); err != nil {
			m.setError("Clear failed: " + err.Error())
			return nil
		}
		m.journalView.ResetEditor()
		m.refreshAll()
		m.setStatus("All data cleared")
	}
	return nil
}

func (m *Model) handleImport(msg events.ImportDoneMsg) {
	if msg.Err != nil {
		log.Printf("[tui] import %s: %v", msg.Path, msg.Err)
		if errors.Is(msg.Err, app.ErrMalformedImport) {
			m.setError("Import failed: the file is not a valid SoulSync export")
			return
		}
		m.setError("Import failed: " + msg.Err.Error())
		return
	}
	m.refreshAll()
	var parts []string
	if msg.Result.MessagesReplaced {
		parts = append(parts, fmt.Sprintf("%d messages", msg.Result.Messages))
	}
	if msg.Result.EntriesReplaced {
		parts = append(parts, fmt.Sprintf("%d entries", msg.Result.Entries))
	}
	if len(parts) == 0 {
		m.setStatus("Import contained nothing to replace")
		return
	}
	m.setStatus("Imported " + strings.Join(parts, " and "))
}

// handleStoreChange reloads a slot another process rewrote.
func (m *Model) handleStoreChange(ev store.Event) {
	if m.engine.Busy() && (ev.Slot == store.SlotMessages || ev.Slot == "") {
		// The flow in progress wrote it; the stream owns the transcript.
		return
	}
	if err := m.svc.Reload(m.ctx, ev.Slot); err != nil {
		log.Printf("[tui] reload %q: %v", ev.Slot, err)
		m.setError("Reload failed: " + err.Error())
		return
	}
	switch ev.Slot {
	case store.SlotMessages:
		m.refreshChat()
	case store.SlotEntries:
		m.refreshJournal()
	case store.SlotDraft:
		m.applyExternalDraft()
	case store.SlotTheme:
		if name := m.svc.Theme(); name != m.th.Name {
			m.applyTheme(name)
		}
	default:
		m.refreshAll()
		m.applyExternalDraft()
		if name := m.svc.Theme(); name != m.th.Name {
			m.applyTheme(name)
		}
	}
}

// applyExternalDraft takes a draft written elsewhere only while the editor
// is empty, so our own autosaves never overwrite newer keystrokes.
func (m *Model) applyExternalDraft() {
	if m.journalView.Text() == "" {
		m.journalView.SetDraft(m.svc.Draft())
	}
}

func (m *Model) setReducedMotion(reduced bool) tea.Cmd {
	m.reduced = reduced
	m.stars.SetReducedMotion(reduced)
	m.settingsView.SetPreferences(m.th.Name, m.reduced)
	if reduced {
		m.setStatus("Reduced motion on")
		return nil
	}
	m.setStatus("Reduced motion off")
	if m.focused && m.stars.Start() {
		return starTickCmd(m.stars.Generation())
	}
	return nil
}

func (m *Model) applyTheme(name string) {
	m.th = theme.ByName(name)
	m.sidebar.SetTheme(m.th.Panel)
	m.footer.SetTheme(m.th.Footer)
	m.chatView.SetTheme(m.th.Chat)
	m.journalView.SetTheme(m.th.Journal)
	m.analyticsView.SetTheme(m.th)
	m.settingsView.SetTheme(m.th.Settings)
	m.settingsView.SetPreferences(m.th.Name, m.reduced)
	if m.help != nil {
		m.help.SetTheme(m.th)
	}
	if m.debug != nil {
		m.debug.SetTheme(m.th.Events)
	}
	m.stars.SetTheme(m.th.Dark)
}

func (m *Model) refreshChat() {
	m.chatView.SetMessages(m.svc.Messages())
	m.refreshSettingsInfo()
}

func (m *Model) refreshJournal() {
	m.journalView.SetEntries(m.svc.Entries())
	m.analyticsView.SetSummary(m.svc.Analytics(m.window))
	m.refreshSettingsInfo()
}

func (m *Model) refreshAll() {
	m.refreshChat()
	m.refreshJournal()
	m.settingsView.SetPreferences(m.th.Name, m.reduced)
}

func (m *Model) refreshSettingsInfo() {
	m.settingsView.SetInfo(settingsview.Info{
		DataPath:      m.opts.Settings.Path,
		ExportDir:     m.opts.ExportDir,
		ReplyEndpoint: m.replyLabel(),
		Speech:        m.opts.Settings.SpeechCommand != "",
		Messages:      len(m.svc.Messages()),
		Entries:       len(m.svc.Entries()),
	})
}

func (m *Model) replyLabel() string {
	if m.opts.Remote == nil {
		return "local replies only"
	}
	return m.opts.Settings.ReplyEndpoint
}
