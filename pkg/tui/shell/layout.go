package shell

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/mattn/go-shellwords"

	"tableflip.dev/soulsync/pkg/analytics"
	"tableflip.dev/soulsync/pkg/nav"
	"tableflip.dev/soulsync/pkg/tui/components/eventviewer"
	"tableflip.dev/soulsync/pkg/tui/components/help"
	"tableflip.dev/soulsync/pkg/tui/events"
	"tableflip.dev/soulsync/pkg/tui/ui/overlay"
)

const (
	bannerRows  = 5
	tabRows     = 2
	footerRows  = 1
	debugRows   = 8
	eventsLimit = 200
)

// layout hands every component its share of the window.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.stars.Resize(m.width, bannerRows)
	m.footer.SetSize(m.width, footerRows)

	body := m.bodyHeight()
	m.chatView.SetSize(m.width, body)
	m.journalView.SetSize(m.width, body)
	m.analyticsView.SetSize(m.width, body)
	m.settingsView.SetSize(m.width, body)

	if m.debug != nil {
		m.debug.SetSize(m.width, debugRows)
	}
	if m.help != nil {
		w, h := m.helpBounds()
		m.help.SetSize(w, h)
	}
}

func (m *Model) bodyHeight() int {
	h := m.height - bannerRows - tabRows - footerRows
	if m.debugOpen {
		h -= debugRows
	}
	return max(h, 3)
}

func (m *Model) helpBounds() (int, int) {
	return min(max(m.width-8, 20), 84), max(m.height-6, 6)
}

func (m *Model) openHelp() {
	w, h := m.helpBounds()
	if m.help == nil {
		m.help = help.New(w, h, m.th)
	} else {
		m.help.SetSize(w, h)
	}
	m.helpOpen = true
}

func (m *Model) toggleDebug() {
	if m.debug == nil {
		m.debug = eventviewer.New(eventsLimit, m.th.Events)
	}
	m.debugOpen = !m.debugOpen
	m.layout()
}

// runCommand executes a footer command line. It reports whether the program
// should quit.
func (m *Model) runCommand(line string) (tea.Cmd, bool) {
	args, err := shellwords.Parse(line)
	if err != nil || len(args) == 0 {
		m.setError(fmt.Sprintf("Cannot parse %q", line))
		return m.focusActive(), false
	}
	name, rest := strings.ToLower(args[0]), args[1:]
	arg := strings.Join(rest, " ")

	if v, err := nav.ParseView(name); err == nil {
		m.setStatus(v.Title())
		return m.show(v), false
	}

	switch name {
	case "quit", "q", "exit":
		return nil, true
	case "theme":
		return tea.Batch(m.focusActive(), m.runAction(events.ActionMsg{Action: events.ActionToggleTheme})), false
	case "motion":
		return tea.Batch(m.focusActive(), m.runAction(events.ActionMsg{Action: events.ActionToggleMotion})), false
	case "new":
		cmd := m.runAction(events.ActionMsg{Action: events.ActionNewChat})
		return tea.Batch(cmd, m.show(nav.Chat)), false
	case "stats":
		days, label, err := analytics.ParseWindow(arg)
		if err != nil {
			m.setError(err.Error())
			return m.focusActive(), false
		}
		m.window = days
		m.setStatus("Analytics window " + label)
		return m.show(nav.Analytics), false
	case "export":
		return tea.Batch(m.focusActive(), m.runAction(events.ActionMsg{Action: events.ActionExport, Arg: arg})), false
	case "import":
		if arg == "" {
			focus := m.show(nav.Settings)
			return tea.Batch(focus, m.settingsView.BeginImport()), false
		}
		return tea.Batch(m.focusActive(), m.runAction(events.ActionMsg{Action: events.ActionImport, Arg: arg})), false
	case "clear":
		cmd := m.show(nav.Settings)
		m.settingsView.BeginClear()
		m.setError("Clear all data? press y to confirm")
		return cmd, false
	case "help":
		m.openHelp()
		return m.focusActive(), false
	case "debug":
		m.toggleDebug()
		return m.focusActive(), false
	}
	m.setError(fmt.Sprintf("Unknown command %q", name))
	return m.focusActive(), false
}

type describer interface {
	Describe() string
}

// noteEvent records a message in the debug log while it is open. Animation
// ticks are too frequent to be useful there.
func (m *Model) noteEvent(msg tea.Msg) {
	if !m.debugOpen || m.debug == nil {
		return
	}
	entry := eventviewer.Entry{Timestamp: time.Now(), Source: "tea", Level: eventviewer.LevelInfo}
	switch msg := msg.(type) {
	case events.StarTickMsg, events.StreamTickMsg:
		return
	case tea.KeyPressMsg:
		entry.Source = "key"
		entry.Summary = msg.String()
	case tea.WindowSizeMsg:
		entry.Summary = fmt.Sprintf("resize %dx%d", msg.Width, msg.Height)
	case events.StatusMsg:
		entry.Source = "status"
		entry.Summary = msg.Text
		if msg.Error {
			entry.Level = eventviewer.LevelError
		}
	case events.ReplyMsg:
		entry.Source = "reply"
		entry.Summary = msg.Describe()
		if msg.Err != nil {
			entry.Level = eventviewer.LevelWarn
		}
	case describer:
		entry.Source = "event"
		entry.Summary = fmt.Sprintf("%T", msg)
		entry.Detail = msg.Describe()
	default:
		return
	}
	m.debug.Append(entry)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "loading…"
	}
	sections := []string{m.renderBanner(), m.renderTabs(), m.renderBody()}
	if m.debugOpen && m.debug != nil {
		sections = append(sections, m.debug.View())
	}
	sections = append(sections, m.footer.View())
	screen := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.nav.SidebarOpen() {
		panel, h := m.sidebar.View()
		screen = overlay.Compose(screen, m.width, m.height, panel, overlay.Placement{
			Horizontal: overlay.Left,
			Vertical:   overlay.Top,
			MarginX:    1,
			MarginY:    bannerRows,
			Height:     h,
		})
	}
	if m.helpOpen && m.help != nil {
		screen = overlay.Compose(screen, m.width, m.height, m.help.View(), overlay.Placement{})
	}
	return screen
}

func (m *Model) renderBanner() string {
	sky := m.stars.View(m.th.Sky)
	title := lipgloss.JoinVertical(lipgloss.Center,
		m.th.Banner.Title.Render("✦ SoulSync ✦"),
		m.th.Banner.Tagline.Render("a quiet place to talk and reflect"),
	)
	return overlay.Compose(sky, m.width, bannerRows, title, overlay.Placement{})
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(nav.Views))
	for i, v := range nav.Views {
		label := fmt.Sprintf("F%d %s", i+1, v.Title())
		if m.nav.Visible(v) {
			tabs = append(tabs, m.th.Tabs.Active.Render(label))
			continue
		}
		tabs = append(tabs, m.th.Tabs.Inactive.Render(label))
	}
	gap := m.th.Tabs.Gap.Render("│")
	parts := make([]string, 0, 2*len(tabs))
	for i, t := range tabs {
		if i > 0 {
			parts = append(parts, gap)
		}
		parts = append(parts, t)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
	return lipgloss.NewStyle().MaxWidth(m.width).MaxHeight(tabRows).Render(row)
}

func (m *Model) renderBody() string {
	view := m.activeView().View()
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.bodyHeight()).
		MaxHeight(m.bodyHeight()).
		Render(view)
}
