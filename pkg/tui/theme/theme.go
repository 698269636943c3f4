// Package theme holds the Lip Gloss styles for the two SoulSync themes.
package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

const (
	NameDark  = "dark"
	NameLight = "light"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Name string
	Dark bool
	// Sky is the starfield background the particles fade into.
	Sky colorful.Color

	Accent color.Color
	Muted  color.Color

	Banner    BannerTheme
	Tabs      TabsTheme
	Panel     PanelTheme
	Chat      ChatTheme
	Journal   JournalTheme
	Analytics AnalyticsTheme
	Settings  SettingsTheme
	Footer    FooterTheme
	Modal     ModalTheme
	Events    EventsTheme
}

// BannerTheme styles the title drawn over the starfield.
type BannerTheme struct {
	Title   lipgloss.Style
	Tagline lipgloss.Style
}

// TabsTheme styles the view switcher row.
type TabsTheme struct {
	Active   lipgloss.Style
	Inactive lipgloss.Style
	Gap      lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Body     lipgloss.Style
	Selected lipgloss.Style
}

// ChatTheme styles the transcript and composer.
type ChatTheme struct {
	User      lipgloss.Style
	Assistant lipgloss.Style
	Time      lipgloss.Style
	Typing    lipgloss.Style
	Composer  lipgloss.Style
	Disabled  lipgloss.Style
	Empty     lipgloss.Style
}

// JournalTheme styles the editor and entry list.
type JournalTheme struct {
	Prompt      lipgloss.Style
	Label       lipgloss.Style
	Focused     lipgloss.Style
	Blurred     lipgloss.Style
	MoodOn      lipgloss.Style
	MoodOff     lipgloss.Style
	Meta        lipgloss.Style
	Preview     lipgloss.Style
	Highlighted lipgloss.Style
}

// AnalyticsTheme styles the chart and totals.
type AnalyticsTheme struct {
	Heading lipgloss.Style
	Value   lipgloss.Style
	Axis    lipgloss.Style
	Gap     lipgloss.Style
	// Low and High are the mood-1 and mood-5 ends of the bar gradient.
	Low  colorful.Color
	High colorful.Color
}

// SettingsTheme styles the settings menu.
type SettingsTheme struct {
	Item     lipgloss.Style
	Selected lipgloss.Style
	Hint     lipgloss.Style
	Danger   lipgloss.Style
}

// FooterTheme groups styles used by the bottom status/command bar.
type FooterTheme struct {
	Help                lipgloss.Style
	Status              lipgloss.Style
	Error               lipgloss.Style
	CommandName         lipgloss.Style
	CommandDescription  lipgloss.Style
	CommandSelectedName lipgloss.Style
	CommandSelectedDesc lipgloss.Style
}

// ModalTheme styles centered overlays (help, confirm).
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// EventsTheme styles the debug event log.
type EventsTheme struct {
	Frame     lipgloss.Style
	Header    lipgloss.Style
	Info      lipgloss.Style
	Warn      lipgloss.Style
	Error     lipgloss.Style
	Timestamp lipgloss.Style
	Source    lipgloss.Style
}

type palette struct {
	name      string
	dark      bool
	sky       string
	text      string
	muted     string
	faint     string
	accent    string
	accentAlt string
	user      string
	danger    string
	warn      string
	border    string
	low       string
	high      string
}

var (
	darkPalette = palette{
		name: NameDark, dark: true,
		sky: "#0b0d1a", text: "#e6e8ff", muted: "#8c90b5", faint: "#4b4f73",
		accent: "#a9b1ff", accentAlt: "#8a6dff", user: "#7fd1c7",
		danger: "#ff6b81", warn: "#ffb347", border: "#3a3f66",
		low: "#6b7bd6", high: "#f5c26b",
	}
	lightPalette = palette{
		name: NameLight, dark: false,
		sky: "#f6f7ff", text: "#1d2040", muted: "#5f6388", faint: "#b9bcd9",
		accent: "#5b6bff", accentAlt: "#885cff", user: "#1b8a7d",
		danger: "#d6334f", warn: "#c77700", border: "#c9cce8",
		low: "#5b6bff", high: "#e08a00",
	}
)

// Dark returns the default night theme.
func Dark() Theme { return build(darkPalette) }

// Light returns the day theme.
func Light() Theme { return build(lightPalette) }

// ByName returns the light theme for "light" and the dark theme otherwise.
func ByName(name string) Theme {
	if name == NameLight {
		return Light()
	}
	return Dark()
}

// Detect picks a theme name from the terminal background.
func Detect() string {
	if termenv.HasDarkBackground() {
		return NameDark
	}
	return NameLight
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func build(p palette) Theme {
	text := lipgloss.Color(p.text)
	muted := lipgloss.Color(p.muted)
	faint := lipgloss.Color(p.faint)
	accent := lipgloss.Color(p.accent)
	accentAlt := lipgloss.Color(p.accentAlt)
	border := lipgloss.Color(p.border)
	danger := lipgloss.Color(p.danger)

	commandName := lipgloss.NewStyle().Foreground(accent).Bold(true)
	commandDesc := lipgloss.NewStyle().Foreground(muted)

	return Theme{
		Name:   p.name,
		Dark:   p.dark,
		Sky:    hex(p.sky),
		Accent: accent,
		Muted:  muted,
		Banner: BannerTheme{
			Title:   lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 2),
			Tagline: lipgloss.NewStyle().Italic(true).Foreground(muted).Padding(0, 2),
		},
		Tabs: TabsTheme{
			Active: lipgloss.NewStyle().Bold(true).Foreground(accent).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(accentAlt).Padding(0, 1),
			Inactive: lipgloss.NewStyle().Foreground(muted).
				Border(lipgloss.HiddenBorder(), false, false, true, false).Padding(0, 1),
			Gap: lipgloss.NewStyle().Foreground(faint),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(border).
				Padding(1, 2),
			Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
			Body:     lipgloss.NewStyle().Foreground(text),
			Selected: lipgloss.NewStyle().Bold(true).Foreground(accentAlt),
		},
		Chat: ChatTheme{
			User:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.user)),
			Assistant: lipgloss.NewStyle().Foreground(text),
			Time:      lipgloss.NewStyle().Foreground(faint),
			Typing:    lipgloss.NewStyle().Italic(true).Foreground(muted),
			Composer: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accentAlt).
				Padding(0, 1),
			Disabled: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(faint).
				Foreground(faint).
				Padding(0, 1),
			Empty: lipgloss.NewStyle().Italic(true).Foreground(muted),
		},
		Journal: JournalTheme{
			Prompt:      lipgloss.NewStyle().Bold(true).Foreground(accent),
			Label:       lipgloss.NewStyle().Foreground(muted),
			Focused:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentAlt).Padding(0, 1),
			Blurred:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
			MoodOn:      lipgloss.NewStyle().Bold(true).Foreground(accentAlt),
			MoodOff:     lipgloss.NewStyle().Foreground(faint),
			Meta:        lipgloss.NewStyle().Foreground(muted),
			Preview:     lipgloss.NewStyle().Foreground(text),
			Highlighted: lipgloss.NewStyle().Foreground(accent).Bold(true),
		},
		Analytics: AnalyticsTheme{
			Heading: lipgloss.NewStyle().Bold(true).Foreground(accent),
			Value:   lipgloss.NewStyle().Bold(true).Foreground(text),
			Axis:    lipgloss.NewStyle().Foreground(faint),
			Gap:     lipgloss.NewStyle().Foreground(faint),
			Low:     hex(p.low),
			High:    hex(p.high),
		},
		Settings: SettingsTheme{
			Item:     lipgloss.NewStyle().Foreground(text),
			Selected: lipgloss.NewStyle().Bold(true).Foreground(accentAlt),
			Hint:     lipgloss.NewStyle().Foreground(muted),
			Danger:   lipgloss.NewStyle().Bold(true).Foreground(danger),
		},
		Footer: FooterTheme{
			Help:                lipgloss.NewStyle().Foreground(muted),
			Status:              lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(p.warn)),
			Error:               lipgloss.NewStyle().Bold(true).Foreground(danger),
			CommandName:         commandName,
			CommandDescription:  commandDesc,
			CommandSelectedName: commandName.Reverse(true),
			CommandSelectedDesc: commandDesc.Reverse(true),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accentAlt).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true).Foreground(accent),
			Body:  lipgloss.NewStyle().Foreground(text),
		},
		Events: EventsTheme{
			Frame:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(border),
			Header:    lipgloss.NewStyle().Bold(true).Foreground(muted),
			Info:      lipgloss.NewStyle().Foreground(text),
			Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.warn)),
			Error:     lipgloss.NewStyle().Foreground(danger),
			Timestamp: lipgloss.NewStyle().Foreground(faint),
			Source:    lipgloss.NewStyle().Foreground(muted),
		},
	}
}

// MoodColor blends between the Low and High analytics colors for a mean mood
// in [1,5].
func (t Theme) MoodColor(mean float64) colorful.Color {
	f := (mean - 1) / 4
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return t.Analytics.Low.BlendLab(t.Analytics.High, f).Clamped()
}
