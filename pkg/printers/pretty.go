// Package printers renders SoulSync data for the command line.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/soulsync/pkg/analytics"
	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/message"
)

// DefaultWidth is the wrap width for message and entry bodies.
const DefaultWidth = 76

type PrettyPrint struct {
	// Out defaults to color.Output.
	Out   io.Writer
	Width int
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) width() int {
	if pp.Width <= 0 {
		return DefaultWidth
	}
	return pp.Width
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	if count != 1 {
		noun += "s"
	}
	_, _ = c.Fprintf(pp.out(), " - %d %s\n", count, noun)
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

func (pp *PrettyPrint) body(text string) string {
	return indent.String(wordwrap.String(text, pp.width()-4), 4)
}

// Messages prints a transcript, oldest first.
func (pp *PrettyPrint) Messages(msgs ...message.Message) {
	if len(msgs) == 0 {
		pp.none()
		return
	}
	user := color.New(color.FgCyan, color.Bold)
	assistant := color.New(color.FgMagenta, color.Bold)
	faint := color.New(color.Faint)

	for _, m := range msgs {
		who := user
		name := "You"
		if m.Role == message.Assistant {
			who, name = assistant, "SoulSync"
		}
		_, _ = who.Fprintf(pp.out(), "%s %s", m.Role.Avatar(), name)
		_, _ = faint.Fprintf(pp.out(), "  %s\n", m.Time.Local().Format("Jan 2 15:04"))
		_, _ = fmt.Fprintln(pp.out(), pp.body(m.Text))
	}
	pp.NewLine()
}

// Entries prints journal entries in the order given.
func (pp *PrettyPrint) Entries(entries ...journal.Entry) {
	if len(entries) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Faint)
	for i := range entries {
		e := &entries[i]
		_, _ = y.Fprintln(pp.out(), e.Meta())
		_, _ = fmt.Fprintln(pp.out(), pp.body(e.Text))
		pp.NewLine()
	}
}

// Summary prints the analytics table, sparkline and totals.
func (pp *PrettyPrint) Summary(s analytics.Summary) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	pp.Title(fmt.Sprintf("Mood over the last %s", s.Window))
	pp.NewLine()

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Day"), bold.Sprint("Entries"), bold.Sprint("Mean"), "")
	for _, d := range s.Days {
		if !d.HasData {
			continue
		}
		bar := strings.Repeat("█", int(d.Mean*2+0.5))
		tbl.AddRow(d.Label(), d.Count, fmt.Sprintf("%.1f", d.Mean), moodColor(d.Mean).Sprint(bar))
	}
	tbl.RightAlign(1)
	if len(tbl.Rows) > 1 {
		_, _ = fmt.Fprintln(pp.out(), tbl)
		pp.NewLine()
	}

	_, _ = faint.Fprint(pp.out(), "trend    ")
	_, _ = fmt.Fprintln(pp.out(), analytics.Sparkline(s.Days))

	avg := "n/a"
	if s.Entries > 0 {
		avg = fmt.Sprintf("%.1f %s", s.Mean, journal.Mood(int(s.Mean+0.5)).Emoji())
	}
	days := "days"
	if s.Streak == 1 {
		days = "day"
	}
	totals := uitable.New()
	totals.AddRow(faint.Sprint("streak"), fmt.Sprintf("%d %s", s.Streak, days))
	totals.AddRow(faint.Sprint("entries"), s.Entries)
	totals.AddRow(faint.Sprint("average"), avg)
	_, _ = fmt.Fprintln(pp.out(), totals)
}

func moodColor(mean float64) *color.Color {
	switch {
	case mean < 2:
		return color.New(color.FgRed)
	case mean < 3:
		return color.New(color.FgYellow)
	case mean < 4:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgGreen)
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	if w == nil {
		w = color.Output
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
