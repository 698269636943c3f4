// Package journal adds and lists journal entries from the command line.
package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/soulsync/pkg/analytics"
	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/printers"
)

type Add struct {
	App *app.Service
	// Prompt is a 1-based index into journal.Prompts; zero picks the default.
	Prompt int
	Mood   journal.Mood
	Text   string
	JSON   bool
	Out    io.Writer
}

func (a *Add) Do(_ context.Context) error {
	if a.App == nil {
		return errors.New("can not add, no persistence")
	}
	prompt := journal.DefaultPrompt()
	if a.Prompt != 0 {
		p, ok := journal.PromptAt(a.Prompt)
		if !ok {
			return fmt.Errorf("prompt must be between 1 and %d", len(journal.Prompts))
		}
		prompt = p
	}
	e, err := a.App.AddEntry(prompt, a.Text, a.Mood)
	if err != nil {
		return err
	}
	if a.JSON {
		return printers.JSON(a.Out, e)
	}
	pp := printers.PrettyPrint{Out: a.Out}
	pp.Entries(*e)
	return nil
}

type List struct {
	App *app.Service
	// Since is a window such as "1w"; empty lists everything.
	Since string
	Limit int
	JSON  bool
	Out   io.Writer
}

func (l *List) Do(_ context.Context) error {
	if l.App == nil {
		return errors.New("can not list, no persistence")
	}
	entries := l.App.Entries()
	title := "Journal"
	if l.Since != "" {
		days, label, err := analytics.ParseWindow(l.Since)
		if err != nil {
			return err
		}
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1-days)
		entries = l.App.EntriesSince(start)
		title = "Journal, last " + label
	}
	if l.Limit > 0 && len(entries) > l.Limit {
		entries = entries[:l.Limit]
	}
	if l.JSON {
		return printers.JSON(l.Out, entries)
	}
	pp := printers.PrettyPrint{Out: l.Out}
	pp.TitleWithCount(title, len(entries), "entry")
	pp.NewLine()
	pp.Entries(entries...)
	return nil
}

// Prompts prints the numbered prompt list used by --prompt.
type Prompts struct {
	Out io.Writer
}

func (p *Prompts) Do(_ context.Context) error {
	out := p.Out
	if out == nil {
		out = color.Output
	}
	faint := color.New(color.Faint)
	for i, prompt := range journal.Prompts {
		_, _ = faint.Fprintf(out, "%2d  ", i+1)
		_, _ = fmt.Fprintln(out, prompt)
	}
	return nil
}
