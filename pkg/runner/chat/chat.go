// Package chat sends messages and manages the transcript from the command
// line.
package chat

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/chat"
	"tableflip.dev/soulsync/pkg/printers"
	"tableflip.dev/soulsync/pkg/reply"
	"tableflip.dev/soulsync/pkg/store"
)

type Chat struct {
	App      *app.Service
	Settings *store.Settings
	// Remote overrides the configured reply service.
	Remote   reply.Replier
	Text     string
	NoStream bool
	Offline  bool
	JSON     bool
	Out      io.Writer
}

// Result is the JSON form of one exchange.
type Result struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}

func (c *Chat) out() io.Writer {
	if c.Out == nil {
		return color.Output
	}
	return c.Out
}

// animate reports whether tokens should be revealed one at a time. Only a
// terminal gets the typing effect.
func (c *Chat) animate() bool {
	if c.NoStream || c.JSON {
		return false
	}
	if f, ok := c.out().(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return c.Out == nil && isatty.IsTerminal(os.Stdout.Fd())
}

func (c *Chat) Do(ctx context.Context) error {
	if c.App == nil {
		return errors.New("can not chat, no persistence")
	}
	remote := c.Remote
	if remote == nil && !c.Offline && c.Settings != nil {
		remote = reply.NewRemote(c.Settings.ReplyEndpoint, c.Settings.ReplyModel, c.Settings.ReplyTimeout)
	}
	engine := chat.NewEngine(c.App, remote)
	if c.Settings != nil {
		if c.Settings.TokenDelay > 0 {
			engine.TokenDelay = c.Settings.TokenDelay
		}
		if c.Settings.FallbackDelay > 0 {
			engine.FallbackDelay = c.Settings.FallbackDelay
		}
	}

	w := c.out()
	if c.JSON {
		w = io.Discard
	}
	out, err := engine.Converse(ctx, c.Text, w, c.animate())
	if errors.Is(err, chat.ErrEmptyInput) {
		return errors.New("nothing to send")
	}
	if err != nil {
		return err
	}
	if c.JSON {
		return printers.JSON(c.out(), Result{Reply: out.Message.Text, Fallback: out.Fallback})
	}
	if out.Fallback {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(c.out(), "(reply service unavailable, answered locally)")
	}
	return nil
}

// History prints the stored transcript.
type History struct {
	App  *app.Service
	JSON bool
	Out  io.Writer
}

func (h *History) Do(_ context.Context) error {
	if h.App == nil {
		return errors.New("can not get history, no persistence")
	}
	msgs := h.App.Messages()
	if h.JSON {
		return printers.JSON(h.Out, msgs)
	}
	pp := printers.PrettyPrint{Out: h.Out}
	pp.TitleWithCount("Conversation", len(msgs), "message")
	pp.Messages(msgs...)
	return nil
}

// NewChat empties the transcript.
type NewChat struct {
	App *app.Service
	Out io.Writer
}

func (n *NewChat) Do(_ context.Context) error {
	if n.App == nil {
		return errors.New("can not start a new chat, no persistence")
	}
	if err := n.App.NewChat(); err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	_, _ = color.New(color.Faint).Fprintln(out, "Started a new chat.")
	return nil
}
