// Package erase wipes stored messages, entries and the draft.
package erase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"

	"tableflip.dev/soulsync/pkg/app"
)

// ErrDeclined is returned when the confirmation is not answered with y.
var ErrDeclined = errors.New("clear cancelled")

const question = "Clear all messages and journal entries? This cannot be undone"

type Clear struct {
	App *app.Service
	// Yes skips the confirmation prompt.
	Yes bool
	// In is read for the answer; nil means an interactive prompt on a
	// terminal stdin, or a plain line read otherwise.
	In  io.Reader
	Out io.Writer
}

func (c *Clear) Do(_ context.Context) error {
	if c.App == nil {
		return errors.New("can not clear, no persistence")
	}
	out := c.Out
	if out == nil {
		out = color.Output
	}
	if !c.Yes {
		if err := c.confirm(out); err != nil {
			return err
		}
	}
	if err := c.App.Clear(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "All data cleared.")
	return nil
}

func (c *Clear) confirm(out io.Writer) error {
	in := c.In
	if in == nil {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			prompt := promptui.Prompt{
				Label:     question,
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
					return ErrDeclined
				}
				return err
			}
			return nil
		}
		in = os.Stdin
	}

	_, _ = color.New(color.FgRed).Fprint(out, question+". [y/N] ")
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
		return ErrDeclined
	}
	return nil
}
