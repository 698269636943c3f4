// Package transfer exports and imports SoulSync data files.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"

	"tableflip.dev/soulsync/pkg/app"
)

// Stdout is the Path that writes the export to Out instead of a file.
const Stdout = "-"

type Export struct {
	App *app.Service
	// Path is a file, a directory, or Stdout. Empty means the working
	// directory.
	Path string
	Out  io.Writer
}

func (e *Export) out() io.Writer {
	if e.Out == nil {
		return color.Output
	}
	return e.Out
}

func (e *Export) Do(_ context.Context) error {
	if e.App == nil {
		return errors.New("can not export, no persistence")
	}
	if e.Path == Stdout {
		data, err := e.App.Export()
		if err != nil {
			return err
		}
		_, err = e.out().Write(append(data, '\n'))
		return err
	}

	path, err := homedir.Expand(e.Path)
	if err != nil {
		return err
	}
	if path == "" {
		path = "."
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		written, err := e.App.ExportFile(path)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(e.out(), "Exported to %s\n", written)
		return nil
	}

	data, err := e.App.Export()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	_, _ = fmt.Fprintf(e.out(), "Exported to %s\n", path)
	return nil
}

type Import struct {
	App  *app.Service
	Path string
	Out  io.Writer
}

func (i *Import) Do(_ context.Context) error {
	if i.App == nil {
		return errors.New("can not import, no persistence")
	}
	path, err := homedir.Expand(i.Path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	res, err := i.App.Import(data)
	if err != nil {
		return err
	}
	out := i.Out
	if out == nil {
		out = color.Output
	}
	if !res.MessagesReplaced && !res.EntriesReplaced {
		_, _ = fmt.Fprintln(out, "Import contained nothing to replace.")
		return nil
	}
	if res.MessagesReplaced {
		_, _ = fmt.Fprintf(out, "Imported %d messages\n", res.Messages)
	}
	if res.EntriesReplaced {
		_, _ = fmt.Fprintf(out, "Imported %d entries\n", res.Entries)
	}
	return nil
}
