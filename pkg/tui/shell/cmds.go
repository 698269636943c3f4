package shell

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/mitchellh/go-homedir"

	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/chat"
	"tableflip.dev/soulsync/pkg/speech"
	"tableflip.dev/soulsync/pkg/starfield"
	"tableflip.dev/soulsync/pkg/store"
	"tableflip.dev/soulsync/pkg/tui/events"
)

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchStoppedMsg struct{}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return events.StoreChangedMsg{Event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// respondCmd runs the blocking reply request off the update loop.
func respondCmd(ctx context.Context, engine *chat.Engine) tea.Cmd {
	return func() tea.Msg {
		out, err := engine.Respond(ctx)
		return events.ReplyMsg{Outcome: out, Err: err}
	}
}

func streamTickCmd(seq int, delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return events.StreamTickMsg{Seq: seq} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return events.StreamTickMsg{Seq: seq}
	})
}

func starTickCmd(gen int) tea.Cmd {
	return tea.Tick(starfield.FrameInterval, func(t time.Time) tea.Msg {
		return events.StarTickMsg{Gen: gen, At: t}
	})
}

func transcribeCmd(ctx context.Context, tr speech.Transcriber) tea.Cmd {
	return func() tea.Msg {
		text, err := tr.Transcribe(ctx)
		return events.TranscriptMsg{Text: text, Err: err}
	}
}

func exportCmd(svc *app.Service, dir string) tea.Cmd {
	return func() tea.Msg {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return events.ExportDoneMsg{Err: fmt.Errorf("export: %w", err)}
		}
		path, err := svc.ExportFile(expanded)
		return events.ExportDoneMsg{Path: path, Err: err}
	}
}

func importCmd(svc *app.Service, path string) tea.Cmd {
	return func() tea.Msg {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return events.ImportDoneMsg{Path: path, Err: err}
		}
		data, err := os.ReadFile(expanded)
		if err != nil {
			return events.ImportDoneMsg{Path: path, Err: err}
		}
		res, err := svc.Import(data)
		return events.ImportDoneMsg{Path: path, Result: res, Err: err}
	}
}
