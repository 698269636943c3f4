package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/message"
	"tableflip.dev/soulsync/pkg/reply"
)

// DefaultFallbackDelay is the pause before a local reply after the remote
// service fails.
const DefaultFallbackDelay = 200 * time.Millisecond

// ErrEmptyInput is returned by Submit for blank input. Callers ignore it.
var ErrEmptyInput = errors.New("chat: empty input")

// Outcome is the assistant reply produced for one submission.
type Outcome struct {
	Message  message.Message
	Fallback bool
	Stream   *Stream
}

// Engine runs the submit/reply flow against the application state.
type Engine struct {
	App *app.Service
	// Remote is tried first; nil goes straight to Fallback.
	Remote   reply.Replier
	Fallback reply.Replier

	TokenDelay    time.Duration
	FallbackDelay time.Duration

	machine Machine
}

// NewEngine wires an engine with the default delays and the local fallback.
func NewEngine(svc *app.Service, remote reply.Replier) *Engine {
	return &Engine{
		App:           svc,
		Remote:        remote,
		Fallback:      reply.Local{},
		TokenDelay:    DefaultTokenDelay,
		FallbackDelay: DefaultFallbackDelay,
	}
}

// State is the current flow state.
func (e *Engine) State() State {
	return e.machine.State()
}

// Busy reports whether input controls are disabled.
func (e *Engine) Busy() bool {
	return e.machine.Busy()
}

// Thinking reports whether the typing indicator should show.
func (e *Engine) Thinking() bool {
	return e.machine.Thinking()
}

// Submit trims and appends the user message, then waits for Respond.
func (e *Engine) Submit(text string) (message.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return message.Message{}, ErrEmptyInput
	}
	if err := e.machine.To(Submitted); err != nil {
		return message.Message{}, err
	}
	m, err := e.App.AppendMessage(message.User, text)
	if err != nil {
		e.machine.Reset()
		return message.Message{}, err
	}
	if err := e.machine.To(AwaitingReply); err != nil {
		e.machine.Reset()
		return message.Message{}, err
	}
	return m, nil
}

// Respond asks the remote service for a reply over the full history, falling
// back to a local reply on any failure. The reply is persisted before the
// returned stream starts revealing it.
func (e *Engine) Respond(ctx context.Context) (*Outcome, error) {
	history := e.App.Messages()

	text, remoteErr := e.remoteReply(ctx, history)
	fallback := remoteErr != nil
	if fallback {
		log.Printf("[chat] reply service unavailable, answering locally: %v", remoteErr)
		if err := e.machine.To(LocalFallback); err != nil {
			e.machine.Reset()
			return nil, err
		}
		if err := sleep(ctx, e.FallbackDelay); err != nil {
			e.machine.Reset()
			return nil, err
		}
		text = e.localReply(ctx, history)
	}

	m, err := e.App.AppendMessage(message.Assistant, text)
	if err != nil {
		e.machine.Reset()
		return nil, err
	}
	if err := e.machine.To(StreamingReply); err != nil {
		e.machine.Reset()
		return nil, err
	}
	return &Outcome{Message: m, Fallback: fallback, Stream: NewStream(m.Text, e.TokenDelay)}, nil
}

// Finish re-enables input. It is called unconditionally when a flow ends.
func (e *Engine) Finish() {
	e.machine.Reset()
}

// Converse runs the whole flow headlessly for the CLI. With animate set the
// reply is written token by token; otherwise it is written at once.
func (e *Engine) Converse(ctx context.Context, text string, w io.Writer, animate bool) (*Outcome, error) {
	defer e.Finish()
	if _, err := e.Submit(text); err != nil {
		return nil, err
	}
	out, err := e.Respond(ctx)
	if err != nil {
		return nil, err
	}
	if !animate {
		out.Stream.Cancel()
	}
	if err := out.Stream.Run(ctx, w); err != nil {
		return out, fmt.Errorf("chat: write reply: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return out, fmt.Errorf("chat: write reply: %w", err)
	}
	return out, nil
}

func (e *Engine) remoteReply(ctx context.Context, history []message.Message) (string, error) {
	if e.Remote == nil {
		return "", fmt.Errorf("%w: no reply service", reply.ErrUnavailable)
	}
	return e.Remote.Reply(ctx, history)
}

func (e *Engine) localReply(ctx context.Context, history []message.Message) string {
	fb := e.Fallback
	if fb == nil {
		fb = reply.Local{}
	}
	text, err := fb.Reply(ctx, history)
	if err != nil {
		log.Printf("[chat] local reply: %v", err)
		return reply.LocalReply(reply.LastUserText(history))
	}
	return text
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
