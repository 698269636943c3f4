package chat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/message"
	"tableflip.dev/soulsync/pkg/reply"
	"tableflip.dev/soulsync/pkg/store"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

type fakeReplier struct {
	text  string
	err   error
	calls int
	seen  []message.Message
}

func (f *fakeReplier) Reply(_ context.Context, history []message.Message) (string, error) {
	f.calls++
	f.seen = history
	return f.text, f.err
}

func newTestEngine(t *testing.T, remote reply.Replier) (*Engine, *app.Service) {
	t.Helper()
	p, err := store.Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	svc := app.New(p)
	if err := svc.Load(context.Background(), ""); err != nil {
		t.Fatalf("load service: %v", err)
	}
	e := NewEngine(svc, remote)
	e.TokenDelay = 0
	e.FallbackDelay = time.Millisecond
	return e, svc
}

func TestMachineTransitions(t *testing.T) {
	var m Machine
	if m.Busy() {
		t.Fatalf("new machine should be idle")
	}
	for _, next := range []State{Submitted, AwaitingReply, LocalFallback, StreamingReply, Idle} {
		if err := m.To(next); err != nil {
			t.Fatalf("to %s: %v", next, err)
		}
	}
	if err := m.To(StreamingReply); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	_ = m.To(Submitted)
	if err := m.To(Idle); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	m.Reset()
	if m.State() != Idle {
		t.Fatalf("reset should return to idle")
	}
}

func TestTokenize(t *testing.T) {
	tests := map[string][]string{
		"":                 nil,
		"a  b":             {"a", "  ", "b"},
		" hi there\n":      {" ", "hi", " ", "there", "\n"},
		"Inhale 4, hold 4": {"Inhale", " ", "4,", " ", "hold", " ", "4"},
	}
	for in, want := range tests {
		got := Tokenize(in)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Tokenize(%q) = %q, want %q", in, got, want)
		}
		if strings.Join(got, "") != in {
			t.Fatalf("tokens of %q do not rejoin", in)
		}
	}
}

func TestStreamRevealsInOrder(t *testing.T) {
	s := NewStream("one two three four", 0)
	var got []string
	for {
		chunk, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, chunk)
	}
	if len(got) != 7 || got[0] != "one" || got[6] != "four" {
		t.Fatalf("unexpected chunks %q", got)
	}
	if !s.Done() || s.Revealed() != "one two three four" {
		t.Fatalf("unexpected revealed %q", s.Revealed())
	}
}

func TestStreamCancelRevealsRest(t *testing.T) {
	s := NewStream("one two three four", time.Hour)
	first, _ := s.Next()
	if first != "one" {
		t.Fatalf("unexpected first chunk %q", first)
	}
	s.Cancel()
	rest, ok := s.Next()
	if !ok || rest != " two three four" {
		t.Fatalf("expected remainder after cancel, got %q", rest)
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("expected stream to be done")
	}
}

func TestStreamScrollCadence(t *testing.T) {
	s := NewStream(strings.Repeat("w ", 7), 0)
	var scrolls []int
	for i := 1; ; i++ {
		if _, ok := s.Next(); !ok {
			break
		}
		if s.ShouldScroll() {
			scrolls = append(scrolls, i)
		}
	}
	if !reflect.DeepEqual(scrolls, []int{6, 12, 14}) {
		t.Fatalf("unexpected scroll points %v", scrolls)
	}
}

func TestStreamRunStopsWaitingOnCancel(t *testing.T) {
	s := NewStream("slow reply with many words", time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, &buf) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
	if buf.String() != "slow reply with many words" {
		t.Fatalf("expected full text, got %q", buf.String())
	}
}

func TestEngineRemoteReply(t *testing.T) {
	remote := &fakeReplier{text: "Breathe with me."}
	e, svc := newTestEngine(t, remote)

	if _, err := e.Submit("  I feel anxious  "); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !e.Busy() || !e.Thinking() {
		t.Fatalf("expected busy and thinking after submit, state %s", e.State())
	}
	out, err := e.Respond(context.Background())
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if out.Fallback || out.Message.Text != "Breathe with me." || e.State() != StreamingReply {
		t.Fatalf("unexpected outcome %+v in %s", out, e.State())
	}
	if len(remote.seen) != 1 || remote.seen[0].Text != "I feel anxious" {
		t.Fatalf("remote saw %+v", remote.seen)
	}
	msgs := svc.Messages()
	if len(msgs) != 2 || msgs[1].Role != message.Assistant || msgs[1].Text != "Breathe with me." {
		t.Fatalf("expected reply persisted before streaming, got %+v", msgs)
	}
	e.Finish()
	if e.Busy() {
		t.Fatalf("expected idle after finish")
	}
}

func TestEngineFallsBackLocally(t *testing.T) {
	remote := &fakeReplier{err: fmt.Errorf("%w: boom", reply.ErrUnavailable)}
	e, svc := newTestEngine(t, remote)
	var buf bytes.Buffer
	out, err := e.Converse(context.Background(), "so tired today", &buf, true)
	if err != nil {
		t.Fatalf("converse: %v", err)
	}
	want := reply.LocalReply("tired")
	if !out.Fallback || out.Message.Text != want {
		t.Fatalf("expected local fatigue reply, got %+v", out)
	}
	if buf.String() != want+"\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if got := len(svc.Messages()); got != 2 {
		t.Fatalf("expected 2 messages, got %d", got)
	}
	if e.Busy() {
		t.Fatalf("expected controls re-enabled")
	}
}

func TestEngineWithoutRemote(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	out, err := e.Converse(context.Background(), "hello", &bytes.Buffer{}, false)
	if err != nil {
		t.Fatalf("converse: %v", err)
	}
	if !out.Fallback || out.Message.Text != reply.LocalReply("") {
		t.Fatalf("expected default local reply, got %+v", out)
	}
}

func TestEngineIgnoresEmptyInput(t *testing.T) {
	remote := &fakeReplier{text: "x"}
	e, svc := newTestEngine(t, remote)
	if _, err := e.Submit("   "); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if e.Busy() || len(svc.Messages()) != 0 || remote.calls != 0 {
		t.Fatalf("expected no state change for empty input")
	}
}

func TestEngineRejectsOverlappingSubmit(t *testing.T) {
	e, _ := newTestEngine(t, &fakeReplier{text: "x"})
	if _, err := e.Submit("first"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := e.Submit("second"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
