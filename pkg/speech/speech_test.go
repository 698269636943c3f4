package speech

import (
	"context"
	"errors"
	"testing"
)

func TestUnsupportedByDefault(t *testing.T) {
	tr, err := New("   ")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := tr.Transcribe(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestCommandTranscribes(t *testing.T) {
	tr, err := New(`echo "  hello   world "`)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err := tr.Transcribe(context.Background())
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got != "hello   world" {
		t.Fatalf("unexpected transcript %q", got)
	}
}

func TestMissingCommandIsUnsupported(t *testing.T) {
	tr, err := New("soulsync-no-such-recognizer --once")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := tr.Transcribe(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestAppendTranscript(t *testing.T) {
	if got := AppendTranscript("I feel", "calm"); got != "I feel calm" {
		t.Fatalf("unexpected %q", got)
	}
	if got := AppendTranscript("", "calm"); got != "calm" {
		t.Fatalf("unexpected %q", got)
	}
}
