package message

import (
	"errors"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "user", want: User},
		{in: "ai", want: Assistant},
		{in: "assistant", want: Assistant},
		{in: " Assistant ", want: Assistant},
		{in: "system", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidRole) {
				t.Fatalf("ParseRole(%q): expected ErrInvalidRole, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToWireRelabelsAssistant(t *testing.T) {
	now := time.Now()
	history := []Message{
		New(User, "hello", now),
		New(Assistant, "hi there", now),
	}
	wire := ToWire(history)
	if len(wire) != 2 {
		t.Fatalf("expected 2 wire messages, got %d", len(wire))
	}
	if wire[0].Role != "user" || wire[0].Content != "hello" {
		t.Fatalf("unexpected first message %+v", wire[0])
	}
	if wire[1].Role != "assistant" || wire[1].Content != "hi there" {
		t.Fatalf("unexpected second message %+v", wire[1])
	}
}

func TestValidateNormalizesRole(t *testing.T) {
	m := Message{Role: "assistant", Text: "x"}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if m.Role != Assistant {
		t.Fatalf("expected role ai, got %q", m.Role)
	}
}
