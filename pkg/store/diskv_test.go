package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/message"
)

func loadTest(t *testing.T) (Persistence, string) {
	t.Helper()
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	return p, base
}

func TestLoadEmptyStore(t *testing.T) {
	p, _ := loadTest(t)
	msgs, err := p.LoadMessages()
	if err != nil || msgs == nil || len(msgs) != 0 {
		t.Fatalf("expected empty messages, got %v %v", msgs, err)
	}
	entries, err := p.LoadEntries()
	if err != nil || entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty entries, got %v %v", entries, err)
	}
	draft, err := p.LoadDraft()
	if err != nil || draft != "" {
		t.Fatalf("expected empty draft, got %q %v", draft, err)
	}
}

func TestMessagesRoundTrip(t *testing.T) {
	p, base := loadTest(t)
	now := time.Date(2026, 10, 19, 14, 5, 0, 0, time.UTC)
	in := []message.Message{
		message.New(message.User, "hi", now),
		message.New(message.Assistant, "hello there", now.Add(time.Second)),
	}
	if err := p.SaveMessages(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, string(SlotMessages))); err != nil {
		t.Fatalf("expected slot file: %v", err)
	}
	out, err := p.LoadMessages()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || out[1].Role != message.Assistant || out[1].Text != "hello there" || !out[0].Time.Equal(now) {
		t.Fatalf("unexpected messages %+v", out)
	}
}

func TestReadSeesExternalWrites(t *testing.T) {
	p, base := loadTest(t)
	if err := p.SaveDraft("first"); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if _, err := p.LoadDraft(); err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, string(SlotDraft)), []byte("second"), 0o644); err != nil {
		t.Fatalf("external write: %v", err)
	}
	got, err := p.LoadDraft()
	if err != nil || got != "second" {
		t.Fatalf("expected fresh draft, got %q %v", got, err)
	}
}

func TestSaveEmptyDraftErases(t *testing.T) {
	p, base := loadTest(t)
	if err := p.SaveDraft("thinking about"); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if err := p.SaveDraft(""); err != nil {
		t.Fatalf("erase draft: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, string(SlotDraft))); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected draft slot removed, got %v", err)
	}
}

func TestClearIsIdempotentAndKeepsTheme(t *testing.T) {
	p, _ := loadTest(t)
	e, err := journal.New(journal.DefaultPrompt(), "text", 3, time.Now())
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}
	if err := p.SaveEntries([]journal.Entry{*e}); err != nil {
		t.Fatalf("save entries: %v", err)
	}
	if err := p.SaveMessages([]message.Message{message.New(message.User, "x", time.Now())}); err != nil {
		t.Fatalf("save messages: %v", err)
	}
	if err := p.SaveTheme("light"); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := p.Clear(); err != nil {
			t.Fatalf("clear #%d: %v", i+1, err)
		}
	}
	entries, _ := p.LoadEntries()
	msgs, _ := p.LoadMessages()
	if len(entries) != 0 || len(msgs) != 0 {
		t.Fatalf("expected cleared store, got %d entries %d messages", len(entries), len(msgs))
	}
	theme, err := p.LoadTheme()
	if err != nil || theme != "light" {
		t.Fatalf("expected theme to survive clear, got %q %v", theme, err)
	}
}

func TestCorruptSlot(t *testing.T) {
	p, base := loadTest(t)
	if err := os.WriteFile(filepath.Join(base, string(SlotEntries)), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := p.LoadEntries()
	if !errors.Is(err, ErrCorruptSlot) {
		t.Fatalf("expected ErrCorruptSlot, got %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty entries on corruption, got %v", entries)
	}
}
