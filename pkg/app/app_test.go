package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/message"
	"tableflip.dev/soulsync/pkg/store"
)

type memoryPersistence struct {
	mu       sync.Mutex
	messages []message.Message
	entries  []journal.Entry
	draft    string
	theme    string
	writes   int
	failOn   store.Slot
}

var errWrite = errors.New("disk full")

func (m *memoryPersistence) fail(slot store.Slot) error {
	if m.failOn == slot {
		return errWrite
	}
	m.writes++
	return nil
}

func (m *memoryPersistence) LoadMessages() ([]message.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return message.Clone(m.messages), nil
}

func (m *memoryPersistence) SaveMessages(msgs []message.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(store.SlotMessages); err != nil {
		return err
	}
	m.messages = message.Clone(msgs)
	return nil
}

func (m *memoryPersistence) LoadEntries() ([]journal.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return journal.Clone(m.entries), nil
}

func (m *memoryPersistence) SaveEntries(entries []journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(store.SlotEntries); err != nil {
		return err
	}
	m.entries = journal.Clone(entries)
	return nil
}

func (m *memoryPersistence) LoadDraft() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft, nil
}

func (m *memoryPersistence) SaveDraft(draft string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(store.SlotDraft); err != nil {
		return err
	}
	m.draft = draft
	return nil
}

func (m *memoryPersistence) LoadTheme() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme, nil
}

func (m *memoryPersistence) SaveTheme(theme string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = theme
	return nil
}

func (m *memoryPersistence) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	m.entries = nil
	m.draft = ""
	return nil
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	close(ch)
	return ch, nil
}

func newService(t *testing.T, mp *memoryPersistence) *Service {
	t.Helper()
	svc := New(mp)
	clock := time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	if err := svc.Load(context.Background(), ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	return svc
}

func TestLoadReadsAllSlots(t *testing.T) {
	mp := &memoryPersistence{
		messages: []message.Message{message.New(message.User, "hi", time.Now())},
		draft:    "half a thought",
		theme:    "light",
	}
	svc := newService(t, mp)
	if len(svc.Messages()) != 1 || svc.Draft() != "half a thought" || svc.Theme() != ThemeLight {
		t.Fatalf("unexpected state: %d messages, draft %q, theme %q", len(svc.Messages()), svc.Draft(), svc.Theme())
	}
}

func TestLoadUsesDefaultTheme(t *testing.T) {
	svc := New(&memoryPersistence{})
	if err := svc.Load(context.Background(), "light"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if svc.Theme() != ThemeLight {
		t.Fatalf("expected default light theme, got %q", svc.Theme())
	}
}

func TestAppendMessagePersists(t *testing.T) {
	mp := &memoryPersistence{}
	svc := newService(t, mp)
	if _, err := svc.AppendMessage(message.User, "I feel anxious"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := svc.AppendMessage(message.Assistant, "Let's breathe"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(mp.messages) != 2 || mp.messages[1].Role != message.Assistant {
		t.Fatalf("unexpected persisted messages %+v", mp.messages)
	}
	got := svc.Messages()
	got[0].Text = "mutated"
	if svc.Messages()[0].Text != "I feel anxious" {
		t.Fatalf("Messages must return a copy")
	}
}

func TestAppendMessageWriteFailureLeavesState(t *testing.T) {
	mp := &memoryPersistence{failOn: store.SlotMessages}
	svc := newService(t, mp)
	if _, err := svc.AppendMessage(message.User, "hi"); !errors.Is(err, errWrite) {
		t.Fatalf("expected write error, got %v", err)
	}
	if len(svc.Messages()) != 0 {
		t.Fatalf("expected no in-memory change after failed write")
	}
}

func TestNewChatEmptiesHistory(t *testing.T) {
	mp := &memoryPersistence{messages: []message.Message{message.New(message.User, "hi", time.Now())}}
	svc := newService(t, mp)
	if err := svc.NewChat(); err != nil {
		t.Fatalf("new chat: %v", err)
	}
	if len(svc.Messages()) != 0 || mp.messages == nil || len(mp.messages) != 0 {
		t.Fatalf("expected empty persisted list, got %v", mp.messages)
	}
}

func TestAddEntryAppendsAndClearsDraft(t *testing.T) {
	mp := &memoryPersistence{draft: "walk"}
	svc := newService(t, mp)

	first, err := svc.AddEntry("What went well today?", "a walk", 4)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := svc.AddEntry("What went well today?", "tea with a friend", 5)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(mp.entries) != 2 {
		t.Fatalf("expected 2 persisted entries, got %d", len(mp.entries))
	}
	if second.Created.Before(first.Created.Time) {
		t.Fatalf("expected non-decreasing timestamps")
	}
	if svc.Draft() != "" || mp.draft != "" {
		t.Fatalf("expected draft cleared")
	}
	entries := svc.Entries()
	if entries[0].ID != second.ID {
		t.Fatalf("expected newest entry first")
	}
	if entries[1].Prompt != "What went well today?" || entries[1].Text != "a walk" || entries[1].Mood != 4 {
		t.Fatalf("unexpected entry %+v", entries[1])
	}
}

func TestAddEntryRejectsBlank(t *testing.T) {
	mp := &memoryPersistence{}
	svc := newService(t, mp)
	if _, err := svc.AddEntry("p", "   ", 3); !errors.Is(err, journal.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if len(svc.Entries()) != 0 || mp.writes != 0 {
		t.Fatalf("expected no state change")
	}
}

func TestSetDraftSkipsUnchanged(t *testing.T) {
	mp := &memoryPersistence{}
	svc := newService(t, mp)
	if err := svc.SetDraft("a"); err != nil {
		t.Fatalf("set draft: %v", err)
	}
	if err := svc.SetDraft("a"); err != nil {
		t.Fatalf("set draft: %v", err)
	}
	if mp.writes != 1 {
		t.Fatalf("expected a single write, got %d", mp.writes)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	mp := &memoryPersistence{theme: "light"}
	svc := newService(t, mp)
	if _, err := svc.AddEntry("p", "text", 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AppendMessage(message.User, "hi"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := svc.SetDraft("draft"); err != nil {
		t.Fatalf("draft: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.Clear(); err != nil {
			t.Fatalf("clear: %v", err)
		}
	}
	if len(svc.Messages()) != 0 || len(svc.Entries()) != 0 || svc.Draft() != "" {
		t.Fatalf("expected empty state after clear")
	}
	if svc.Theme() != ThemeLight {
		t.Fatalf("expected theme to survive clear")
	}
}

func TestToggleTheme(t *testing.T) {
	mp := &memoryPersistence{}
	svc := newService(t, mp)
	next, err := svc.ToggleTheme()
	if err != nil || next != ThemeLight || mp.theme != ThemeLight {
		t.Fatalf("expected light theme, got %q (%v)", next, err)
	}
	if next, _ = svc.ToggleTheme(); next != ThemeDark {
		t.Fatalf("expected dark theme, got %q", next)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newService(t, &memoryPersistence{})
	if _, err := src.AppendMessage(message.User, "hello"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := src.AppendMessage(message.Assistant, "hi there"); err != nil {
		t.Fatalf("append: %v", err)
	}
	for i, text := range []string{"one", "two", "three"} {
		if _, err := src.AddEntry(journal.Prompts[i], text, journal.Mood(i+2)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	data, err := src.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"messages\"") {
		t.Fatalf("expected two-space indented export")
	}

	dst := newService(t, &memoryPersistence{})
	res, err := dst.Import(data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Messages != 2 || res.Entries != 3 {
		t.Fatalf("unexpected import result %+v", res)
	}

	want, got := src.Snapshot(), dst.Snapshot()
	if len(want.Messages) != len(got.Messages) || len(want.Entries) != len(got.Entries) {
		t.Fatalf("length mismatch after round trip")
	}
	for i := range want.Messages {
		w, g := want.Messages[i], got.Messages[i]
		if w.Role != g.Role || w.Text != g.Text || !w.Time.Equal(g.Time.Time) {
			t.Fatalf("message %d differs: %+v vs %+v", i, w, g)
		}
	}
	for i := range want.Entries {
		w, g := want.Entries[i], got.Entries[i]
		if w.ID != g.ID || w.Prompt != g.Prompt || w.Text != g.Text || w.Mood != g.Mood || !w.Created.Equal(g.Created.Time) {
			t.Fatalf("entry %d differs: %+v vs %+v", i, w, g)
		}
	}
}

func TestImportAcceptsBrowserExport(t *testing.T) {
	svc := newService(t, &memoryPersistence{})
	doc := `{
	  "messages": [{"role": "user", "text": "hi", "time": "14:05"}, {"role": "assistant", "text": "hey", "time": "14:05"}],
	  "entries": [{"id": "id-x1", "created": 1760860800000, "prompt": "Free write", "text": "ok", "mood": 3}]
	}`
	if _, err := svc.Import([]byte(doc)); err != nil {
		t.Fatalf("import: %v", err)
	}
	msgs := svc.Messages()
	if msgs[1].Role != message.Assistant {
		t.Fatalf("expected assistant role normalized, got %q", msgs[1].Role)
	}
	if got := svc.Entries()[0].Created.UnixMilli(); got != 1760860800000 {
		t.Fatalf("unexpected created %d", got)
	}
}

func TestImportAcceptsTwelveHourClock(t *testing.T) {
	svc := newService(t, &memoryPersistence{})
	doc := `{"messages": [{"role": "user", "text": "hi", "time": "02:05 PM"}, {"role": "ai", "text": "hey", "time": "2:06 pm"}]}`
	if _, err := svc.Import([]byte(doc)); err != nil {
		t.Fatalf("import: %v", err)
	}
	msgs := svc.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].Time.Hour() != 14 || msgs[0].Time.Minute() != 5 {
		t.Fatalf("unexpected first time %v", msgs[0].Time)
	}
	if msgs[1].Time.Hour() != 14 || msgs[1].Time.Minute() != 6 {
		t.Fatalf("unexpected second time %v", msgs[1].Time)
	}
}

func TestImportAbsentFieldsUntouched(t *testing.T) {
	mp := &memoryPersistence{messages: []message.Message{message.New(message.User, "keep me", time.Now())}}
	svc := newService(t, mp)
	res, err := svc.Import([]byte(`{"entries": []}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.MessagesReplaced || !res.EntriesReplaced {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(svc.Messages()) != 1 {
		t.Fatalf("expected messages untouched")
	}
}

func TestImportMalformedLeavesState(t *testing.T) {
	cases := map[string]string{
		"not json":                  `{nope`,
		"array root":                `[]`,
		"messages object":           `{"messages": {"role": "user"}}`,
		"message scalar":            `{"messages": ["hi"]}`,
		"bad role":                  `{"messages": [{"role": "system", "text": "x"}]}`,
		"mood out of range":         `{"entries": [{"id": "a", "created": 1, "prompt": "p", "text": "t", "mood": 9}]}`,
		"missing id":                `{"entries": [{"created": 1, "prompt": "p", "text": "t", "mood": 3}]}`,
		"duplicate id":              `{"entries": [{"id": "a", "created": 1, "text": "t", "mood": 3}, {"id": "a", "created": 2, "text": "u", "mood": 3}]}`,
		"bad time":                  `{"entries": [{"id": "a", "created": "yesterday", "text": "t", "mood": 3}]}`,
		"good messages bad entries": `{"messages": [], "entries": [{"id": "", "mood": 3}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			mp := &memoryPersistence{messages: []message.Message{message.New(message.User, "keep", time.Now())}}
			svc := newService(t, mp)
			if _, err := svc.Import([]byte(doc)); !errors.Is(err, ErrMalformedImport) {
				t.Fatalf("expected ErrMalformedImport, got %v", err)
			}
			if len(svc.Messages()) != 1 || len(mp.messages) != 1 || mp.writes != 0 {
				t.Fatalf("expected untouched state")
			}
		})
	}
}

func TestExportFile(t *testing.T) {
	svc := newService(t, &memoryPersistence{})
	dir := t.TempDir()
	path, err := svc.ExportFile(dir)
	if err != nil {
		t.Fatalf("export file: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "soulsync-") || !strings.HasSuffix(base, ".json") {
		t.Fatalf("unexpected export name %s", base)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Messages == nil || snap.Entries == nil {
		t.Fatalf("expected empty arrays, not null")
	}
}

func TestAnalyticsRecomputesAfterSave(t *testing.T) {
	svc := newService(t, &memoryPersistence{})
	if got := svc.Analytics(30).Streak; got != 0 {
		t.Fatalf("expected empty streak, got %d", got)
	}
	if _, err := svc.AddEntry("p", "text", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddEntry("p", "more", 4); err != nil {
		t.Fatalf("add: %v", err)
	}
	sum := svc.Analytics(30)
	today := sum.Days[len(sum.Days)-1]
	if sum.Streak != 1 || !today.HasData || today.Mean != 3 {
		t.Fatalf("unexpected analytics %+v", today)
	}
}
