package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"tableflip.dev/soulsync/pkg/analytics"
	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/message"
	"tableflip.dev/soulsync/pkg/store"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

var errNoPersistence = errors.New("app: no persistence configured")

// Service is the single source of truth for application state. Every mutation
// goes through a named operation that persists the affected slot before the
// in-memory copy changes, so a failed write leaves state untouched.
type Service struct {
	Persistence store.Persistence
	// Now is the clock used for new messages and entries.
	Now func() time.Time

	mu       sync.RWMutex
	messages []message.Message
	entries  []journal.Entry
	draft    string
	theme    string
}

// New builds a Service over p. Call Load before use.
func New(p store.Persistence) *Service {
	return &Service{Persistence: p, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Load reads every slot once. defaultTheme applies when no theme was stored.
func (s *Service) Load(ctx context.Context, defaultTheme string) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	if err := s.Reload(ctx, ""); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == "" {
		s.theme = normalizeTheme(defaultTheme)
	}
	return nil
}

// Reload re-reads one slot, or all of them when slot is empty. The TUI calls
// it when the store watcher reports a change from another process.
func (s *Service) Reload(ctx context.Context, slot store.Slot) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	all := slot == ""

	var (
		msgs    []message.Message
		entries []journal.Entry
		draft   string
		theme   string
		err     error
	)
	if all || slot == store.SlotMessages {
		if msgs, err = s.Persistence.LoadMessages(); err != nil {
			return err
		}
	}
	if all || slot == store.SlotEntries {
		if entries, err = s.Persistence.LoadEntries(); err != nil {
			return err
		}
	}
	if all || slot == store.SlotDraft {
		if draft, err = s.Persistence.LoadDraft(); err != nil {
			return err
		}
	}
	if all || slot == store.SlotTheme {
		if theme, err = s.Persistence.LoadTheme(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if all || slot == store.SlotMessages {
		s.messages = msgs
	}
	if all || slot == store.SlotEntries {
		s.entries = entries
	}
	if all || slot == store.SlotDraft {
		s.draft = draft
	}
	if (all || slot == store.SlotTheme) && theme != "" {
		s.theme = normalizeTheme(theme)
	}
	return nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// Messages returns the chat history in insertion order.
func (s *Service) Messages() []message.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return message.Clone(s.messages)
}

// Entries returns the journal sorted newest first.
func (s *Service) Entries() []journal.Entry {
	s.mu.RLock()
	out := journal.Clone(s.entries)
	s.mu.RUnlock()
	journal.SortNewestFirst(out)
	return out
}

// EntriesSince returns entries created at or after since, newest first.
func (s *Service) EntriesSince(since time.Time) []journal.Entry {
	var out []journal.Entry
	for _, e := range s.Entries() {
		if !e.Created.Before(since) {
			out = append(out, e)
		}
	}
	return out
}

// Draft returns the unsaved journal text.
func (s *Service) Draft() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// Theme returns "dark" or "light".
func (s *Service) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.theme == "" {
		return ThemeDark
	}
	return s.theme
}

// AppendMessage adds one message to the history and persists it.
func (s *Service) AppendMessage(role message.Role, text string) (message.Message, error) {
	if s.Persistence == nil {
		return message.Message{}, errNoPersistence
	}
	m := message.New(role, text, s.now())
	if err := m.Validate(); err != nil {
		return message.Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(message.Clone(s.messages), m)
	if err := s.Persistence.SaveMessages(next); err != nil {
		return message.Message{}, err
	}
	s.messages = next
	return m, nil
}

// NewChat empties the history and persists the empty list.
func (s *Service) NewChat() error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Persistence.SaveMessages([]message.Message{}); err != nil {
		return err
	}
	s.messages = []message.Message{}
	return nil
}

// SetDraft stores the editor text on every edit. An empty draft removes the
// slot.
func (s *Service) SetDraft(text string) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if text == s.draft {
		return nil
	}
	if err := s.Persistence.SaveDraft(text); err != nil {
		return err
	}
	s.draft = text
	return nil
}

// AddEntry validates and saves a journal entry, then clears the draft.
// Blank text returns journal.ErrEmptyText and changes nothing.
func (s *Service) AddEntry(prompt, text string, mood journal.Mood) (*journal.Entry, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = journal.DefaultPrompt()
	}
	e, err := journal.New(prompt, text, mood, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(journal.Clone(s.entries), *e)
	if err := s.Persistence.SaveEntries(next); err != nil {
		return nil, err
	}
	s.entries = next
	if err := s.Persistence.SaveDraft(""); err != nil {
		// The entry is saved; a stale draft is only cosmetic.
		log.Printf("[app] clear draft: %v", err)
	} else {
		s.draft = ""
	}
	return e, nil
}

// Analytics summarizes the journal over the last days.
func (s *Service) Analytics(days int) analytics.Summary {
	s.mu.RLock()
	entries := journal.Clone(s.entries)
	s.mu.RUnlock()
	return analytics.Summarize(entries, s.now(), days)
}

// SetTheme stores the theme preference.
func (s *Service) SetTheme(theme string) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	theme = normalizeTheme(theme)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Persistence.SaveTheme(theme); err != nil {
		return err
	}
	s.theme = theme
	return nil
}

// ToggleTheme flips between dark and light and returns the new theme.
func (s *Service) ToggleTheme() (string, error) {
	next := ThemeLight
	if s.Theme() == ThemeLight {
		next = ThemeDark
	}
	if err := s.SetTheme(next); err != nil {
		return "", err
	}
	return next, nil
}

// Clear wipes messages, entries and the draft. It is safe to call twice.
func (s *Service) Clear() error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Persistence.Clear(); err != nil {
		return fmt.Errorf("app: clear: %w", err)
	}
	s.messages = []message.Message{}
	s.entries = []journal.Entry{}
	s.draft = ""
	return nil
}

func normalizeTheme(t string) string {
	if strings.EqualFold(strings.TrimSpace(t), ThemeLight) {
		return ThemeLight
	}
	return ThemeDark
}
