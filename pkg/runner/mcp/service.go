// Package mcp exposes the journal, analytics and chat over the Model Context
// Protocol so assistants can read and write SoulSync data.
package mcp

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"tableflip.dev/soulsync/pkg/analytics"
	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/chat"
	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/message"
	"tableflip.dev/soulsync/pkg/reply"
)

// Service coordinates app operations shared by the MCP tools and resources.
type Service struct {
	App    *app.Service
	Remote reply.Replier

	// FallbackDelay overrides the chat fallback pause; zero keeps the default.
	FallbackDelay time.Duration

	// One conversation flow at a time; tool calls may arrive concurrently.
	mu sync.Mutex
}

// ErrEntryNotFound is returned when no entry has the requested id.
var ErrEntryNotFound = errors.New("entry not found")

// EntryDTO is a transport-friendly projection of a journal entry.
type EntryDTO struct {
	ID          string `json:"id"`
	Prompt      string `json:"prompt"`
	Text        string `json:"text"`
	Mood        int    `json:"mood"`
	MoodEmoji   string `json:"moodEmoji"`
	CreatedISO  string `json:"created"`
	CreatedUnix int64  `json:"createdUnix"`
}

// MessageDTO is a transport-friendly projection of a chat message.
type MessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	TimeISO string `json:"time"`
}

// ReplyDTO is the result of one conversation turn.
type ReplyDTO struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}

func NewService(svc *app.Service, remote reply.Replier) *Service {
	return &Service{App: svc, Remote: remote}
}

func (s *Service) ready() error {
	if s == nil || s.App == nil {
		return errors.New("persistence is not configured")
	}
	return nil
}

func toEntryDTO(e journal.Entry) EntryDTO {
	return EntryDTO{
		ID:          e.ID,
		Prompt:      e.Prompt,
		Text:        e.Text,
		Mood:        int(e.Mood),
		MoodEmoji:   e.Mood.Emoji(),
		CreatedISO:  e.Created.UTC().Format(time.RFC3339),
		CreatedUnix: e.Created.Unix(),
	}
}

func toMessageDTO(m message.Message) MessageDTO {
	return MessageDTO{
		Role:    m.Role.Wire(),
		Content: m.Text,
		TimeISO: m.Time.UTC().Format(time.RFC3339),
	}
}

// AddEntry saves a journal entry. An empty prompt uses the default one.
func (s *Service) AddEntry(_ context.Context, prompt, text string, mood int) (EntryDTO, error) {
	if err := s.ready(); err != nil {
		return EntryDTO{}, err
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = journal.DefaultPrompt()
	}
	e, err := s.App.AddEntry(prompt, text, journal.Mood(mood))
	if err != nil {
		return EntryDTO{}, err
	}
	return toEntryDTO(*e), nil
}

// ListEntries returns entries newest first. days limits the window when
// positive; limit caps the result when positive.
func (s *Service) ListEntries(_ context.Context, days, limit int) ([]EntryDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	entries := s.App.Entries()
	if days > 0 {
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1-days)
		entries = s.App.EntriesSince(start)
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e))
	}
	return out, nil
}

// EntryByID finds a single entry.
func (s *Service) EntryByID(_ context.Context, id string) (EntryDTO, error) {
	if err := s.ready(); err != nil {
		return EntryDTO{}, err
	}
	for _, e := range s.App.Entries() {
		if e.ID == id {
			return toEntryDTO(e), nil
		}
	}
	return EntryDTO{}, ErrEntryNotFound
}

// SearchEntries matches query case-insensitively against prompt and text.
func (s *Service) SearchEntries(_ context.Context, query string, limit int) ([]EntryDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, errors.New("query is required")
	}
	if limit <= 0 {
		limit = 20
	}
	out := make([]EntryDTO, 0)
	for _, e := range s.App.Entries() {
		if strings.Contains(strings.ToLower(e.Text), needle) || strings.Contains(strings.ToLower(e.Prompt), needle) {
			out = append(out, toEntryDTO(e))
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// Stats summarizes a window such as "30d" or "2w".
func (s *Service) Stats(_ context.Context, window string) (analytics.Summary, error) {
	if err := s.ready(); err != nil {
		return analytics.Summary{}, err
	}
	days, _, err := analytics.ParseWindow(window)
	if err != nil {
		return analytics.Summary{}, err
	}
	return s.App.Analytics(days), nil
}

// Messages returns the most recent limit messages, oldest first.
func (s *Service) Messages(_ context.Context, limit int) ([]MessageDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	msgs := s.App.Messages()
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageDTO(m))
	}
	return out, nil
}

// SendMessage runs one conversation turn and returns the stored reply.
func (s *Service) SendMessage(ctx context.Context, text string) (ReplyDTO, error) {
	if err := s.ready(); err != nil {
		return ReplyDTO{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	engine := chat.NewEngine(s.App, s.Remote)
	if s.FallbackDelay > 0 {
		engine.FallbackDelay = s.FallbackDelay
	}
	out, err := engine.Converse(ctx, text, io.Discard, false)
	if err != nil {
		return ReplyDTO{}, err
	}
	return ReplyDTO{Reply: out.Message.Text, Fallback: out.Fallback}, nil
}

// NewChat empties the transcript.
func (s *Service) NewChat(_ context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.App.NewChat()
}
