package chat

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTokenDelay is the pause between revealed tokens.
	DefaultTokenDelay = 18 * time.Millisecond
	// ScrollEvery is how many tokens pass between auto-scrolls.
	ScrollEvery = 6
)

// Stream reveals a reply token by token. The full text is already persisted;
// the stream only controls presentation. Cancel reveals the remainder at the
// next yield.
type Stream struct {
	mu        sync.Mutex
	tokens    []string
	pos       int
	revealed  strings.Builder
	cancelled bool
	delay     time.Duration
}

// NewStream tokenizes text for reveal with delay between tokens.
func NewStream(text string, delay time.Duration) *Stream {
	return &Stream{tokens: Tokenize(text), delay: delay}
}

// Delay is the pause before the next token.
func (s *Stream) Delay() time.Duration {
	return s.delay
}

// Cancel asks the stream to reveal everything that is left.
func (s *Stream) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
}

// Cancelled reports whether Cancel was called.
func (s *Stream) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Next reveals the next token. After Cancel it reveals the whole remainder
// as one chunk. ok is false once nothing is left.
func (s *Stream) Next() (chunk string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.tokens) {
		return "", false
	}
	if s.cancelled {
		chunk = strings.Join(s.tokens[s.pos:], "")
		s.pos = len(s.tokens)
	} else {
		chunk = s.tokens[s.pos]
		s.pos++
	}
	s.revealed.WriteString(chunk)
	return chunk, true
}

// Done reports whether every token has been revealed.
func (s *Stream) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos >= len(s.tokens)
}

// Revealed is the text shown so far.
func (s *Stream) Revealed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed.String()
}

// ShouldScroll reports whether the view should follow the stream after the
// token just revealed: every ScrollEvery tokens and at the end.
func (s *Stream) ShouldScroll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos%ScrollEvery == 0 || s.pos >= len(s.tokens)
}

// Run writes the stream to w, pausing between tokens. Cancelling ctx behaves
// like Cancel: the rest is written at once and Run returns nil.
func (s *Stream) Run(ctx context.Context, w io.Writer) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		chunk, ok := s.Next()
		if !ok {
			return nil
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		if s.Done() || s.Cancelled() || s.delay <= 0 {
			continue
		}
		if timer == nil {
			timer = time.NewTimer(s.delay)
		} else {
			timer.Reset(s.delay)
		}
		select {
		case <-ctx.Done():
			s.Cancel()
		case <-timer.C:
		}
	}
}
