package journal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/soulsync/pkg/timestamp"
)

var (
	// ErrEmptyText rejects a save whose text is blank after trimming.
	ErrEmptyText = errors.New("journal: write something first")
	// ErrMoodRange rejects moods outside the 1-5 scale.
	ErrMoodRange = errors.New("journal: mood must be between 1 and 5")
	// ErrMissingID rejects decoded entries without an id.
	ErrMissingID = errors.New("journal: entry id required")
)

// PreviewLimit is the number of characters of entry text shown in lists.
const PreviewLimit = 160

// Entry is one saved journal record.
type Entry struct {
	ID      string              `json:"id"`
	Created timestamp.Timestamp `json:"created"`
	Prompt  string              `json:"prompt"`
	Text    string              `json:"text"`
	Mood    Mood                `json:"mood"`
}

// New validates the editor state and builds a fresh entry with a random id.
func New(prompt, text string, mood Mood, now time.Time) (*Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if !mood.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrMoodRange, mood)
	}
	return &Entry{
		ID:      uuid.NewString(),
		Created: timestamp.Of(now),
		Prompt:  prompt,
		Text:    text,
		Mood:    mood,
	}, nil
}

// Validate checks a decoded entry.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrMissingID
	}
	if !e.Mood.Valid() {
		return fmt.Errorf("%w: entry %s has %d", ErrMoodRange, e.ID, e.Mood)
	}
	if e.Created.IsZero() {
		return fmt.Errorf("journal: entry %s has no created time", e.ID)
	}
	return nil
}

// Preview returns the list preview of the entry text.
func (e *Entry) Preview() string {
	r := []rune(e.Text)
	if len(r) <= PreviewLimit {
		return e.Text
	}
	return string(r[:PreviewLimit]) + "…"
}

// Meta renders the one-line summary shown above a preview.
func (e *Entry) Meta() string {
	return fmt.Sprintf("%s • Mood %d %s • %s", e.Created.Local().Format("Jan 2, 2006"), e.Mood, e.Mood.Emoji(), e.Prompt)
}

// SortNewestFirst orders entries by creation time, newest first. Ties are
// broken by id so the order is stable across reloads.
func SortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		lt := entries[i].Created.Time
		rt := entries[j].Created.Time
		if lt.Equal(rt) {
			return entries[i].ID < entries[j].ID
		}
		return lt.After(rt)
	})
}

// Clone copies an entry list.
func Clone(in []Entry) []Entry {
	if in == nil {
		return []Entry{}
	}
	out := make([]Entry, len(in))
	copy(out, in)
	return out
}
