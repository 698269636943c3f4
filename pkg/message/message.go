package message

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/soulsync/pkg/timestamp"
)

// Role identifies who authored a message.
type Role string

const (
	// User messages are typed (or dictated) by the person journaling.
	User Role = "user"
	// Assistant messages are replies. Stored as "ai" to stay compatible with
	// existing exports.
	Assistant Role = "ai"

	wireAssistant = "assistant"
)

var ErrInvalidRole = errors.New("message: invalid role")

// ParseRole normalizes a stored or wire role label.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(User):
		return User, nil
	case string(Assistant), wireAssistant:
		return Assistant, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Wire returns the role label used by the reply service contract.
func (r Role) Wire() string {
	if r == Assistant {
		return wireAssistant
	}
	return string(r)
}

// Avatar is the glyph shown next to a message row.
func (r Role) Avatar() string {
	if r == User {
		return "🙂"
	}
	return "🜂"
}

// Message is one chat record. Messages are never edited after being appended.
type Message struct {
	Role Role                `json:"role"`
	Text string              `json:"text"`
	Time timestamp.Timestamp `json:"time"`
}

// New builds a message stamped with now.
func New(role Role, text string, now time.Time) Message {
	return Message{Role: role, Text: text, Time: timestamp.Of(now)}
}

// Validate checks the message shape after decoding untrusted input and
// normalizes the role label.
func (m *Message) Validate() error {
	r, err := ParseRole(string(m.Role))
	if err != nil {
		return err
	}
	m.Role = r
	return nil
}

// WireMessage is the role/content pair sent to the reply service.
type WireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToWire maps a history onto the reply service contract.
func ToWire(history []Message) []WireMessage {
	out := make([]WireMessage, 0, len(history))
	for _, m := range history {
		out = append(out, WireMessage{Role: m.Role.Wire(), Content: m.Text})
	}
	return out
}

// Clone copies a message list so callers cannot alias controller state.
func Clone(in []Message) []Message {
	if in == nil {
		return []Message{}
	}
	out := make([]Message, len(in))
	copy(out, in)
	return out
}
