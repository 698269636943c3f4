// Package reply produces assistant replies: a remote reply service client, the
// local rule-based fallback and the OpenAI-compatible upstream used by the
// bundled backend.
package reply

import (
	"context"
	"errors"

	"tableflip.dev/soulsync/pkg/message"
)

// ErrUnavailable wraps every remote failure. Callers treat it as a normal
// condition and fall back to a local reply.
var ErrUnavailable = errors.New("reply: service unavailable")

// Replier returns the assistant reply for a conversation history. The history
// ends with the user message being answered.
type Replier interface {
	Reply(ctx context.Context, history []message.Message) (string, error)
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []message.WireMessage `json:"messages"`
	Model    string                `json:"model,omitempty"`
}

// ChatResponse is the success body of POST /api/chat.
type ChatResponse struct {
	Content string `json:"content"`
}

// ErrorResponse is the failure body of POST /api/chat.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// LastUserText returns the text of the most recent user message.
func LastUserText(history []message.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == message.User {
			return history[i].Text
		}
	}
	return ""
}
