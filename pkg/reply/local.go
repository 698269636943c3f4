package reply

import (
	"context"
	"strings"

	"tableflip.dev/soulsync/pkg/message"
)

// Category is the coarse feeling a local reply responds to.
type Category string

const (
	Default Category = "default"
	Anxiety Category = "anxiety"
	Sadness Category = "sadness"
	Anger   Category = "anger"
	Fatigue Category = "fatigue"
)

// Checked in order; the first category with a matching keyword wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{Anxiety, []string{"anxious", "anxiety", "nervous", "worry"}},
	{Sadness, []string{"sad", "down", "depress"}},
	{Anger, []string{"angry", "frustrated", "mad"}},
	{Fatigue, []string{"tired", "exhaust"}},
}

var localReplies = map[Category]string{
	Default: "I'm here with you. Want to take a slow breath together? Inhale 4, hold 4, exhale 6.",
	Anxiety: "It sounds like anxiety is present. Try a 4-7-8 breath. What would feel grounding right now?",
	Sadness: "I'm sorry it's heavy. What's one small kindness you can offer yourself today?",
	Anger:   "Anger is valid. Noticing it is a strength. Would naming what feels unfair help?",
	Fatigue: "Rest matters. If you could do one gentle thing next, what would it be?",
}

// Classify picks the reply category for text by case-insensitive substring
// match.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, bucket := range categoryKeywords {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return bucket.category
			}
		}
	}
	return Default
}

// LocalReply returns the canned supportive reply for text.
func LocalReply(text string) string {
	return localReplies[Classify(text)]
}

// Local answers without any network. It never fails.
type Local struct{}

func (Local) Reply(_ context.Context, history []message.Message) (string, error) {
	return LocalReply(LastUserText(history)), nil
}
