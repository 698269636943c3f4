package printers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/soulsync/pkg/analytics"
	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/message"
	"tableflip.dev/soulsync/pkg/timestamp"
)

func init() {
	color.NoColor = true
}

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	now := time.Date(2024, 3, 4, 9, 30, 0, 0, time.Local)
	pp.Messages(
		message.Message{Role: message.User, Text: "I can't sleep", Time: timestamp.Of(now)},
		message.Message{Role: message.Assistant, Text: "That sounds hard.", Time: timestamp.Of(now)},
	)
	out := buf.String()
	for _, want := range []string{"You", "SoulSync", "I can't sleep", "That sounds hard.", "Mar 4 09:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmptyLists(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Entries()
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected none marker, got %q", buf.String())
	}
}

func TestSummary(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)
	entries := []journal.Entry{
		{ID: "a", Created: timestamp.Of(now), Text: "ok", Mood: 4},
		{ID: "b", Created: timestamp.Of(now.AddDate(0, 0, -1)), Text: "ok", Mood: 2},
	}
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Summary(analytics.Summarize(entries, now, 7))
	out := buf.String()
	for _, want := range []string{"Mood over the last 1w", "streak", "2 days", "3.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, map[string]int{"entries": 2}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var got map[string]int
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["entries"] != 2 {
		t.Fatalf("got %v", got)
	}
}
