package analytics

import (
	"testing"
	"time"

	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/timestamp"
)

func entryAt(id string, at time.Time, mood journal.Mood) journal.Entry {
	return journal.Entry{ID: id, Created: timestamp.Of(at), Text: "x", Mood: mood}
}

func TestSeriesMeanAndGaps(t *testing.T) {
	now := time.Date(2026, 10, 19, 20, 0, 0, 0, time.Local)
	entries := []journal.Entry{
		entryAt("a", now.Add(-2*time.Hour), 2),
		entryAt("b", now.Add(-time.Hour), 4),
		entryAt("c", now.AddDate(0, 0, -2), 5),
		entryAt("old", now.AddDate(0, 0, -45), 1),
	}
	days := Series(entries, now, 30)
	if len(days) != 30 {
		t.Fatalf("expected 30 slots, got %d", len(days))
	}
	last := days[29]
	if !last.HasData || last.Mean != 3 || last.Count != 2 {
		t.Fatalf("expected today mean 3 over 2 entries, got %+v", last)
	}
	if !last.Date.Equal(timestamp.Midnight(now)) {
		t.Fatalf("expected last slot to be today, got %v", last.Date)
	}
	if gap := days[28]; gap.HasData || gap.Mean != 0 {
		t.Fatalf("expected yesterday to be a gap, got %+v", gap)
	}
	if d := days[27]; !d.HasData || d.Mean != 5 {
		t.Fatalf("expected mean 5 two days ago, got %+v", d)
	}
	for _, d := range days[:27] {
		if d.HasData {
			t.Fatalf("unexpected data on %s", d.Label())
		}
	}
}

func TestStreak(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)
	tests := []struct {
		name    string
		entries []journal.Entry
		want    int
	}{
		{"empty", nil, 0},
		{
			name: "three days then gap",
			entries: []journal.Entry{
				entryAt("a", now, 3),
				entryAt("b", now.AddDate(0, 0, -1), 3),
				entryAt("c", now.AddDate(0, 0, -2), 3),
				entryAt("d", now.AddDate(0, 0, -4), 3),
			},
			want: 3,
		},
		{
			name:    "nothing today",
			entries: []journal.Entry{entryAt("a", now.AddDate(0, 0, -1), 3)},
			want:    0,
		},
		{
			name: "two entries same day count once",
			entries: []journal.Entry{
				entryAt("a", now, 3),
				entryAt("b", now.Add(-time.Hour), 3),
			},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.entries, now); got != tt.want {
				t.Fatalf("expected streak %d, got %d", tt.want, got)
			}
		})
	}
}

func TestStreakCapped(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)
	var entries []journal.Entry
	for i := 0; i < StreakLimit+20; i++ {
		entries = append(entries, entryAt("e", now.AddDate(0, 0, -i), 4))
	}
	if got := Streak(entries, now); got != StreakLimit {
		t.Fatalf("expected streak capped at %d, got %d", StreakLimit, got)
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)
	entries := []journal.Entry{
		entryAt("a", now, 5),
		entryAt("b", now.AddDate(0, 0, -1), 2),
		entryAt("c", now.AddDate(0, 0, -1), 2),
	}
	s := Summarize(entries, now, 7)
	if s.Window != "1w" || len(s.Days) != 7 {
		t.Fatalf("unexpected window %q with %d days", s.Window, len(s.Days))
	}
	if s.Entries != 3 || s.Mean != 3 || s.Streak != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestSparkline(t *testing.T) {
	days := []Day{
		{HasData: true, Mean: 1},
		{},
		{HasData: true, Mean: 5},
		{HasData: true, Mean: 3},
	}
	if got := Sparkline(days); got != "▁·█▅" {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in    string
		days  int
		label string
	}{
		{"", 30, "4w2d"},
		{"30d", 30, "4w2d"},
		{"4w", 28, "4w"},
		{"1w 3d", 10, "1w3d"},
		{"2 weeks", 14, "2w"},
	}
	for _, tt := range tests {
		days, label, err := ParseWindow(tt.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		if days != tt.days || label != tt.label {
			t.Fatalf("%q: expected %d/%s, got %d/%s", tt.in, tt.days, tt.label, days, label)
		}
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3h", "0d", "400d"} {
		if _, _, err := ParseWindow(in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}
