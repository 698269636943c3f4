// Package analytics aggregates journal entries into the mood series and
// streak shown on the analytics view and by `soulsync stats`.
package analytics

import (
	"time"

	"tableflip.dev/soulsync/pkg/journal"
	"tableflip.dev/soulsync/pkg/timestamp"
)

// StreakLimit caps how far back Streak walks.
const StreakLimit = 365

// Day is one calendar-day slot of a series.
type Day struct {
	Date    time.Time `json:"date"`
	Count   int       `json:"count"`
	Mean    float64   `json:"mean"`
	HasData bool      `json:"hasData"`

	total int
}

// Label is the short axis label for the slot.
func (d Day) Label() string {
	return d.Date.Format("Jan 2")
}

// Summary bundles everything the analytics view renders.
type Summary struct {
	Window  string  `json:"window"`
	Days    []Day   `json:"days"`
	Streak  int     `json:"streak"`
	Entries int     `json:"entries"`
	Mean    float64 `json:"mean"`
}

// dayKey buckets by local calendar day.
func dayKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

func bucket(entries []journal.Entry) map[string][]journal.Mood {
	byDay := make(map[string][]journal.Mood, len(entries))
	for _, e := range entries {
		if e.Created.IsZero() {
			continue
		}
		k := dayKey(e.Created.Time)
		byDay[k] = append(byDay[k], e.Mood)
	}
	return byDay
}

// Series returns one slot per calendar day for the days ending today
// (inclusive), oldest first. A slot's value is the arithmetic mean of that
// day's moods; days without entries are gaps, never zero.
func Series(entries []journal.Entry, now time.Time, days int) []Day {
	if days <= 0 {
		return []Day{}
	}
	byDay := bucket(entries)
	today := timestamp.Midnight(now)
	out := make([]Day, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		d := Day{Date: date}
		if moods := byDay[dayKey(date)]; len(moods) > 0 {
			sum := 0
			for _, m := range moods {
				sum += int(m)
			}
			d.Count = len(moods)
			d.total = sum
			d.Mean = float64(sum) / float64(len(moods))
			d.HasData = true
		}
		out = append(out, d)
	}
	return out
}

// Streak counts consecutive days with at least one entry, walking back from
// today. No entry today means a streak of zero.
func Streak(entries []journal.Entry, now time.Time) int {
	byDay := bucket(entries)
	today := timestamp.Midnight(now)
	streak := 0
	for i := 0; i < StreakLimit; i++ {
		if len(byDay[dayKey(today.AddDate(0, 0, -i))]) == 0 {
			break
		}
		streak++
	}
	return streak
}

// Summarize computes the series, streak and window totals in one pass.
func Summarize(entries []journal.Entry, now time.Time, days int) Summary {
	s := Summary{
		Window: FormatWindow(days),
		Days:   Series(entries, now, days),
		Streak: Streak(entries, now),
	}
	sum := 0
	for _, d := range s.Days {
		s.Entries += d.Count
		sum += d.total
	}
	if s.Entries > 0 {
		s.Mean = float64(sum) / float64(s.Entries)
	}
	return s
}
