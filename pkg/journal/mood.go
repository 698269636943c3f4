package journal

import "strconv"

// Mood is the 1-5 self-reported mood score.
type Mood int

const (
	MinMood     Mood = 1
	MaxMood     Mood = 5
	DefaultMood Mood = 3
)

const neutralEmoji = "😐"

var moodEmoji = map[Mood]string{
	1: "😔",
	2: "😟",
	3: "😐",
	4: "🙂",
	5: "😄",
}

// Valid reports whether m is on the scale.
func (m Mood) Valid() bool {
	return m >= MinMood && m <= MaxMood
}

// Emoji maps the score to its face; anything off the scale is neutral.
func (m Mood) Emoji() string {
	if e, ok := moodEmoji[m]; ok {
		return e
	}
	return neutralEmoji
}

// Inc moves the slider up one notch, stopping at the top.
func (m Mood) Inc() Mood {
	if m >= MaxMood {
		return MaxMood
	}
	if m < MinMood {
		return MinMood
	}
	return m + 1
}

// Dec moves the slider down one notch, stopping at the bottom.
func (m Mood) Dec() Mood {
	if m <= MinMood {
		return MinMood
	}
	if m > MaxMood {
		return MaxMood
	}
	return m - 1
}

func (m Mood) String() string {
	return strconv.Itoa(int(m))
}

// ParseMood reads a mood from a flag or key press.
func ParseMood(s string) (Mood, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrMoodRange
	}
	m := Mood(n)
	if !m.Valid() {
		return 0, ErrMoodRange
	}
	return m, nil
}
