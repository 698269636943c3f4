package analytics

import "strings"

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// GapRune marks a day without entries.
const GapRune = '·'

// Sparkline renders a series on the 1-5 mood scale, one rune per day.
func Sparkline(days []Day) string {
	var b strings.Builder
	for _, d := range days {
		b.WriteRune(Rune(d))
	}
	return b.String()
}

// Rune maps a single slot onto the sparkline alphabet.
func Rune(d Day) rune {
	if !d.HasData {
		return GapRune
	}
	// 1 maps to the lowest bar, 5 to the highest.
	idx := int((d.Mean-1)/4*float64(len(sparkRunes)-1) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sparkRunes) {
		idx = len(sparkRunes) - 1
	}
	return sparkRunes[idx]
}
