package analytics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultWindow is the report window used when none is provided.
const DefaultWindow = "30d"

// DefaultDays is DefaultWindow in days.
const DefaultDays = 30

// MaxDays bounds a window to the same horizon the streak walks.
const MaxDays = StreakLimit

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	dayUnits      = map[string]int{
		"d":     1,
		"day":   1,
		"days":  1,
		"w":     7,
		"wk":    7,
		"wks":   7,
		"week":  7,
		"weeks": 7,
	}
)

// ParseWindow parses a day-granular window such as "30d", "4w" or "1w3d" and
// returns the number of days along with a canonical label. Empty input yields
// the default 30 day window.
func ParseWindow(input string) (int, string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = DefaultWindow
	}

	remaining := strings.ToLower(trimmed)
	total := 0
	for len(remaining) > 0 {
		matches := windowPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, "", fmt.Errorf("analytics: invalid window segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, "", fmt.Errorf("analytics: invalid window value %q: %w", matches[1], err)
		}
		mult, ok := dayUnits[matches[2]]
		if !ok {
			return 0, "", fmt.Errorf("analytics: unsupported window unit %q", matches[2])
		}
		total += value * mult
		remaining = strings.TrimSpace(remaining[len(matches[0]):])
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("analytics: window must be at least one day")
	}
	if total > MaxDays {
		return 0, "", fmt.Errorf("analytics: window must be at most %d days", MaxDays)
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders a day count using week and day tokens.
func FormatWindow(days int) string {
	if days <= 0 {
		return "0d"
	}
	var b strings.Builder
	if w := days / 7; w > 0 {
		fmt.Fprintf(&b, "%dw", w)
	}
	if d := days % 7; d > 0 {
		fmt.Fprintf(&b, "%dd", d)
	}
	return b.String()
}
