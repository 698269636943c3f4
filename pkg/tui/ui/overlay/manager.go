// Package overlay draws one rendered block on top of another.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Placement controls overlay alignment and sizing.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
	Width      int
	Height     int
}

// Left and Top pin the overlay to the margin instead of centering it. They are
// distinct from lipgloss.Left/Top, which are zero and mean "center" here.
const (
	Left lipgloss.Position = -1
	Top  lipgloss.Position = -1
)

// Compose overlays the foreground view atop the background while preserving
// background content outside the overlay bounds. Styled (ANSI) content on
// either side is cut on cell boundaries.
func Compose(background string, width, height int, foreground string, placement Placement) string {
	bgLines := normalize(background, width, height)
	if foreground == "" || width <= 0 || height <= 0 {
		return strings.Join(bgLines, "\n")
	}
	fgLines := strings.Split(foreground, "\n")

	w := placement.Width
	if w <= 0 {
		for _, line := range fgLines {
			w = max(w, ansi.StringWidth(line))
		}
	}
	w = min(w, width)
	h := placement.Height
	if h <= 0 {
		h = len(fgLines)
	}
	h = min(h, height)
	if w <= 0 || h <= 0 {
		return strings.Join(bgLines, "\n")
	}

	x, y := offsets(width, height, w, h, placement)
	for row := 0; row < h; row++ {
		dest := y + row
		if dest < 0 || dest >= len(bgLines) {
			continue
		}
		fg := ""
		if row < len(fgLines) {
			fg = fgLines[row]
		}
		base := bgLines[dest]
		bgLines[dest] = ansi.Cut(base, 0, x) + pad(fg, w) + ansi.Cut(base, x+w, width)
	}
	return strings.Join(bgLines, "\n")
}

// normalize clips or pads the view to exactly height lines of width cells.
func normalize(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = pad(lines[i], width)
	}
	return lines
}

func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	cur := ansi.StringWidth(s)
	if cur > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-cur)
}

func offsets(width, height, w, h int, p Placement) (int, int) {
	x := p.MarginX
	switch p.Horizontal {
	case Left:
	case lipgloss.Right:
		x = width - w - p.MarginX
	default:
		x = (width - w) / 2
	}
	y := p.MarginY
	switch p.Vertical {
	case Top:
	case lipgloss.Bottom:
		y = height - h - p.MarginY
	default:
		y = (height - h) / 2
	}
	return clamp(x, 0, width-w), clamp(y, 0, height-h)
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
