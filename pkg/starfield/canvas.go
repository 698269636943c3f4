package starfield

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Sample is what ended up in one cell: the brightest thing drawn there.
type Sample struct {
	Alpha float64
	Color colorful.Color
	Dot   bool
	Big   bool
}

// Canvas rasterizes pixel-space drawing onto terminal cells.
type Canvas struct {
	Cols, Rows int
	cells      []Sample
}

// NewCanvas allocates a cols×rows canvas.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize reallocates the cell buffer.
func (c *Canvas) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	c.Cols, c.Rows = cols, rows
	if cap(c.cells) >= cols*rows {
		c.cells = c.cells[:cols*rows]
		c.Clear()
		return
	}
	c.cells = make([]Sample, cols*rows)
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = Sample{}
	}
}

// At returns the sample of a cell.
func (c *Canvas) At(col, row int) Sample {
	if col < 0 || row < 0 || col >= c.Cols || row >= c.Rows {
		return Sample{}
	}
	return c.cells[row*c.Cols+col]
}

// Lit counts cells with anything drawn in them.
func (c *Canvas) Lit() int {
	n := 0
	for _, s := range c.cells {
		if s.Alpha > 0 {
			n++
		}
	}
	return n
}

func (c *Canvas) plot(x, y float64, s Sample) {
	if s.Alpha <= 0 || math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	col := int(math.Floor(x / CellWidth))
	row := int(math.Floor(y / CellHeight))
	if col < 0 || row < 0 || col >= c.Cols || row >= c.Rows {
		return
	}
	i := row*c.Cols + col
	cur := c.cells[i]
	// Dots win over trails; otherwise the brighter sample wins.
	if cur.Dot && !s.Dot {
		return
	}
	if (s.Dot && !cur.Dot) || s.Alpha > cur.Alpha {
		c.cells[i] = s
	}
}

// Line walks from (x0,y0) to (x1,y1) blending color and alpha along the way.
func (c *Canvas) Line(x0, y0, x1, y1 float64, from, to colorful.Color, a0, a1, width float64) {
	dx, dy := x1-x0, y1-y0
	steps := int(math.Max(math.Abs(dx)/CellWidth, math.Abs(dy)/CellHeight)*2) + 1
	if steps > 512 {
		steps = 512
	}
	weight := math.Min(1, math.Max(0.25, width/2))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.plot(x0+dx*t, y0+dy*t, Sample{
			Alpha: (a0 + (a1-a0)*t) * weight,
			Color: from.BlendLab(to, t).Clamped(),
		})
	}
}

// Dot draws a star head of the given pixel radius.
func (c *Canvas) Dot(x, y, radius float64, col colorful.Color, alpha float64) {
	c.plot(x, y, Sample{
		Alpha: alpha * math.Min(1, math.Max(0.3, radius/1.5)),
		Color: col,
		Dot:   true,
		Big:   radius >= 1.6,
	})
}

func (s Sample) glyph() string {
	switch {
	case s.Alpha <= 0.02:
		return " "
	case s.Dot && s.Big:
		return "✦"
	case s.Dot && s.Alpha >= 0.6:
		return "•"
	case s.Dot:
		return "∙"
	default:
		return "·"
	}
}

// Render draws the canvas as rows of styled cells, fading each sample into
// the background color by its alpha.
func (c *Canvas) Render(bg colorful.Color) string {
	var b strings.Builder
	for row := 0; row < c.Rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.Cols; col++ {
			s := c.cells[row*c.Cols+col]
			g := s.glyph()
			if g == " " {
				b.WriteString(g)
				continue
			}
			fg := bg.BlendLab(s.Color, math.Min(1, s.Alpha)).Clamped()
			b.WriteString(lipgloss.NewStyle().Foreground(fg).Render(g))
		}
	}
	return b.String()
}
