// Package starfield simulates the animated depth starfield drawn behind the
// terminal UI. It works in a virtual pixel space where one terminal cell is
// CellWidth×CellHeight pixels.
package starfield

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	CellWidth  = 8
	CellHeight = 16

	// Density is stars per virtual pixel.
	Density  = 0.00012
	MinStars = 120
	MaxStars = 1000

	// MaxFrameDelta clamps the frame delta in milliseconds.
	MaxFrameDelta = 32.0

	focalLength = 200.0
	// A star is recycled once it comes closer than this depth.
	recycleDepth = 1.0
	// Projections further than this outside the viewport are not drawn.
	offscreenMargin = 50.0
	wideViewport    = 900.0
)

// Star is one pooled particle. X and Y are world offsets from the center.
type Star struct {
	X, Y     float64
	Z, PrevZ float64
	Speed    float64
	Size     float64
}

// Palette is the pair of theme colors: Head for the dot, Trail for the streak.
type Palette struct {
	Head  colorful.Color
	Trail colorful.Color
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

var (
	DarkPalette  = Palette{Head: mustHex("#a9b1ff"), Trail: mustHex("#8a6dff")}
	LightPalette = Palette{Head: mustHex("#5b6bff"), Trail: mustHex("#885cff")}
)

// PaletteFor picks the palette for the theme.
func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}

// Count returns the pool size for a viewport, floor(w*h*Density) clamped to
// [MinStars, MaxStars].
func Count(w, h float64) int {
	n := int(math.Floor(w * h * Density))
	if n < MinStars {
		return MinStars
	}
	if n > MaxStars {
		return MaxStars
	}
	return n
}

// Field is the star pool for one viewport.
type Field struct {
	W, H    float64
	Stars   []Star
	Palette Palette

	rng *rand.Rand
}

// New builds a field for a w×h pixel viewport. A nil rng uses a time seeded
// source.
func New(w, h float64, palette Palette, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	f := &Field{Palette: palette, rng: rng}
	f.Resize(w, h)
	return f
}

// NewForCells builds a field sized for a cols×rows cell area.
func NewForCells(cols, rows int, palette Palette, rng *rand.Rand) *Field {
	return New(float64(cols*CellWidth), float64(rows*CellHeight), palette, rng)
}

func (f *Field) center() (float64, float64) {
	return f.W / 2, f.H / 2
}

func (f *Field) zMax() float64 {
	return math.Max(f.W, f.H)
}

// Resize re-initializes the pool for a new viewport. The backing slice is
// reused when the count is unchanged.
func (f *Field) Resize(w, h float64) {
	f.W, f.H = w, h
	n := Count(w, h)
	if len(f.Stars) != n {
		f.Stars = make([]Star, n)
	}
	for i := range f.Stars {
		f.Reset(&f.Stars[i])
	}
}

// Reset assigns a star a fresh position, depth, speed and size.
func (f *Field) Reset(s *Star) {
	cx, cy := f.center()
	zMax := f.zMax()
	s.X = (f.rng.Float64()*2 - 1) * cx
	s.Y = (f.rng.Float64()*2 - 1) * cy
	s.Z = f.rng.Float64()*zMax*0.9 + zMax*0.1
	s.PrevZ = s.Z
	s.Speed = 0.02 + f.rng.Float64()*0.025
	s.Size = 1 + f.rng.Float64()*1.5
}

func (f *Field) depthFactor() float64 {
	if f.W > wideViewport {
		return 1
	}
	return 0.9
}

// advance moves one star forward by dt milliseconds, recycling it in place
// when it passes the viewer.
func (f *Field) advance(s *Star, dt float64) {
	s.Z -= dt * s.Speed * 0.6 * f.depthFactor()
	if s.Z < recycleDepth {
		f.Reset(s)
	}
}

// Project returns the screen position of s at depth z.
func (f *Field) Project(s Star, z float64) (float64, float64) {
	cx, cy := f.center()
	p := focalLength / z
	return cx + s.X*p, cy + s.Y*p
}

func (f *Field) onScreen(x, y float64) bool {
	return x >= -offscreenMargin && x <= f.W+offscreenMargin &&
		y >= -offscreenMargin && y <= f.H+offscreenMargin
}

// Step advances every star by dt milliseconds without drawing.
func (f *Field) Step(dt float64) {
	f.Frame(dt, nil)
}

// Frame advances every star by dt milliseconds (clamped to MaxFrameDelta) and
// draws the visible ones onto c when it is not nil.
func (f *Field) Frame(dt float64, c *Canvas) {
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}
	if dt < 0 {
		dt = 0
	}
	if c != nil {
		c.Clear()
	}
	zMax := f.zMax()
	for i := range f.Stars {
		s := &f.Stars[i]
		f.advance(s, dt)

		x, y := f.Project(*s, s.Z)
		if !f.onScreen(x, y) {
			continue
		}
		px, py := f.Project(*s, s.PrevZ)
		s.PrevZ = s.Z
		if c == nil {
			continue
		}

		width := math.Max(0.5, (1.6-s.Z/zMax)*s.Size)
		c.Line(px, py, x, y, f.Palette.Trail, f.Palette.Head, 0.8, 0, width)

		radius := math.Max(0.4, 1.1-s.Z/zMax) * s.Size
		alpha := 0.6 + f.rng.Float64()*0.4
		c.Dot(x, y, radius, f.Palette.Head, alpha)
	}
}
