package starfield

import (
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// FrameInterval is the tick period while running.
const FrameInterval = 16 * time.Millisecond

// LoopState is the animation state.
type LoopState int

const (
	Running LoopState = iota
	Paused
	// Static means reduced motion: one frame was drawn and no ticks follow.
	Static
)

func (s LoopState) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Static:
		return "static"
	}
	return "unknown"
}

// Loop owns the field, its canvas and the tick bookkeeping. It is driven from
// a single goroutine (the UI update loop).
type Loop struct {
	field   *Field
	canvas  *Canvas
	state   LoopState
	reduced bool
	dark    bool
	last    time.Time
	gen     int
	frames  int
	rng     *rand.Rand
}

// NewLoop builds a loop for a cols×rows cell area. With reduced motion a
// single static frame is drawn immediately.
func NewLoop(cols, rows int, dark, reduced bool, rng *rand.Rand) *Loop {
	l := &Loop{reduced: reduced, dark: dark, rng: rng, state: Paused}
	l.canvas = NewCanvas(cols, rows)
	l.field = NewForCells(cols, rows, PaletteFor(dark), rng)
	l.settle()
	return l
}

func (l *Loop) settle() {
	if l.reduced {
		l.field.Frame(16, l.canvas)
		l.frames++
		l.state = Static
	}
}

// State is the current animation state.
func (l *Loop) State() LoopState {
	return l.state
}

// Field exposes the particle pool.
func (l *Loop) Field() *Field {
	return l.field
}

// Frames counts drawn frames.
func (l *Loop) Frames() int {
	return l.frames
}

// Generation identifies the current tick chain; ticks from older chains are
// ignored.
func (l *Loop) Generation() int {
	return l.gen
}

// Start begins a new tick chain. It returns false when motion is reduced.
func (l *Loop) Start() bool {
	if l.reduced {
		l.state = Static
		return false
	}
	l.state = Running
	l.last = time.Time{}
	l.gen++
	return true
}

// Pause stops ticking, e.g. when the terminal loses focus.
func (l *Loop) Pause() {
	if l.state == Running {
		l.state = Paused
		l.gen++
	}
}

// Tick draws one frame for a tick of generation gen at now. It returns
// whether another tick should be scheduled.
func (l *Loop) Tick(gen int, now time.Time) bool {
	if l.state != Running || gen != l.gen {
		return false
	}
	dt := 0.0
	if !l.last.IsZero() {
		dt = float64(now.Sub(l.last)) / float64(time.Millisecond)
	}
	l.last = now
	l.field.Frame(dt, l.canvas)
	l.frames++
	return true
}

// Resize re-initializes the pool and canvas for a new cell area.
func (l *Loop) Resize(cols, rows int) {
	l.canvas.Resize(cols, rows)
	l.field.Resize(float64(cols*CellWidth), float64(rows*CellHeight))
	l.settle()
}

// SetTheme swaps the palette and re-initializes the pool.
func (l *Loop) SetTheme(dark bool) {
	l.dark = dark
	l.field.Palette = PaletteFor(dark)
	l.field.Resize(l.field.W, l.field.H)
	l.settle()
}

// SetReducedMotion toggles reduced motion. Turning it on freezes the field on
// a static frame; turning it off leaves the loop paused until Start.
func (l *Loop) SetReducedMotion(reduced bool) {
	l.reduced = reduced
	if reduced {
		l.gen++
		l.settle()
		return
	}
	if l.state == Static {
		l.state = Paused
	}
}

// View renders the current frame over bg.
func (l *Loop) View(bg colorful.Color) string {
	return l.canvas.Render(bg)
}
