package starfield

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestCountClamps(t *testing.T) {
	tests := []struct {
		w, h float64
		want int
	}{
		{100, 100, MinStars},
		{640, 384, MinStars},
		{2000, 1010, 242},
		{10000, 10000, MaxStars},
	}
	for _, tt := range tests {
		if got := Count(tt.w, tt.h); got != tt.want {
			t.Fatalf("Count(%v, %v) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func checkBounds(t *testing.T, f *Field, s Star) {
	t.Helper()
	cx, cy := f.W/2, f.H/2
	zMax := math.Max(f.W, f.H)
	if math.Abs(s.X) > cx || math.Abs(s.Y) > cy {
		t.Fatalf("position out of bounds: %+v", s)
	}
	if s.Z < 0.1*zMax || s.Z > zMax {
		t.Fatalf("depth out of bounds: %+v", s)
	}
	if s.PrevZ != s.Z {
		t.Fatalf("previous depth not reset: %+v", s)
	}
	if s.Speed < 0.02 || s.Speed >= 0.045 {
		t.Fatalf("speed out of bounds: %+v", s)
	}
	if s.Size < 1 || s.Size >= 2.5 {
		t.Fatalf("size out of bounds: %+v", s)
	}
}

func TestResetWithinBounds(t *testing.T) {
	f := New(1280, 720, DarkPalette, seeded())
	if len(f.Stars) != Count(1280, 720) {
		t.Fatalf("unexpected pool size %d", len(f.Stars))
	}
	for _, s := range f.Stars {
		checkBounds(t, f, s)
	}
}

func TestRecycleReassignsStar(t *testing.T) {
	f := New(640, 384, DarkPalette, seeded())
	s := &f.Stars[0]
	s.Z, s.PrevZ, s.Speed = 1.0001, 1.0001, 0.04
	f.Step(32)
	if s.Z == 1.0001 || s.Z < 1 {
		t.Fatalf("expected recycled depth, got %v", s.Z)
	}
	checkBounds(t, f, *s)
}

func TestPoolIsReused(t *testing.T) {
	f := New(640, 384, DarkPalette, seeded())
	before := &f.Stars[0]
	for i := 0; i < 500; i++ {
		f.Step(32)
	}
	if &f.Stars[0] != before || len(f.Stars) != MinStars {
		t.Fatalf("expected the pool to be reused in place")
	}
}

func TestFrameClampsDelta(t *testing.T) {
	f := New(640, 384, DarkPalette, seeded())
	s := &f.Stars[0]
	s.Z, s.PrevZ = 300, 300
	speed := s.Speed
	f.Step(10_000)
	want := 300 - MaxFrameDelta*speed*0.6*0.9
	if math.Abs(s.Z-want) > 1e-9 {
		t.Fatalf("expected clamped step to %v, got %v", want, s.Z)
	}
}

func TestFrameDrawsOntoCanvas(t *testing.T) {
	f := NewForCells(80, 8, LightPalette, seeded())
	c := NewCanvas(80, 8)
	f.Frame(16, c)
	if c.Lit() == 0 {
		t.Fatalf("expected some lit cells")
	}
	out := c.Render(mustHex("#ffffff"))
	if got := strings.Count(out, "\n"); got != 7 {
		t.Fatalf("expected 8 rows, got %d", got+1)
	}
}

func TestCanvasDotBeatsTrail(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Dot(4, 4, 1, DarkPalette.Head, 0.5)
	c.Line(0, 4, 7, 4, DarkPalette.Trail, DarkPalette.Head, 1, 1, 3)
	if s := c.At(0, 0); !s.Dot {
		t.Fatalf("expected dot to survive a brighter trail, got %+v", s)
	}
	if c.At(5, 5).Alpha != 0 {
		t.Fatalf("out of range cell should be empty")
	}
}

func TestReducedMotionDrawsOneStaticFrame(t *testing.T) {
	l := NewLoop(80, 6, true, true, seeded())
	if l.State() != Static || l.Frames() != 1 {
		t.Fatalf("expected one static frame, got %s with %d frames", l.State(), l.Frames())
	}
	if l.Start() {
		t.Fatalf("reduced motion must not start ticking")
	}
	if l.Tick(l.Generation(), time.Now()) {
		t.Fatalf("reduced motion must not tick")
	}
	if l.Frames() != 1 {
		t.Fatalf("expected no further frames, got %d", l.Frames())
	}
}

func TestLoopPauseResume(t *testing.T) {
	l := NewLoop(80, 6, true, false, seeded())
	if !l.Start() || l.State() != Running {
		t.Fatalf("expected running loop")
	}
	gen := l.Generation()
	now := time.Now()
	if !l.Tick(gen, now) || !l.Tick(gen, now.Add(FrameInterval)) {
		t.Fatalf("expected ticks to continue")
	}
	l.Pause()
	if l.State() != Paused || l.Tick(gen, now.Add(2*FrameInterval)) {
		t.Fatalf("paused loop must not tick")
	}
	l.Start()
	if l.Tick(gen, now.Add(3*FrameInterval)) {
		t.Fatalf("stale tick chain must be ignored")
	}
	if !l.Tick(l.Generation(), now.Add(4*FrameInterval)) {
		t.Fatalf("expected current chain to tick")
	}
}

func TestLoopThemeAndResize(t *testing.T) {
	l := NewLoop(80, 6, true, false, seeded())
	l.SetTheme(false)
	if l.Field().Palette != LightPalette {
		t.Fatalf("expected light palette")
	}
	l.Resize(200, 60)
	if want := Count(200*CellWidth, 60*CellHeight); len(l.Field().Stars) != want {
		t.Fatalf("expected %d stars after resize, got %d", want, len(l.Field().Stars))
	}
}
