package glrender

import (
	"image/color"
	"math"
	"testing"

	tmath "github.com/Faultbox/tka-animator/pkg/math"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h int
		want Viewport
	}{
		{950, 950, Viewport{0, 0, 950}},
		{1200, 800, Viewport{200, 0, 800}},
		{600, 1000, Viewport{0, 200, 600}},
		{-5, 10, Viewport{-2.5, 5, 0}},
	}
	for _, tt := range tests {
		got := Fit(tt.w, tt.h)
		if got != tt.want {
			t.Errorf("Fit(%d, %d) = %+v, want %+v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestViewMapsGridCorners(t *testing.T) {
	v := Fit(1200, 800)
	m := v.View()

	x, y := m.Apply(0, 0)
	if !near(x, 200) || !near(y, 0) {
		t.Errorf("origin -> (%v, %v), want (200, 0)", x, y)
	}
	x, y = m.Apply(950, 950)
	if !near(x, 1000) || !near(y, 800) {
		t.Errorf("far corner -> (%v, %v), want (1000, 800)", x, y)
	}
}

func TestAppendQuad(t *testing.T) {
	m := tmath.Place(100, 50, 0, 20, 10)
	v := appendQuad(nil, m, ColorWhite)
	if len(v) != 6*floatsPerVertex {
		t.Fatalf("len = %d, want %d", len(v), 6*floatsPerVertex)
	}
	// First vertex is the top-left corner with uv (0, 0).
	if !near(v[0], 90) || !near(v[1], 45) || v[2] != 0 || v[3] != 0 {
		t.Errorf("first vertex = %v", v[:4])
	}
	// Third vertex is the bottom-right corner with uv (1, 1).
	third := v[2*floatsPerVertex:]
	if !near(third[0], 110) || !near(third[1], 55) || third[2] != 1 || third[3] != 1 {
		t.Errorf("third vertex = %v", third[:4])
	}
}

func TestAppendQuadRotated(t *testing.T) {
	// A quarter turn maps the quad's +x half onto +y (y grows downward).
	m := tmath.Place(0, 0, math.Pi/2, 20, 10)
	v := appendQuad(nil, m, ColorWhite)
	// Second vertex (+0.5, -0.5) scaled to (10, -5) then rotated by 90°.
	if !near(v[floatsPerVertex], 5) || !near(v[floatsPerVertex+1], 10) {
		t.Errorf("rotated vertex = (%v, %v), want (5, 10)", v[floatsPerVertex], v[floatsPerVertex+1])
	}
}

func TestFromColor(t *testing.T) {
	c := FromColor(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	if c != (Color{1, 0, 1, 1}) {
		t.Errorf("FromColor = %+v", c)
	}
	if c.WithAlpha(0.5).A != 0.5 {
		t.Error("WithAlpha")
	}
}
