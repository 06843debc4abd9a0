package math

import (
	"math"
	"testing"
)

func near32(a, b float32) bool {
	d := a - b
	return d < 0.001 && d > -0.001
}

func TestMulIdentity(t *testing.T) {
	m := Place(3, 4, 1.2, 10, 20)
	if got := m.Mul(Identity()); got != m {
		t.Errorf("M * I = %v, want %v", got, m)
	}
	if got := Identity().Mul(m); got != m {
		t.Errorf("I * M = %v, want %v", got, m)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		m      Mat4
		x, y   float32
		wx, wy float32
	}{
		{"translate", Translate(10, 20), 1, 2, 11, 22},
		{"scale", Scale(2, 3), 1, 2, 2, 6},
		// A positive angle turns +X toward +Y (clockwise on screen).
		{"rotate quarter", Rotate(math.Pi / 2), 1, 0, 0, 1},
		{"rotate half", Rotate(math.Pi), 1, 0, -1, 0},
		{"scale then translate", Translate(5, 5).Mul(Scale(2, 2)), 1, 1, 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.m.Apply(tt.x, tt.y)
			if !near32(x, tt.wx) || !near32(y, tt.wy) {
				t.Errorf("Apply(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestScreenOrthoCorners(t *testing.T) {
	m := ScreenOrtho(800, 600)

	x, y := m.Apply(0, 0)
	if !near32(x, -1) || !near32(y, 1) {
		t.Errorf("top-left: got (%v, %v), want (-1, 1)", x, y)
	}
	x, y = m.Apply(800, 600)
	if !near32(x, 1) || !near32(y, -1) {
		t.Errorf("bottom-right: got (%v, %v), want (1, -1)", x, y)
	}
	x, y = m.Apply(400, 300)
	if !near32(x, 0) || !near32(y, 0) {
		t.Errorf("center: got (%v, %v), want (0, 0)", x, y)
	}
}

func TestScreenOrthoZeroSize(t *testing.T) {
	m := ScreenOrtho(0, 0)
	x, y := m.Apply(1, 1)
	if math.IsInf(float64(x), 0) || math.IsInf(float64(y), 0) {
		t.Errorf("zero-sized window produced (%v, %v)", x, y)
	}
}

func TestPlace(t *testing.T) {
	m := Place(100, 50, math.Pi/2, 20, 4)

	// The right edge midpoint of the unit quad ends up 10px below the center.
	x, y := m.Apply(0.5, 0)
	if !near32(x, 100) || !near32(y, 60) {
		t.Errorf("Place: got (%v, %v), want (100, 60)", x, y)
	}
}
