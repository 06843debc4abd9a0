package glrender

import (
	"github.com/Faultbox/tka-animator/pkg/grid"
	tmath "github.com/Faultbox/tka-animator/pkg/math"
)

// Viewport fits the square grid into a window, centered with letterboxing.
type Viewport struct {
	OffsetX, OffsetY float32
	Side             float32
}

// Fit returns the largest centered square viewport in a w x h window.
func Fit(w, h int) Viewport {
	side := w
	if h < side {
		side = h
	}
	if side < 0 {
		side = 0
	}
	return Viewport{
		OffsetX: float32(w-side) / 2,
		OffsetY: float32(h-side) / 2,
		Side:    float32(side),
	}
}

// View maps grid pixels to window pixels.
func (v Viewport) View() tmath.Mat4 {
	k := v.Side / grid.Size
	return tmath.Translate(v.OffsetX, v.OffsetY).Mul(tmath.Scale(k, k))
}

// quadCorners lists a unit quad centered on the origin as two triangles,
// with texture coordinates (v grows downward like image rows).
var quadCorners = [6][4]float32{
	{-0.5, -0.5, 0, 0},
	{0.5, -0.5, 1, 0},
	{0.5, 0.5, 1, 1},
	{-0.5, -0.5, 0, 0},
	{0.5, 0.5, 1, 1},
	{-0.5, 0.5, 0, 1},
}

// appendQuad appends a transformed unit quad as pos(2) + uv(2) + color(4).
func appendQuad(dst []float32, m tmath.Mat4, c Color) []float32 {
	for _, q := range quadCorners {
		x, y := m.Apply(q[0], q[1])
		dst = append(dst, x, y, q[2], q[3], c.R, c.G, c.B, c.A)
	}
	return dst
}
