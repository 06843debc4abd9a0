package glrender

import "image/color"

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite    = Color{1, 1, 1, 1}
	ColorTrack    = Color{0.85, 0.85, 0.88, 1}
	ColorProgress = Color{0.18, 0.19, 0.57, 1}
)

// FromColor converts any color.Color.
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return Color{
		R: float32(r) / 0xFFFF,
		G: float32(g) / 0xFFFF,
		B: float32(b) / 0xFFFF,
		A: float32(a) / 0xFFFF,
	}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}
