package math

import "math"

// Mat4 is a column-major 4x4 matrix as OpenGL expects it. Only the 2D
// subset is used: pictograph quads live in the z=0 plane.
//
//	[m0 m4 m8  m12]
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// ScreenOrtho projects window pixels (origin top-left, y down) to clip space.
func ScreenOrtho(width, height float32) Mat4 {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return Mat4{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
}

// Translate moves by (x, y).
func Translate(x, y float32) Mat4 {
	m := Identity()
	m[12], m[13] = x, y
	return m
}

// Scale stretches by (sx, sy).
func Scale(sx, sy float32) Mat4 {
	m := Identity()
	m[0], m[5] = sx, sy
	return m
}

// Rotate turns by angle radians. On a y-down canvas a positive angle is
// clockwise, matching staff rotation angles.
func Rotate(angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Place returns the model matrix for a unit quad centered on the origin,
// stretched to w x h, rotated by angle radians and centered at (x, y).
func Place(x, y, angle, w, h float32) Mat4 {
	return Translate(x, y).Mul(Rotate(angle)).Mul(Scale(w, h))
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			r[col*4+row] = m[row]*o[col*4] +
				m[4+row]*o[col*4+1] +
				m[8+row]*o[col*4+2] +
				m[12+row]*o[col*4+3]
		}
	}
	return r
}

// Apply transforms the point (x, y, 0, 1) and returns its x and y.
func (m Mat4) Apply(x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}

// Ptr returns a pointer to the first element for gl.UniformMatrix4fv.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}
