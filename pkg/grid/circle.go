package grid

import (
	"math"

	tmath "github.com/Faultbox/tka-animator/pkg/math"
)

// Canvas geometry of the reference grid image.
const (
	// Size is the side length of the square grid canvas in pixels.
	Size = 950.0
	// CenterX and CenterY locate the grid center on the canvas.
	CenterX = Size / 2
	CenterY = Size / 2
	// HandRadius is the distance from the center to the diamond and box hand points.
	HandRadius = 143.1
	// OuterRadius is the distance to the outer (layer 2) points drawn on the grid.
	OuterRadius = 286.2
)

// Circle maps polar angles around a center to Cartesian canvas coordinates.
type Circle struct {
	Center tmath.Vec2
	Radius float64
}

// Default returns the hand point circle of the reference 950x950 grid.
func Default() Circle {
	return Circle{Center: tmath.Vec2{X: CenterX, Y: CenterY}, Radius: HandRadius}
}

// Scaled returns the hand point circle for a square canvas of the given side length.
func Scaled(side float64) Circle {
	k := side / Size
	return Circle{Center: tmath.Vec2{X: CenterX * k, Y: CenterY * k}, Radius: HandRadius * k}
}

// AngleToCoordinates converts a polar angle in radians to canvas coordinates.
func (c Circle) AngleToCoordinates(angle float64) tmath.Vec2 {
	return tmath.Vec2{
		X: c.Center.X + c.Radius*math.Cos(angle),
		Y: c.Center.Y + c.Radius*math.Sin(angle),
	}
}

// CoordinatesToAngle returns the polar angle of (x, y) relative to the center, in [-π, π].
func (c Circle) CoordinatesToAngle(x, y float64) float64 {
	return math.Atan2(y-c.Center.Y, x-c.Center.X)
}

// Point returns the canvas coordinates of a hand point.
func (c Circle) Point(loc Location) tmath.Vec2 {
	return c.AngleToCoordinates(LocationAngle(loc))
}

// Lerp returns the point a fraction t of the way along the straight line from a to b.
// Dash motions travel this way, through the center.
func (c Circle) Lerp(a, b Location, t float64) tmath.Vec2 {
	pa, pb := c.Point(a), c.Point(b)
	return pa.Add(pb.Sub(pa).Scale(t))
}

// AngleToCoordinates converts an angle on the default grid circle.
func AngleToCoordinates(angle float64) tmath.Vec2 {
	return Default().AngleToCoordinates(angle)
}

// CoordinatesToAngle inverts AngleToCoordinates on the default grid circle.
func CoordinatesToAngle(x, y float64) float64 {
	return Default().CoordinatesToAngle(x, y)
}
