// Package animation computes prop positions and staff angles between the start
// and end of a beat, and decides which pictograph a playback position shows.
package animation

import (
	"math"

	"github.com/Faultbox/tka-animator/pkg/grid"
	tmath "github.com/Faultbox/tka-animator/pkg/math"
	"github.com/Faultbox/tka-animator/pkg/motion"
)

// PropState is where a prop is drawn at one instant.
type PropState struct {
	CenterPathAngle    float64 `json:"centerPathAngle"`    // radians around the grid center
	StaffRotationAngle float64 `json:"staffRotationAngle"` // degrees in [0, 360)
	X                  float64 `json:"x"`
	Y                  float64 `json:"y"`
}

// orientationOffset is the staff angle relative to the prop's polar angle.
func orientationOffset(o motion.Orientation) float64 {
	switch o {
	case motion.In:
		return math.Pi
	case motion.Clock:
		return math.Pi / 2
	case motion.Counter:
		return -math.Pi / 2
	}
	return 0
}

// StaffAngle returns the staff angle in radians for a prop at polar angle
// centerAngle with orientation o. At a hand point this agrees with
// motion.RotationAngle.
func StaffAngle(o motion.Orientation, centerAngle float64) float64 {
	return centerAngle + orientationOffset(o)
}

// StaticState returns the resting state of a prop at its start (end=false)
// or end (end=true) position.
func StaticState(m motion.Descriptor, end bool, c grid.Circle) PropState {
	loc, ori := m.StartLoc, m.StartOri
	if end {
		loc = m.EndLoc
		ori = m.EndOri
		if ori == "" {
			ori = motion.EndOrientation(m)
		}
	}
	angle := grid.LocationAngle(loc)
	p := c.AngleToCoordinates(angle)
	return PropState{
		CenterPathAngle:    angle,
		StaffRotationAngle: motion.RotationAngle(loc, ori),
		X:                  p.X,
		Y:                  p.Y,
	}
}

// PropStateAt interpolates motion m at progress t in [0, 1].
//
// Pro, anti and float props travel the shortest arc between hand points; dash
// props cut straight through the center; static props stay put. The staff turns
// from the start orientation angle to the end orientation angle by the amount
// the motion type and turns imply, so t=0 and t=1 match the rotation tables.
func PropStateAt(m motion.Descriptor, t float64, c grid.Circle) PropState {
	t = tmath.Clamp(t, 0, 1)
	if m.EndOri == "" {
		m = motion.Resolve(m)
	}

	startAngle := grid.LocationAngle(m.StartLoc)
	endAngle := grid.LocationAngle(m.EndLoc)
	travel := grid.ShortestDelta(startAngle, endAngle)

	var center float64
	var pos tmath.Vec2
	switch m.Type {
	case motion.Static:
		center = startAngle
		pos = c.AngleToCoordinates(center)
	case motion.Dash:
		pos = c.Lerp(m.StartLoc, m.EndLoc, t)
		center = startAngle
		if t >= 0.5 {
			center = endAngle
		}
		if d := pos.Sub(c.Center); d.Length() > 1e-9 {
			center = d.Angle()
		}
	default:
		center = startAngle + travel*t
		pos = c.AngleToCoordinates(center)
	}

	staffStart := StaffAngle(m.StartOri, startAngle)
	staffEnd := StaffAngle(m.EndOri, endAngle)
	delta := staffDelta(m, travel, staffStart, staffEnd)
	staff := staffStart + delta*t

	return PropState{
		CenterPathAngle:    grid.NormalizeAngle(center),
		StaffRotationAngle: tmath.WrapDegrees(tmath.Degrees(staff)),
		X:                  pos.X,
		Y:                  pos.Y,
	}
}

// staffDelta returns the total staff rotation over the beat. The natural
// rotation comes from the motion type; it is then snapped to the nearest
// value that lands exactly on the end orientation.
func staffDelta(m motion.Descriptor, travel, staffStart, staffEnd float64) float64 {
	var natural float64
	spin := 0.0
	if !m.Turns.IsFloat() {
		spin = m.PropRotDir.Sign() * float64(m.Turns) * math.Pi
	}

	switch m.Type {
	case motion.Pro:
		natural = travel + spin
	case motion.Anti:
		natural = -travel + spin
	case motion.Float:
		natural = travel
	case motion.Static, motion.Dash:
		natural = spin
	}

	required := staffEnd - staffStart
	return natural + grid.NormalizeAngle(required-natural)
}
