package motion

import (
	"math"
	"testing"

	"github.com/Faultbox/tka-animator/pkg/grid"
	tmath "github.com/Faultbox/tka-animator/pkg/math"
)

func TestRotationAngleTables(t *testing.T) {
	tests := []struct {
		loc  grid.Location
		ori  Orientation
		want float64
	}{
		{grid.North, In, 90},
		{grid.North, Out, 270},
		{grid.East, Clock, 90},
		{grid.West, Counter, 90},
		{grid.South, In, 270},
		{grid.NorthEast, In, 135},
		{grid.SouthWest, Out, 135},
		{grid.NorthWest, Clock, 315},
		{grid.SouthEast, Counter, 315},
	}
	for _, tt := range tests {
		if got := RotationAngle(tt.loc, tt.ori); got != tt.want {
			t.Errorf("RotationAngle(%s, %s) = %v, want %v", tt.loc, tt.ori, got, tt.want)
		}
	}
}

func TestRotationAngleUnknown(t *testing.T) {
	if got := RotationAngle("up", In); got != 0 {
		t.Errorf("unknown location = %v, want 0", got)
	}
	if got := RotationAngle(grid.North, "sideways"); got != 0 {
		t.Errorf("unknown orientation = %v, want 0", got)
	}
}

// The tables agree with the polar geometry: "in" points at the center, "clock"
// along the clockwise tangent, and so on.
func TestRotationAngleMatchesGeometry(t *testing.T) {
	offsets := map[Orientation]float64{
		In:      180,
		Out:     0,
		Clock:   90,
		Counter: -90,
	}
	for _, loc := range grid.All() {
		for ori, off := range offsets {
			want := tmath.WrapDegrees(tmath.Degrees(grid.LocationAngle(loc)) + off)
			got := RotationAngle(loc, ori)
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("RotationAngle(%s, %s) = %v, geometry says %v", loc, ori, got, want)
			}
		}
	}
}
