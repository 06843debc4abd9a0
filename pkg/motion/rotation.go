package motion

import "github.com/Faultbox/tka-animator/pkg/grid"

// Staff rotation angles in degrees, clockwise from +X on the y-down canvas.
var (
	diamondAngles = map[Orientation]map[grid.Location]float64{
		In:      {grid.North: 90, grid.South: 270, grid.West: 0, grid.East: 180},
		Out:     {grid.North: 270, grid.South: 90, grid.West: 180, grid.East: 0},
		Clock:   {grid.North: 0, grid.South: 180, grid.West: 270, grid.East: 90},
		Counter: {grid.North: 180, grid.South: 0, grid.West: 90, grid.East: 270},
	}
	boxAngles = map[Orientation]map[grid.Location]float64{
		In:      {grid.NorthEast: 135, grid.NorthWest: 45, grid.SouthWest: 315, grid.SouthEast: 225},
		Out:     {grid.NorthEast: 315, grid.NorthWest: 225, grid.SouthWest: 135, grid.SouthEast: 45},
		Clock:   {grid.NorthEast: 45, grid.NorthWest: 315, grid.SouthWest: 225, grid.SouthEast: 135},
		Counter: {grid.NorthEast: 225, grid.NorthWest: 135, grid.SouthWest: 45, grid.SouthEast: 315},
	}
)

// RotationAngle returns the staff rendering angle in degrees for a prop resting
// at loc with orientation ori. Unknown combinations return 0.
func RotationAngle(loc grid.Location, ori Orientation) float64 {
	mode, ok := grid.ModeOf(loc)
	if !ok {
		return 0
	}
	table := diamondAngles
	if mode == grid.Box {
		table = boxAngles
	}
	return table[ori][loc]
}
