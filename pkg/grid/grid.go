// Package grid defines the TKA grid: hand point locations, grid modes, and the
// mapping between polar angles around the grid center and canvas pixels.
package grid

import (
	"fmt"
	"math"
	"strings"
)

// Location is a hand point on the grid, named by compass direction.
type Location string

// Cardinal (diamond) and diagonal (box) locations.
const (
	North     Location = "n"
	East      Location = "e"
	South     Location = "s"
	West      Location = "w"
	NorthEast Location = "ne"
	SouthEast Location = "se"
	SouthWest Location = "sw"
	NorthWest Location = "nw"
)

// Mode selects which set of four hand points a pictograph uses.
type Mode string

const (
	// Diamond uses the cardinal points N/E/S/W.
	Diamond Mode = "diamond"
	// Box uses the diagonal points NE/SE/SW/NW.
	Box Mode = "box"
)

var (
	diamondLocations = []Location{North, East, South, West}
	boxLocations     = []Location{NorthEast, SouthEast, SouthWest, NorthWest}
	allLocations     = []Location{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}
)

// Locations returns the hand points of a grid mode in clockwise order starting at the top.
// An unknown mode yields nil.
func Locations(mode Mode) []Location {
	switch mode {
	case Diamond:
		return append([]Location(nil), diamondLocations...)
	case Box:
		return append([]Location(nil), boxLocations...)
	}
	return nil
}

// All returns all eight locations clockwise from north.
func All() []Location {
	return append([]Location(nil), allLocations...)
}

// ModeOf reports which grid mode a location belongs to.
func ModeOf(loc Location) (Mode, bool) {
	switch loc {
	case North, East, South, West:
		return Diamond, true
	case NorthEast, SouthEast, SouthWest, NorthWest:
		return Box, true
	}
	return "", false
}

// Valid reports whether loc is one of the eight known locations.
func (l Location) Valid() bool {
	_, ok := ModeOf(l)
	return ok
}

func (l Location) String() string { return string(l) }

// ParseLocation parses a lowercase or uppercase compass name.
func ParseLocation(s string) (Location, error) {
	loc := Location(strings.ToLower(strings.TrimSpace(s)))
	if !loc.Valid() {
		return "", fmt.Errorf("unknown location %q", s)
	}
	return loc, nil
}

// Valid reports whether m is diamond or box.
func (m Mode) Valid() bool { return m == Diamond || m == Box }

func (m Mode) String() string { return string(m) }

// ParseMode parses a grid mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown grid mode %q", s)
	}
	return m, nil
}

// locationAngles are polar angles in screen space (y grows downward), so north is -π/2.
var locationAngles = map[Location]float64{
	East:      0,
	SouthEast: math.Pi / 4,
	South:     math.Pi / 2,
	SouthWest: 3 * math.Pi / 4,
	West:      math.Pi,
	NorthWest: -3 * math.Pi / 4,
	North:     -math.Pi / 2,
	NorthEast: -math.Pi / 4,
}

// LocationAngle returns the polar angle of a hand point around the grid center.
// Unknown locations map to 0.
func LocationAngle(loc Location) float64 {
	return locationAngles[loc]
}

// NormalizeAngle wraps an angle into (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// ShortestDelta returns the signed angle of the shortest arc from a to b.
// Opposite points resolve to +π.
func ShortestDelta(a, b float64) float64 {
	return NormalizeAngle(b - a)
}
