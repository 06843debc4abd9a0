// Package motion describes a single prop motion within a pictograph and derives
// its end orientation and rendering rotation angles.
package motion

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/tka-animator/pkg/grid"
)

// Type is the category of movement; it determines the orientation-change rule.
type Type string

const (
	Static Type = "static"
	Dash   Type = "dash"
	Pro    Type = "pro"
	Anti   Type = "anti"
	Float  Type = "float"
)

// Orientation is the facing state of a prop relative to the grid center.
type Orientation string

const (
	In      Orientation = "in"
	Out     Orientation = "out"
	Clock   Orientation = "clock"
	Counter Orientation = "counter"
)

// RotationDirection is the spin direction of the prop.
type RotationDirection string

const (
	CW    RotationDirection = "cw"
	CCW   RotationDirection = "ccw"
	NoRot RotationDirection = "no_rot"
)

// Turns counts half and whole prop rotations made during a motion.
type Turns float64

// FloatTurns is the "fl" marker used by float motions in place of a count.
// It is NaN so that no numeric count, negative ones included, can be
// mistaken for it. Compare with IsFloat, never with ==.
var FloatTurns = Turns(math.NaN())

var validTurns = []Turns{0, 0.5, 1, 1.5, 2, 2.5, 3}

// Descriptor is the immutable description of one prop's motion for one beat.
// EndOri is derived from the other fields and should be filled by Resolve.
type Descriptor struct {
	Type       Type              `yaml:"motion_type" json:"motion_type"`
	StartLoc   grid.Location     `yaml:"start_loc" json:"start_loc"`
	EndLoc     grid.Location     `yaml:"end_loc" json:"end_loc"`
	StartOri   Orientation       `yaml:"start_ori" json:"start_ori"`
	EndOri     Orientation       `yaml:"end_ori,omitempty" json:"end_ori,omitempty"`
	PropRotDir RotationDirection `yaml:"prop_rot_dir" json:"prop_rot_dir"`
	Turns      Turns             `yaml:"turns" json:"turns"`
}

// Valid reports whether t is a known motion type.
func (t Type) Valid() bool {
	switch t {
	case Static, Dash, Pro, Anti, Float:
		return true
	}
	return false
}

// Valid reports whether o is one of the four orientations.
func (o Orientation) Valid() bool {
	switch o {
	case In, Out, Clock, Counter:
		return true
	}
	return false
}

// Complement returns the opposite orientation (in/out, clock/counter).
func (o Orientation) Complement() Orientation {
	switch o {
	case In:
		return Out
	case Out:
		return In
	case Clock:
		return Counter
	case Counter:
		return Clock
	}
	return o
}

// Valid reports whether d is cw, ccw, or no_rot.
func (d RotationDirection) Valid() bool {
	switch d {
	case CW, CCW, NoRot:
		return true
	}
	return false
}

// Sign returns +1 for clockwise, -1 for counter-clockwise and 0 otherwise.
func (d RotationDirection) Sign() float64 {
	switch d {
	case CW:
		return 1
	case CCW:
		return -1
	}
	return 0
}

// ParseType parses a motion type name.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown motion type %q", s)
	}
	return t, nil
}

// ParseOrientation parses an orientation name.
func ParseOrientation(s string) (Orientation, error) {
	o := Orientation(strings.ToLower(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("unknown orientation %q", s)
	}
	return o, nil
}

// ParseRotationDirection parses a rotation direction; an empty string means no_rot.
func ParseRotationDirection(s string) (RotationDirection, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return NoRot, nil
	}
	d := RotationDirection(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown rotation direction %q", s)
	}
	return d, nil
}

// ParseTurns parses a turn count such as "1.5" or the float marker "fl".
func ParseTurns(s string) (Turns, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "fl" {
		return FloatTurns, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing turns %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parsing turns %q: not a count", s)
	}
	return Turns(v), nil
}

// IsFloat reports whether t is the float marker.
func (t Turns) IsFloat() bool { return math.IsNaN(float64(t)) }

// Valid reports whether t is one of 0, 0.5, ..., 3 or the float marker.
// Negative counts are invalid.
func (t Turns) Valid() bool {
	if t.IsFloat() {
		return true
	}
	for _, v := range validTurns {
		if t == v {
			return true
		}
	}
	return false
}

// Whole reports whether t is an integer count.
func (t Turns) Whole() bool {
	return math.Mod(float64(t), 1) == 0
}

func (t Turns) String() string {
	if t.IsFloat() {
		return "fl"
	}
	return strconv.FormatFloat(float64(t), 'f', -1, 64)
}

// MarshalYAML writes the float marker as "fl" and counts as numbers.
func (t Turns) MarshalYAML() (interface{}, error) {
	if t.IsFloat() {
		return "fl", nil
	}
	return float64(t), nil
}

// UnmarshalYAML accepts numbers, numeric strings, and "fl".
func (t *Turns) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseTurns(node.Value)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalJSON mirrors MarshalYAML for frame streaming.
func (t Turns) MarshalJSON() ([]byte, error) {
	if t.IsFloat() {
		return []byte(`"fl"`), nil
	}
	return []byte(t.String()), nil
}

// UnmarshalJSON accepts numbers and "fl".
func (t *Turns) UnmarshalJSON(data []byte) error {
	v, err := ParseTurns(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Validate checks the enumerated fields. EndOri may be empty. Turns are not
// checked here: an unexpected count only degrades EndOrientation to a warning.
func (d Descriptor) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("invalid motion type %q", d.Type)
	}
	if !d.StartLoc.Valid() {
		return fmt.Errorf("invalid start location %q", d.StartLoc)
	}
	if !d.EndLoc.Valid() {
		return fmt.Errorf("invalid end location %q", d.EndLoc)
	}
	if !d.StartOri.Valid() {
		return fmt.Errorf("invalid start orientation %q", d.StartOri)
	}
	if d.EndOri != "" && !d.EndOri.Valid() {
		return fmt.Errorf("invalid end orientation %q", d.EndOri)
	}
	if d.PropRotDir != "" && !d.PropRotDir.Valid() {
		return fmt.Errorf("invalid rotation direction %q", d.PropRotDir)
	}
	return nil
}
