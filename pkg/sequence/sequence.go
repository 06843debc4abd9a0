// Package sequence loads, validates and saves TKA beat sequences.
//
// Two on-disk layouts are understood, both as YAML or JSON:
//
//   - the native mapping layout written by Save (name, grid_mode, start_position, beats)
//   - the legacy array layout: a metadata object, the start position (beat 0)
//     and one object per beat, each carrying blue_attributes and red_attributes.
package sequence

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/pkg/grid"
	"github.com/Faultbox/tka-animator/pkg/motion"
)

// MaxBeats is the longest sequence accepted.
const MaxBeats = 64

var (
	// ErrEmpty is returned when a sequence has no beats.
	ErrEmpty = errors.New("sequence has no beats")
	// ErrTooManyBeats is returned when a sequence exceeds MaxBeats.
	ErrTooManyBeats = fmt.Errorf("sequence exceeds %d beats", MaxBeats)
)

// Color identifies one of the two props.
type Color string

const (
	Blue Color = "blue"
	Red  Color = "red"
)

// Beat is one pictograph of a sequence.
type Beat struct {
	Number   int               `yaml:"beat" json:"beat"`
	Letter   string            `yaml:"letter" json:"letter"`
	StartPos string            `yaml:"start_pos,omitempty" json:"start_pos,omitempty"`
	EndPos   string            `yaml:"end_pos,omitempty" json:"end_pos,omitempty"`
	Blue     motion.Descriptor `yaml:"blue" json:"blue"`
	Red      motion.Descriptor `yaml:"red" json:"red"`
}

// Motion returns the descriptor of one prop.
func (b Beat) Motion(c Color) motion.Descriptor {
	if c == Red {
		return b.Red
	}
	return b.Blue
}

// Resolve fills both end orientations from the motion rules.
func (b Beat) Resolve() Beat {
	b.Blue = motion.Resolve(b.Blue)
	b.Red = motion.Resolve(b.Red)
	return b
}

// Sequence is an ordered list of beats with an optional start position.
type Sequence struct {
	Name          string    `yaml:"name,omitempty" json:"name,omitempty"`
	Author        string    `yaml:"author,omitempty" json:"author,omitempty"`
	Level         int       `yaml:"level,omitempty" json:"level,omitempty"`
	GridMode      grid.Mode `yaml:"grid_mode" json:"grid_mode"`
	StartPosition *Beat     `yaml:"start_position,omitempty" json:"start_position,omitempty"`
	Beats         []Beat    `yaml:"beats" json:"beats"`
}

// Len returns the number of beats, excluding the start position.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Beats)
}

// Word is the concatenation of the beat letters.
func (s *Sequence) Word() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	for _, beat := range s.Beats {
		b.WriteString(beat.Letter)
	}
	return b.String()
}

// At returns the beat at index i clamped to the valid range.
// It returns false only for an empty sequence.
func (s *Sequence) At(i int) (Beat, bool) {
	if s.Len() == 0 {
		return Beat{}, false
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s.Beats) {
		i = len(s.Beats) - 1
	}
	return s.Beats[i], true
}

// Validate checks beat count and motion fields. It does not require
// continuity between beats; see Discontinuities.
func (s *Sequence) Validate() error {
	if s.Len() == 0 {
		return ErrEmpty
	}
	if len(s.Beats) > MaxBeats {
		return fmt.Errorf("%w: got %d", ErrTooManyBeats, len(s.Beats))
	}
	if s.GridMode != "" && !s.GridMode.Valid() {
		return fmt.Errorf("invalid grid mode %q", s.GridMode)
	}
	if s.StartPosition != nil {
		if err := validateBeat(*s.StartPosition); err != nil {
			return fmt.Errorf("start position: %w", err)
		}
	}
	for i, b := range s.Beats {
		if err := validateBeat(b); err != nil {
			return fmt.Errorf("beat %d: %w", i+1, err)
		}
	}
	return nil
}

func validateBeat(b Beat) error {
	if err := b.Blue.Validate(); err != nil {
		return fmt.Errorf("blue: %w", err)
	}
	if err := b.Red.Validate(); err != nil {
		return fmt.Errorf("red: %w", err)
	}
	return nil
}

// Resolve derives every end orientation and renumbers beats from 1.
// End orientations read from files are never trusted.
func (s *Sequence) Resolve() {
	if s.StartPosition != nil {
		sp := s.StartPosition.Resolve()
		sp.Number = 0
		s.StartPosition = &sp
	}
	for i := range s.Beats {
		s.Beats[i] = s.Beats[i].Resolve()
		s.Beats[i].Number = i + 1
	}
	if s.GridMode == "" {
		s.GridMode = s.inferGridMode()
	}
}

func (s *Sequence) inferGridMode() grid.Mode {
	first := s.StartPosition
	if first == nil && len(s.Beats) > 0 {
		first = &s.Beats[0]
	}
	if first != nil {
		if m, ok := grid.ModeOf(first.Blue.StartLoc); ok {
			return m
		}
	}
	return grid.Diamond
}

// Discontinuity records a prop whose start orientation or location does not
// match where the previous beat left it.
type Discontinuity struct {
	Beat  int
	Color Color
	Field string
	Want  string
	Got   string
}

func (d Discontinuity) String() string {
	return fmt.Sprintf("beat %d %s %s: expected %s, got %s", d.Beat, d.Color, d.Field, d.Want, d.Got)
}

// Discontinuities compares each beat with the one before it (the start
// position counts as beat 0). The sequence must be resolved first.
func (s *Sequence) Discontinuities() []Discontinuity {
	var out []Discontinuity
	prev := s.StartPosition
	for i := range s.Beats {
		cur := &s.Beats[i]
		if prev != nil {
			for _, c := range []Color{Blue, Red} {
				p, m := prev.Motion(c), cur.Motion(c)
				if p.EndLoc != m.StartLoc {
					out = append(out, Discontinuity{cur.Number, c, "location", string(p.EndLoc), string(m.StartLoc)})
				}
				if p.EndOri != "" && p.EndOri != m.StartOri {
					out = append(out, Discontinuity{cur.Number, c, "orientation", string(p.EndOri), string(m.StartOri)})
				}
			}
		}
		prev = cur
	}
	return out
}

// logDiscontinuities reports continuity problems without rejecting the sequence.
func (s *Sequence) logDiscontinuities() {
	for _, d := range s.Discontinuities() {
		logger.Warn("sequence discontinuity",
			zap.String("sequence", s.Name),
			zap.Int("beat", d.Beat),
			zap.String("color", string(d.Color)),
			zap.String("field", d.Field),
			zap.String("expected", d.Want),
			zap.String("got", d.Got),
		)
	}
}
