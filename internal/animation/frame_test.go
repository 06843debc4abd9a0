package animation

import (
	"testing"

	"github.com/Faultbox/tka-animator/pkg/grid"
	"github.com/Faultbox/tka-animator/pkg/motion"
	"github.com/Faultbox/tka-animator/pkg/sequence"
)

func testSequence(withStart bool) *sequence.Sequence {
	blue := motion.Descriptor{Type: motion.Pro, StartLoc: grid.South, EndLoc: grid.West, StartOri: motion.In, PropRotDir: motion.CW}
	red := motion.Descriptor{Type: motion.Pro, StartLoc: grid.North, EndLoc: grid.East, StartOri: motion.In, PropRotDir: motion.CW}
	seq := &sequence.Sequence{
		GridMode: grid.Diamond,
		Beats: []sequence.Beat{
			{Letter: "A", Blue: blue, Red: red},
			{Letter: "B", Blue: blue, Red: red},
			{Letter: "C", Blue: blue, Red: red},
		},
	}
	if withStart {
		seq.StartPosition = &sequence.Beat{
			Letter: "α",
			Blue:   motion.Descriptor{Type: motion.Static, StartLoc: grid.South, EndLoc: grid.South, StartOri: motion.In, PropRotDir: motion.NoRot},
			Red:    motion.Descriptor{Type: motion.Static, StartLoc: grid.North, EndLoc: grid.North, StartOri: motion.In, PropRotDir: motion.NoRot},
		}
	}
	seq.Resolve()
	return seq
}

func TestBeatPosition(t *testing.T) {
	withStart := testSequence(true)
	noStart := testSequence(false)

	tests := []struct {
		name      string
		seq       *sequence.Sequence
		current   float64
		playing   bool
		wantIndex int
		wantFrac  float64
	}{
		{"stopped at zero shows start position", withStart, 0, false, -1, 0},
		{"playing at zero shows first beat", withStart, 0, true, 0, 0},
		{"no start position shows first beat", noStart, 0, false, 0, 0},
		{"fraction inside beat", withStart, 1.25, true, 1, 0.25},
		{"end clamps to last beat", withStart, 3, false, 2, 1},
		{"past end clamps to last beat", withStart, 9.5, true, 2, 1},
		{"negative behaves like zero", noStart, -2, true, 0, 0},
		{"empty sequence", &sequence.Sequence{}, 1, true, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, frac := BeatPosition(tt.seq, tt.current, tt.playing)
			if idx != tt.wantIndex || frac != tt.wantFrac {
				t.Errorf("BeatPosition() = (%d, %v), want (%d, %v)", idx, frac, tt.wantIndex, tt.wantFrac)
			}
		})
	}
}

func TestFrameAt(t *testing.T) {
	c := grid.Default()
	seq := testSequence(true)

	f := FrameAt(seq, 0, false, c)
	if f.BeatIndex != -1 || f.Letter != "α" {
		t.Fatalf("start frame = %+v", f)
	}
	if f.Blue.StaffRotationAngle != motion.RotationAngle(grid.South, motion.In) {
		t.Errorf("start blue staff = %v", f.Blue.StaffRotationAngle)
	}

	f = FrameAt(seq, 1.5, true, c)
	if f.BeatIndex != 1 || f.Letter != "B" || f.Progress != 0.5 {
		t.Errorf("mid frame = %+v", f)
	}
	if f.GridMode != grid.Diamond {
		t.Errorf("GridMode = %s", f.GridMode)
	}

	empty := FrameAt(&sequence.Sequence{}, 0, false, c)
	if empty.BeatIndex != -1 || empty.Letter != "" {
		t.Errorf("empty frame = %+v", empty)
	}
}
