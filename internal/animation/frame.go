package animation

import (
	"math"

	"github.com/Faultbox/tka-animator/pkg/grid"
	"github.com/Faultbox/tka-animator/pkg/sequence"
)

// Frame is everything a renderer needs to draw one instant of a sequence.
type Frame struct {
	// BeatIndex is the zero-based index into Sequence.Beats, or -1 when the
	// start position is shown.
	BeatIndex int       `json:"beatIndex"`
	Letter    string    `json:"letter"`
	Progress  float64   `json:"progress"` // fraction through the shown beat
	Blue      PropState `json:"blue"`
	Red       PropState `json:"red"`
	GridMode  grid.Mode `json:"gridMode"`
}

// BeatPosition resolves a playback position to the beat to show and the progress
// within it. currentBeat runs from 0 to Len(); its integer part selects the beat
// (clamped to the last one) and its fraction is the progress through it.
// While stopped at 0, the start position (index -1) is shown if there is one.
func BeatPosition(seq *sequence.Sequence, currentBeat float64, playing bool) (index int, frac float64) {
	n := seq.Len()
	if n == 0 {
		return -1, 0
	}
	if currentBeat <= 0 {
		if !playing && seq.StartPosition != nil {
			return -1, 0
		}
		return 0, 0
	}
	whole := math.Floor(currentBeat)
	index = int(whole)
	frac = currentBeat - whole
	if index >= n {
		return n - 1, 1
	}
	return index, frac
}

// FrameAt computes the frame for a playback position on circle c.
func FrameAt(seq *sequence.Sequence, currentBeat float64, playing bool, c grid.Circle) Frame {
	index, frac := BeatPosition(seq, currentBeat, playing)
	f := Frame{BeatIndex: index, Progress: frac}
	if seq != nil {
		f.GridMode = seq.GridMode
	}

	var beat sequence.Beat
	switch {
	case index < 0 && seq != nil && seq.StartPosition != nil:
		beat = *seq.StartPosition
		f.Letter = beat.Letter
		f.Blue = StaticState(beat.Blue, true, c)
		f.Red = StaticState(beat.Red, true, c)
		return f
	case index < 0:
		return f
	default:
		beat = seq.Beats[index]
	}

	f.Letter = beat.Letter
	f.Blue = PropStateAt(beat.Blue, frac, c)
	f.Red = PropStateAt(beat.Red, frac, c)
	return f
}
