package playback

import (
	"fmt"
	"strings"
)

// Op names a controller command. The names are the wire form used by the
// preview control socket.
type Op string

const (
	OpToggle     Op = "toggle"
	OpPlay       Op = "play"
	OpPause      Op = "pause"
	OpStop       Op = "stop"
	OpJump       Op = "jump"
	OpNext       Op = "next"
	OpPrev       Op = "prev"
	OpSpeed      Op = "speed"
	OpSpeedStep  Op = "speed_step"
	OpLoop       Op = "loop"
	OpLoopToggle Op = "loop_toggle"
)

// SpeedStep is the default increment for speed_step commands.
const SpeedStep = 0.25

// Command is one user action, whatever input it came from.
type Command struct {
	Op      Op      `json:"op"`
	Value   float64 `json:"value,omitempty"`
	Enabled bool    `json:"enabled,omitempty"`
}

// ParseOp parses an op name.
func ParseOp(s string) (Op, error) {
	op := Op(strings.ToLower(strings.TrimSpace(s)))
	switch op {
	case OpToggle, OpPlay, OpPause, OpStop, OpJump, OpNext, OpPrev,
		OpSpeed, OpSpeedStep, OpLoop, OpLoopToggle:
		return op, nil
	}
	return "", fmt.Errorf("unknown command %q", s)
}

// Apply runs cmd against the controller.
func (c *Controller) Apply(cmd Command) error {
	switch cmd.Op {
	case OpToggle:
		c.TogglePlayback()
	case OpPlay:
		c.Play()
	case OpPause:
		c.Pause()
	case OpStop:
		c.Stop()
	case OpJump:
		c.JumpToBeat(cmd.Value)
	case OpNext:
		c.NextBeat()
	case OpPrev:
		c.PreviousBeat()
	case OpSpeed:
		c.SetSpeed(cmd.Value)
	case OpSpeedStep:
		step := cmd.Value
		if step == 0 {
			step = SpeedStep
		}
		c.SetSpeed(c.Snapshot().Speed + step)
	case OpLoop:
		c.SetLoop(cmd.Enabled)
	case OpLoopToggle:
		c.SetLoop(!c.Snapshot().Loop)
	default:
		return fmt.Errorf("unknown command %q", cmd.Op)
	}
	return nil
}
