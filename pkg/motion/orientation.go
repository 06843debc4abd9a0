package motion

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/logger"
)

// halfKey indexes the half-turn tables.
type halfKey struct {
	ori Orientation
	dir RotationDirection
}

// Half-turn results: [0] for exactly 0.5 turns, [1] for 1.5 and 2.5 turns.
var (
	antiDashHalfTurns = map[halfKey][2]Orientation{
		{In, CW}:       {Clock, Counter},
		{In, CCW}:      {Counter, Clock},
		{Out, CW}:      {Counter, Clock},
		{Out, CCW}:     {Clock, Counter},
		{Clock, CW}:    {Out, In},
		{Clock, CCW}:   {In, Out},
		{Counter, CW}:  {In, Out},
		{Counter, CCW}: {Out, In},
	}
	proStaticHalfTurns = map[halfKey][2]Orientation{
		{In, CW}:       {Counter, Clock},
		{In, CCW}:      {Clock, Counter},
		{Out, CW}:      {Clock, Counter},
		{Out, CCW}:     {Counter, Clock},
		{Clock, CW}:    {In, Out},
		{Clock, CCW}:   {Out, In},
		{Counter, CW}:  {Out, In},
		{Counter, CCW}: {In, Out},
	}
)

// EndOrientation derives the orientation a prop ends in after motion m.
//
// Float motions keep their start orientation. An unsupported turn count is
// logged and also yields the start orientation.
func EndOrientation(m Descriptor) Orientation {
	if m.Type == Float || m.Turns.IsFloat() {
		// TODO: derive float end orientation from the hand path rotation once
		// handpath direction is modelled; start orientation is kept meanwhile.
		return m.StartOri
	}
	if !m.Turns.Valid() {
		logger.Warn("invalid turns, keeping start orientation",
			zap.Stringer("turns", m.Turns),
			zap.String("motion_type", string(m.Type)),
			zap.String("start_ori", string(m.StartOri)),
		)
		return m.StartOri
	}
	if m.Turns.Whole() {
		return wholeTurnOrientation(m.Type, int(m.Turns), m.StartOri)
	}
	return halfTurnOrientation(m.Type, m.Turns, m.StartOri, m.PropRotDir)
}

// Resolve returns m with EndOri derived from the other fields.
func Resolve(m Descriptor) Descriptor {
	m.EndOri = EndOrientation(m)
	return m
}

func wholeTurnOrientation(t Type, turns int, start Orientation) Orientation {
	even := turns%2 == 0
	switch t {
	case Pro, Static:
		if even {
			return start
		}
		return start.Complement()
	case Anti, Dash:
		if even {
			return start.Complement()
		}
		return start
	}
	return start
}

func halfTurnOrientation(t Type, turns Turns, start Orientation, dir RotationDirection) Orientation {
	var table map[halfKey][2]Orientation
	switch t {
	case Anti, Dash:
		table = antiDashHalfTurns
	case Pro, Static:
		table = proStaticHalfTurns
	default:
		return start
	}

	entry, ok := table[halfKey{start, dir}]
	if !ok {
		return start
	}
	if turns == 0.5 {
		return entry[0]
	}
	return entry[1]
}
