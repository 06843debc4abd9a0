package playback

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/animation"
	"github.com/Faultbox/tka-animator/internal/frame"
	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/pkg/grid"
	tmath "github.com/Faultbox/tka-animator/pkg/math"
	"github.com/Faultbox/tka-animator/pkg/sequence"
)

// Speed limits and defaults.
const (
	MinSpeed            = 0.1
	MaxSpeed            = 3.0
	DefaultSpeed        = 1.0
	DefaultBeatDuration = time.Second
)

// Options configures a Controller.
type Options struct {
	Scheduler    frame.Scheduler
	BeatDuration time.Duration // time one beat takes at speed 1
	Speed        float64
	Loop         bool
	Circle       grid.Circle // zero value means grid.Default()
}

// Controller is the playback state machine for one sequence.
//
// Only one frame callback is outstanding at a time, and the next one is
// requested after the current tick, including its publish, has finished.
type Controller struct {
	mu sync.Mutex

	sched        frame.Scheduler
	beatDuration time.Duration
	circle       grid.Circle
	log          *zap.Logger

	seq     *sequence.Sequence
	sink    StateSink
	state   State
	current float64
	speed   float64
	loop    bool

	pending   frame.ID
	ticking   bool
	lastFrame time.Time
	version   uint64
	disposed  bool
}

// NewController creates a stopped controller with no sequence.
func NewController(opts Options) *Controller {
	if opts.BeatDuration <= 0 {
		opts.BeatDuration = DefaultBeatDuration
	}
	if opts.Speed == 0 {
		opts.Speed = DefaultSpeed
	}
	if opts.Circle.Radius == 0 {
		opts.Circle = grid.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = frame.NewQueue()
	}
	return &Controller{
		sched:        opts.Scheduler,
		beatDuration: opts.BeatDuration,
		circle:       opts.Circle,
		log:          logger.Named("playback"),
		speed:        clampSpeed(opts.Speed),
		loop:         opts.Loop,
	}
}

func clampSpeed(s float64) float64 {
	return tmath.Clamp(s, MinSpeed, MaxSpeed)
}

// Initialize binds seq and sink and rewinds to beat 0. It returns false and
// leaves the controller stopped when seq is empty or invalid.
func (c *Controller) Initialize(seq *sequence.Sequence, sink StateSink) bool {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return false
	}
	c.cancelLocked()
	c.sink = sink
	c.state = Stopped
	c.current = 0
	c.lastFrame = time.Time{}

	ok := true
	if seq.Len() == 0 {
		c.log.Warn("cannot initialize playback with an empty sequence")
		ok = false
	} else if err := seq.Validate(); err != nil {
		c.log.Warn("cannot initialize playback with an invalid sequence", zap.Error(err))
		ok = false
	}
	if ok {
		c.seq = seq
		c.log.Info("sequence loaded",
			zap.String("word", seq.Word()),
			zap.Int("beats", seq.Len()))
	} else {
		c.seq = nil
	}
	snap := c.nextSnapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
	return ok
}

// TogglePlayback starts or resumes when stopped or paused, and pauses when
// playing.
func (c *Controller) TogglePlayback() {
	c.mu.Lock()
	playing := c.state == Playing
	c.mu.Unlock()
	if playing {
		c.Pause()
	} else {
		c.Play()
	}
}

// Play starts the tick loop. Playing from the end of a finished sequence
// rewinds to 0. It returns false when no sequence is bound.
func (c *Controller) Play() bool {
	c.mu.Lock()
	if c.disposed || c.seq == nil {
		c.mu.Unlock()
		return false
	}
	if c.state == Playing {
		c.mu.Unlock()
		return true
	}
	if c.state == Stopped && c.current >= float64(c.seq.Len()) {
		c.current = 0
	}
	c.state = Playing
	c.lastFrame = time.Time{}
	c.scheduleLocked()
	snap := c.nextSnapshotLocked()
	c.mu.Unlock()

	c.log.Debug("play", zap.Float64("beat", snap.CurrentBeat))
	c.publish(snap)
	return true
}

// Pause stops ticking and keeps the position.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.disposed || c.state != Playing {
		c.mu.Unlock()
		return
	}
	c.state = Paused
	c.cancelLocked()
	snap := c.nextSnapshotLocked()
	c.mu.Unlock()

	c.log.Debug("pause", zap.Float64("beat", snap.CurrentBeat))
	c.publish(snap)
}

// Stop stops ticking and rewinds to 0.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.state = Stopped
	c.current = 0
	c.cancelLocked()
	snap := c.nextSnapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
}

// JumpToBeat moves to beat n, clamped to [0, total beats]. The play state is
// unchanged.
func (c *Controller) JumpToBeat(n float64) {
	c.mu.Lock()
	if c.disposed || c.seq == nil || math.IsNaN(n) {
		c.mu.Unlock()
		return
	}
	c.current = tmath.Clamp(n, 0, float64(c.seq.Len()))
	snap := c.nextSnapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
}

// NextBeat jumps to the start of the following beat.
func (c *Controller) NextBeat() {
	c.JumpToBeat(math.Floor(c.CurrentBeat()) + 1)
}

// PreviousBeat jumps to the start of the preceding beat.
func (c *Controller) PreviousBeat() {
	c.JumpToBeat(math.Floor(c.CurrentBeat()) - 1)
}

// SetSpeed sets the playback rate, clamped to [MinSpeed, MaxSpeed], and
// returns the value applied.
func (c *Controller) SetSpeed(s float64) float64 {
	c.mu.Lock()
	if math.IsNaN(s) {
		applied := c.speed
		c.mu.Unlock()
		return applied
	}
	c.speed = clampSpeed(s)
	snap := c.nextSnapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
	return snap.Speed
}

// SetLoop chooses whether playback wraps to 0 at the end.
func (c *Controller) SetLoop(loop bool) {
	c.mu.Lock()
	c.loop = loop
	snap := c.nextSnapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
}

// Dispose cancels any pending frame and detaches the sink. Later calls to
// any method are no-ops. Dispose may be called more than once.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.cancelLocked()
	c.disposed = true
	c.state = Stopped
	c.sink = nil
	c.log.Debug("controller disposed")
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns the state machine position.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentBeat returns the fractional playback position.
func (c *Controller) CurrentBeat() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Sequence returns the bound sequence, or nil.
func (c *Controller) Sequence() *sequence.Sequence {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

func (c *Controller) onFrame(now time.Time) {
	c.mu.Lock()
	c.pending = 0
	if c.disposed || c.state != Playing || c.seq == nil {
		c.mu.Unlock()
		return
	}
	c.ticking = true
	c.advanceLocked(now)
	snap := c.nextSnapshotLocked()
	c.mu.Unlock()

	c.publish(snap)

	c.mu.Lock()
	c.ticking = false
	c.scheduleLocked()
	c.mu.Unlock()
}

// advanceLocked moves the position by the time since the previous frame.
// The first frame after play only records its timestamp.
func (c *Controller) advanceLocked(now time.Time) {
	if c.lastFrame.IsZero() {
		c.lastFrame = now
		return
	}
	dt := now.Sub(c.lastFrame)
	c.lastFrame = now
	if dt <= 0 {
		return
	}

	c.current += float64(dt) * c.speed / float64(c.beatDuration)
	total := float64(c.seq.Len())
	if c.current < total {
		return
	}
	if c.loop {
		c.current = 0
		return
	}
	c.current = total
	c.state = Stopped
	c.lastFrame = time.Time{}
	c.log.Debug("sequence finished", zap.String("word", c.seq.Word()))
}

func (c *Controller) scheduleLocked() {
	if c.disposed || c.state != Playing || c.pending != 0 || c.ticking {
		return
	}
	c.pending = c.sched.Request(c.onFrame)
}

func (c *Controller) cancelLocked() {
	if c.pending != 0 {
		c.sched.Cancel(c.pending)
		c.pending = 0
	}
}

// nextSnapshotLocked stamps a new version for a snapshot about to be
// published.
func (c *Controller) nextSnapshotLocked() Snapshot {
	c.version++
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	playing := c.state == Playing
	return Snapshot{
		Version:     c.version,
		State:       c.state,
		CurrentBeat: c.current,
		TotalBeats:  c.seq.Len(),
		IsPlaying:   playing,
		Speed:       c.speed,
		Loop:        c.loop,
		Word:        c.seq.Word(),
		Frame:       animation.FrameAt(c.seq, c.current, playing, c.circle),
	}
}

func (c *Controller) publish(snap Snapshot) {
	c.mu.Lock()
	sink := c.sink
	c.mu.Unlock()
	if sink != nil {
		sink.Update(snap)
	}
}
