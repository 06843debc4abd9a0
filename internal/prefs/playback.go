package prefs

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/internal/playback"
)

// ApplyTo restores the saved loop flag and speed onto c. Missing keys leave
// the controller's values alone.
func (s *Store) ApplyTo(c *playback.Controller) {
	snap := c.Snapshot()
	c.SetLoop(s.Bool(KeyLoop, snap.Loop))
	c.SetSpeed(s.Float(KeySpeed, snap.Speed))
}

// Track saves the loop flag and speed whenever a published snapshot
// changes them. Save failures are logged; persistence is best effort.
func (s *Store) Track(st *playback.Store) (cancel func()) {
	return st.Subscribe(func(snap playback.Snapshot) {
		if s.Bool(KeyLoop, !snap.Loop) == snap.Loop && s.Float(KeySpeed, -1) == snap.Speed {
			return
		}
		s.SetBool(KeyLoop, snap.Loop)
		s.SetFloat(KeySpeed, snap.Speed)
		if err := s.Save(); err != nil {
			logger.Warn("saving prefs failed", zap.String("path", s.path), zap.Error(err))
		}
	})
}
