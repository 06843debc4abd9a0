// Package playback drives a sequence through time, one frame callback at a
// time, and publishes where both props are to a state sink.
package playback

import (
	"fmt"
	"sync"

	"github.com/Faultbox/tka-animator/internal/animation"
)

// State is the playback state machine position.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseState returns the state named s.
func ParseState(s string) (State, error) {
	switch s {
	case "stopped":
		return Stopped, nil
	case "playing":
		return Playing, nil
	case "paused":
		return Paused, nil
	}
	return Stopped, fmt.Errorf("unknown playback state %q", s)
}

// UnmarshalText decodes a state name written by MarshalText.
func (s *State) UnmarshalText(b []byte) error {
	st, err := ParseState(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Snapshot is an immutable view of a controller at one instant.
type Snapshot struct {
	Version     uint64          `json:"version"`
	State       State           `json:"state"`
	CurrentBeat float64         `json:"currentBeat"`
	TotalBeats  int             `json:"totalBeats"`
	IsPlaying   bool            `json:"isPlaying"`
	Speed       float64         `json:"speed"`
	Loop        bool            `json:"loop"`
	Word        string          `json:"word"`
	Frame       animation.Frame `json:"frame"`
}

// StateSink receives every snapshot a controller publishes.
type StateSink interface {
	Update(s Snapshot)
}

// Observer is notified after a Store accepts a snapshot.
type Observer func(s Snapshot)

// Store is a StateSink that keeps the latest snapshot and fans it out to
// observers. Snapshots older than the one held are dropped.
type Store struct {
	mu        sync.RWMutex
	snap      Snapshot
	observers map[int]Observer
	nextID    int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{observers: make(map[int]Observer)}
}

// Update implements StateSink.
func (s *Store) Update(snap Snapshot) {
	s.mu.Lock()
	if snap.Version != 0 && snap.Version < s.snap.Version {
		s.mu.Unlock()
		return
	}
	s.snap = snap
	obs := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		obs = append(obs, o)
	}
	s.mu.Unlock()

	for _, o := range obs {
		o(snap)
	}
}

// Snapshot returns the latest snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers fn for future updates and returns a func removing it.
func (s *Store) Subscribe(fn Observer) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}
