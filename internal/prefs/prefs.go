// Package prefs is a small persisted key-value store for user preferences
// such as the loop flag and playback speed.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/tka-animator/internal/logger"
)

// Well-known keys.
const (
	KeyLoop  = "playback.loop"
	KeySpeed = "playback.speed"
	KeyGrid  = "grid.visible"
)

// Store holds string values keyed by name and writes them to a YAML file.
// A Store with an empty path keeps values in memory only.
type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
	dirty  bool
}

// Open loads the store at path. A missing file yields an empty store; a
// corrupt one is logged and ignored.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]string)}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading prefs %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s.values); err != nil {
		logger.Warn("ignoring unreadable prefs file", zap.String("path", path), zap.Error(err))
		s.values = make(map[string]string)
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	return s, nil
}

// Path returns the backing file, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// Get returns the raw value of key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a raw value. It is written on the next Save.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.values[key]; ok && old == value {
		return
	}
	s.values[key] = value
	s.dirty = true
}

// Delete removes key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
}

// Bool returns key parsed as a bool, or def when missing or malformed.
func (s *Store) Bool(key string, def bool) bool {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// SetBool stores a bool.
func (s *Store) SetBool(key string, v bool) {
	s.Set(key, strconv.FormatBool(v))
}

// Float returns key parsed as a float, or def when missing or malformed.
func (s *Store) Float(key string, def float64) float64 {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// SetFloat stores a float.
func (s *Store) SetFloat(key string, v float64) {
	s.Set(key, strconv.FormatFloat(v, 'g', -1, 64))
}

// Save writes the store if anything changed since the last save.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" || !s.dirty {
		return nil
	}
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	s.dirty = false
	return nil
}
