// Package assets loads and caches prop images from asset directories, with
// generated fallbacks for the built-in staffs.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/logger"
)

// ErrClosed is returned for loads that finish after the manager is closed.
var ErrClosed = errors.New("asset manager closed")

// Manager handles asset loading from directories.
type Manager struct {
	dirs   []string
	files  *Cache[[]byte]
	images *Cache[image.Image]
	mu     sync.RWMutex

	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	log    *zap.Logger
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		files:  NewCache[[]byte](),
		images: NewCache[image.Image](),
		closed: make(chan struct{}),
		log:    logger.Named("assets"),
	}
}

// AddDir adds an asset directory to the manager.
// Directories are searched in reverse order (last added = highest priority).
func (m *Manager) AddDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("opening asset dir %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("opening asset dir %s: not a directory", path)
	}

	m.mu.Lock()
	m.dirs = append(m.dirs, path)
	m.mu.Unlock()

	m.log.Debug("asset dir added", zap.String("path", path))
	return nil
}

// Load loads a file's bytes from the directories, falling back to a
// built-in image.
func (m *Manager) Load(name string) ([]byte, error) {
	// Check cache first
	if data, ok := m.files.Get(name); ok {
		return data, nil
	}

	m.mu.RLock()
	dirs := m.dirs
	m.mu.RUnlock()

	// Search directories in reverse order
	for i := len(dirs) - 1; i >= 0; i-- {
		data, err := os.ReadFile(filepath.Join(dirs[i], filepath.Clean("/"+name)))
		if err == nil {
			m.files.Set(name, data)
			return data, nil
		}
	}

	if data, ok := builtinPNG(name); ok {
		m.files.Set(name, data)
		return data, nil
	}

	return nil, fmt.Errorf("file not found: %s", name)
}

// Image loads and decodes a PNG.
func (m *Manager) Image(name string) (image.Image, error) {
	if img, ok := m.images.Get(name); ok {
		return img, nil
	}
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	m.images.Set(name, img)
	return img, nil
}

// Future is the pending result of LoadAsync.
type Future struct {
	done chan struct{}
	img  image.Image
	err  error
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the image or error. It is only meaningful after Done.
func (f *Future) Result() (image.Image, error) {
	<-f.done
	return f.img, f.err
}

// Ready reports whether the result is available without blocking.
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// LoadAsync decodes an image in the background. If ctx is cancelled or the
// manager is closed first, the image is discarded and the future holds the
// corresponding error.
func (m *Manager) LoadAsync(ctx context.Context, name string) *Future {
	f := &Future{done: make(chan struct{})}

	select {
	case <-m.closed:
		f.err = ErrClosed
		close(f.done)
		return f
	default:
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(f.done)

		img, err := m.Image(name)
		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		case <-m.closed:
			f.err = ErrClosed
			return
		default:
		}
		if err != nil {
			m.log.Warn("asset load failed", zap.String("name", name), zap.Error(err))
		}
		f.img, f.err = img, err
	}()
	return f
}

// Close drops pending async results and clears the caches.
func (m *Manager) Close() {
	m.once.Do(func() {
		close(m.closed)
	})
	m.wg.Wait()

	m.mu.Lock()
	m.dirs = nil
	m.mu.Unlock()
	m.files.Clear()
	m.images.Clear()
}

// Stats returns file cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.files.Stats()
}
