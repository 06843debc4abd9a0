// Package viewer runs the animator window: SDL input drives the playback
// controller and the latest snapshot is drawn with OpenGL every frame.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/assets"
	"github.com/Faultbox/tka-animator/internal/config"
	"github.com/Faultbox/tka-animator/internal/engine/input"
	"github.com/Faultbox/tka-animator/internal/engine/window"
	"github.com/Faultbox/tka-animator/internal/frame"
	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/internal/playback"
	"github.com/Faultbox/tka-animator/internal/render"
	"github.com/Faultbox/tka-animator/internal/render/glrender"
)

// Config holds viewer configuration.
type Config struct {
	Title       string
	Graphics    config.GraphicsConfig
	GridVisible bool
	BlueProp    string
	RedProp     string
	GridImage   string
}

// ConfigFrom builds a viewer Config from the application config.
func ConfigFrom(title string, cfg *config.Config) Config {
	return Config{
		Title:       title,
		Graphics:    cfg.Graphics,
		GridVisible: cfg.Grid.Visible,
		BlueProp:    cfg.Assets.BlueProp,
		RedProp:     cfg.Assets.RedProp,
		GridImage:   cfg.Assets.GridImage,
	}
}

// Viewer is the animator window.
type Viewer struct {
	// OnGridToggle, if set, is called when the user shows or hides the grid.
	OnGridToggle func(visible bool)

	config   Config
	running  bool
	window   *window.Window
	renderer *glrender.Renderer
	input    *input.Input
	bindings input.Bindings

	ctrl  *playback.Controller
	store *playback.Store
	queue *frame.Queue
	props propImages

	gridVisible bool
	title       string
	pendingLog  bool
	log         *zap.Logger
}

// New opens the window and renderer. ctrl must be scheduled on queue; the
// viewer runs the queue once per frame on the main thread.
func New(ctx context.Context, cfg Config, ctrl *playback.Controller, store *playback.Store, queue *frame.Queue, am *assets.Manager) (*Viewer, error) {
	log := logger.Named("viewer")
	log.Info("initializing viewer",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	v := &Viewer{
		config:      cfg,
		ctrl:        ctrl,
		store:       store,
		queue:       queue,
		bindings:    input.DefaultBindings(),
		gridVisible: cfg.GridVisible,
		log:         log,
	}

	// Create window (this also creates the OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer after window, since the OpenGL context must exist
	w, h := v.window.DrawableSize()
	v.renderer, err = glrender.New(w, h)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.props = loadProps(ctx, am, cfg.BlueProp, cfg.RedProp, cfg.GridImage)

	log.Info("viewer initialized")
	return v, nil
}

// Run starts the main loop. It returns when the window is closed, a quit
// key is pressed or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	v.running = true

	budget := frameBudget(v.config.Graphics.FPSLimit)
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting main loop")

	for v.running {
		start := time.Now()
		if ctx.Err() != nil {
			break
		}

		// 1. Input
		if v.input.Update() {
			v.running = false
			break
		}
		if w, h, ok := v.input.Resized(); ok {
			dw, dh := v.window.DrawableSize()
			v.log.Debug("window resized", zap.Int("width", w), zap.Int("height", h))
			v.renderer.Resize(dw, dh)
		}
		if v.input.IsKeyPressed(sdl.SCANCODE_F) {
			v.window.ToggleFullscreen()
		}
		if v.input.IsKeyPressed(sdl.SCANCODE_G) {
			v.gridVisible = !v.gridVisible
			if v.OnGridToggle != nil {
				v.OnGridToggle(v.gridVisible)
			}
		}
		for _, cmd := range v.input.Commands(v.bindings) {
			if err := v.ctrl.Apply(cmd); err != nil {
				v.log.Warn("command failed", zap.String("op", string(cmd.Op)), zap.Error(err))
			}
		}

		// 2. Tick playback
		v.queue.Run(start)

		// 3. Render
		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 4. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if budget > 0 {
			if rest := budget - time.Since(start); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

// render draws the latest snapshot. Frames whose prop images are still
// loading show the grid only.
func (v *Viewer) render() error {
	snap := v.store.Snapshot()

	blue, red, gridImg := v.props.resolve()
	call := render.FromFrame(snap.Frame, blue, red, v.gridVisible)
	call.GridImage = gridImg

	err := v.renderer.Draw(call)
	switch {
	case errors.Is(err, render.ErrAssetsPending):
		if !v.pendingLog {
			v.log.Debug("prop images not ready, skipping props")
			v.pendingLog = true
		}
	case err != nil:
		return err
	default:
		v.pendingLog = false
	}

	v.renderer.DrawProgress(progress(snap))

	if title := windowTitle(v.config.Title, snap); title != v.title {
		v.window.SetTitle(title)
		v.title = title
	}
	return nil
}

// Close releases the renderer and window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

// frameBudget is the minimum frame time for an FPS limit; 0 means unlimited.
func frameBudget(limit int) time.Duration {
	if limit <= 0 {
		return 0
	}
	return time.Second / time.Duration(limit)
}

// progress is how far through the whole sequence playback is.
func progress(snap playback.Snapshot) float64 {
	if snap.TotalBeats == 0 {
		return 0
	}
	return snap.CurrentBeat / float64(snap.TotalBeats)
}

func windowTitle(base string, snap playback.Snapshot) string {
	if snap.TotalBeats == 0 {
		return base
	}
	letter := snap.Frame.Letter
	if snap.Frame.BeatIndex < 0 {
		letter = "start"
	}
	return fmt.Sprintf("%s - %s [%s] %s %.2fx", base, snap.Word, letter, snap.State, snap.Speed)
}
