// Package window opens the SDL2 animator window and its OpenGL context.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// MinSide is the smallest window edge; below it the 950px grid is unreadable.
const MinSide = 240

// Config describes the window to open.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Samples    int // MSAA samples; 0 disables
}

// Window owns the SDL window and the GL context bound to it.
type Window struct {
	sdl        *sdl.Window
	ctx        sdl.GLContext
	fullscreen bool
	log        *zap.Logger
}

type glAttr struct {
	attr  sdl.GLattr
	value int
}

// glAttributes lists the context attributes requested before the window
// exists: a 4.1 core profile (the newest macOS offers), double buffered.
func glAttributes(samples int) []glAttr {
	attrs := []glAttr{
		{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
		{sdl.GL_CONTEXT_MINOR_VERSION, 1},
		{sdl.GL_CONTEXT_PROFILE_MASK, int(sdl.GL_CONTEXT_PROFILE_CORE)},
		{sdl.GL_DOUBLEBUFFER, 1},
	}
	if samples > 0 {
		attrs = append(attrs,
			glAttr{sdl.GL_MULTISAMPLEBUFFERS, 1},
			glAttr{sdl.GL_MULTISAMPLESAMPLES, samples},
		)
	}
	return attrs
}

// New opens the window and makes its GL context current.
func New(cfg Config) (*Window, error) {
	log := logger.Named("window")
	if cfg.Width < MinSide {
		cfg.Width = MinSide
	}
	if cfg.Height < MinSide {
		cfg.Height = MinSide
	}

	log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	for _, a := range glAttributes(cfg.Samples) {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			log.Warn("GL attribute rejected", zap.Int("attr", int(a.attr)), zap.Int("value", a.value), zap.Error(err))
		}
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	win, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}
	win.SetMinimumSize(MinSide, MinSide)

	ctx, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Int("samples", cfg.Samples),
	)
	return &Window{sdl: win, ctx: ctx, fullscreen: cfg.Fullscreen, log: log}, nil
}

// Close destroys the context and window and shuts SDL down.
func (w *Window) Close() {
	w.log.Info("closing window")
	if w.ctx != nil {
		sdl.GLDeleteContext(w.ctx)
	}
	if w.sdl != nil {
		w.sdl.Destroy()
	}
	sdl.Quit()
}

// SwapBuffers presents the frame.
func (w *Window) SwapBuffers() {
	w.sdl.GLSwap()
}

// Size returns the window size in screen coordinates.
func (w *Window) Size() (int, int) {
	width, height := w.sdl.GetSize()
	return int(width), int(height)
}

// DrawableSize returns the framebuffer size, which differs from Size on
// high-DPI displays.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.sdl.GLGetDrawableSize()
	return int(width), int(height)
}

// ToggleFullscreen switches between a desktop-sized fullscreen window and
// the normal one.
func (w *Window) ToggleFullscreen() {
	var flags uint32
	if !w.fullscreen {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.sdl.SetFullscreen(flags); err != nil {
		w.log.Warn("fullscreen toggle failed", zap.Error(err))
		return
	}
	w.fullscreen = !w.fullscreen
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdl.SetTitle(title)
}
