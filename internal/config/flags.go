package config

import (
	"flag"
	"time"
)

// Flags are the command-line overrides shared by every command. Only flags
// set explicitly on the command line override file and environment values.
type Flags struct {
	fs *flag.FlagSet

	config     *string
	debug      *bool
	logFile    *string
	windowed   *bool
	fullscreen *bool
	width      *int
	height     *int
	speed      *float64
	loop       *bool
	beat       *time.Duration
	fps        *int
	assets     *string
	addr       *string
	hideGrid   *bool
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:         fs,
		config:     fs.String("config", "", "Path to config file"),
		debug:      fs.Bool("debug", false, "Enable debug logging"),
		logFile:    fs.String("log-file", "", "Write logs to this file"),
		windowed:   fs.Bool("windowed", false, "Run in windowed mode"),
		fullscreen: fs.Bool("fullscreen", false, "Run in fullscreen mode"),
		width:      fs.Int("width", 0, "Window width"),
		height:     fs.Int("height", 0, "Window height"),
		speed:      fs.Float64("speed", 0, "Playback speed (0.1 to 3.0)"),
		loop:       fs.Bool("loop", false, "Loop playback"),
		beat:       fs.Duration("beat", 0, "Duration of one beat at speed 1"),
		fps:        fs.Int("fps", 0, "Frame rate for headless playback"),
		assets:     fs.String("assets", "", "Extra asset directory (highest priority)"),
		addr:       fs.String("addr", "", "Preview server listen address"),
		hideGrid:   fs.Bool("no-grid", false, "Hide the grid"),
	}
}

// ConfigPath returns the explicit config path if provided via --config flag.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// IsSet reports whether the named flag was given on the command line.
func (f *Flags) IsSet(name string) bool {
	if f == nil {
		return false
	}
	return f.set()[name]
}

func (f *Flags) set() map[string]bool {
	set := make(map[string]bool)
	f.fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	set := f.set()

	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.logFile != "" {
		cfg.Logging.LogFile = *f.logFile
	}
	if *f.windowed {
		cfg.Graphics.Fullscreen = false
	}
	if *f.fullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *f.width > 0 {
		cfg.Graphics.Width = *f.width
	}
	if *f.height > 0 {
		cfg.Graphics.Height = *f.height
	}
	if set["speed"] {
		cfg.Playback.Speed = *f.speed
	}
	if set["loop"] {
		cfg.Playback.Loop = *f.loop
	}
	if *f.beat > 0 {
		cfg.Playback.BeatDuration = *f.beat
	}
	if *f.fps > 0 {
		cfg.Playback.FPS = *f.fps
	}
	if *f.assets != "" {
		cfg.Assets.Dirs = append(cfg.Assets.Dirs, *f.assets)
	}
	if *f.addr != "" {
		cfg.Preview.Addr = *f.addr
	}
	if *f.hideGrid {
		cfg.Grid.Visible = false
	}
}
