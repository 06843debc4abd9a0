// Package config handles animator configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/internal/playback"
	"github.com/Faultbox/tka-animator/pkg/grid"
)

// Config holds all animator settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Playback PlaybackConfig `yaml:"playback"`
	Grid     GridConfig     `yaml:"grid"`
	Assets   AssetsConfig   `yaml:"assets"`
	Preview  PreviewConfig  `yaml:"preview"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Source is the file the config was read from, if any.
	Source string `yaml:"-"`
}

// GraphicsConfig holds window settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Samples    int  `yaml:"samples"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// PlaybackConfig holds animation timing settings.
type PlaybackConfig struct {
	BeatDuration time.Duration `yaml:"beat_duration"`
	Speed        float64       `yaml:"speed"`
	Loop         bool          `yaml:"loop"`
	FPS          int           `yaml:"fps"` // frame rate for headless tickers
}

// GridConfig holds grid drawing settings.
type GridConfig struct {
	Visible bool      `yaml:"visible"`
	Mode    grid.Mode `yaml:"mode"` // empty follows the sequence
}

// AssetsConfig holds prop image locations.
type AssetsConfig struct {
	Dirs      []string `yaml:"dirs"`
	BlueProp  string   `yaml:"blue_prop"`
	RedProp   string   `yaml:"red_prop"`
	GridImage string   `yaml:"grid_image"`
}

// PreviewConfig holds the preview server settings.
type PreviewConfig struct {
	Addr         string `yaml:"addr"`
	PublicURL    string `yaml:"public_url"` // overrides the detected host name
	SnapshotSize int    `yaml:"snapshot_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      950,
			Height:     950,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
			FPSLimit:   0,
		},
		Playback: PlaybackConfig{
			BeatDuration: playback.DefaultBeatDuration,
			Speed:        playback.DefaultSpeed,
			Loop:         false,
			FPS:          60,
		},
		Grid: GridConfig{
			Visible: true,
		},
		Assets: AssetsConfig{
			BlueProp: "staff_blue.png",
			RedProp:  "staff_red.png",
		},
		Preview: PreviewConfig{
			Addr:         ":8950",
			SnapshotSize: 475,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that cannot be clamped into range.
func (c *Config) Validate() error {
	if c.Playback.BeatDuration <= 0 {
		return fmt.Errorf("playback.beat_duration must be positive, got %s", c.Playback.BeatDuration)
	}
	if c.Grid.Mode != "" && !c.Grid.Mode.Valid() {
		return fmt.Errorf("grid.mode %q is not diamond or box", c.Grid.Mode)
	}
	if !logger.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not debug, info, warn or error", c.Logging.Level)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height)
	}
	return nil
}

// PlaybackOptions returns controller options for these settings. The
// scheduler is left for the caller.
func (c *Config) PlaybackOptions() playback.Options {
	return playback.Options{
		BeatDuration: c.Playback.BeatDuration,
		Speed:        c.Playback.Speed,
		Loop:         c.Playback.Loop,
	}
}

// LoggerOptions returns logger settings; console output goes to stderr
// unless the caller replaces it.
func (c *Config) LoggerOptions() logger.Options {
	opts := logger.Options{Level: c.Logging.Level}
	if c.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(c.Logging.LogFile)
		opts.File.JSON = c.Logging.JSON
	}
	return opts
}
