// Package app wires the pieces every player command needs: flags and
// config, logging, the sequence, assets, preferences and a playback
// controller bound to a store.
package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/assets"
	"github.com/Faultbox/tka-animator/internal/config"
	"github.com/Faultbox/tka-animator/internal/frame"
	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/internal/playback"
	"github.com/Faultbox/tka-animator/internal/prefs"
	"github.com/Faultbox/tka-animator/pkg/sequence"
)

// ErrUsage is returned when the command line is incomplete. The usage text
// has already been printed.
var ErrUsage = errors.New("usage")

// PrefsFile is the preferences file name inside the config directory.
const PrefsFile = "prefs.yaml"

// Options controls Setup.
type Options struct {
	Name      string
	Args      []string
	Scheduler frame.Scheduler
	// SchedulerFor builds the scheduler from the loaded config when
	// Scheduler is nil.
	SchedulerFor func(cfg *config.Config) frame.Scheduler
	// Console receives human-readable logs; nil sends them to the log file only.
	Console io.Writer
	// PrefsPath overrides the preferences file; empty uses the config dir.
	PrefsPath string
	// SequenceOptional lets the command start without a sequence argument.
	SequenceOptional bool
}

// App is a configured player.
type App struct {
	Config   *config.Config
	Flags    *config.Flags
	Sequence *sequence.Sequence
	Store    *playback.Store
	Ctrl     *playback.Controller
	Assets   *assets.Manager
	Prefs    *prefs.Store

	untrack func()
}

// Setup parses args, loads config and the sequence named by the first
// positional argument, and returns an initialized controller.
func Setup(opts Options) (*App, error) {
	fs := flag.NewFlagSet(opts.Name, flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [options] <sequence.yaml>\n\nOptions:\n", opts.Name)
		fs.PrintDefaults()
	}
	if err := fs.Parse(opts.Args); err != nil {
		return nil, ErrUsage
	}
	if fs.NArg() < 1 && !opts.SequenceOptional {
		fs.Usage()
		return nil, ErrUsage
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logOpts := cfg.LoggerOptions()
	logOpts.Console = opts.Console
	if err := logger.InitWithOptions(logOpts); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logger.Sugar.Debugf("config: %+v", cfg)

	a := &App{Config: cfg, Flags: flags}

	a.Assets = assets.NewManager()
	for _, dir := range cfg.Assets.Dirs {
		if err := a.Assets.AddDir(dir); err != nil {
			logger.Warn("skipping asset dir", zap.String("dir", dir), zap.Error(err))
		}
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = filepath.Join(config.ConfigDir(), PrefsFile)
	}
	a.Prefs, err = prefs.Open(prefsPath)
	if err != nil {
		logger.Warn("preferences unavailable", zap.Error(err))
		a.Prefs, _ = prefs.Open("")
	}
	if !flags.IsSet("no-grid") {
		cfg.Grid.Visible = a.Prefs.Bool(prefs.KeyGrid, cfg.Grid.Visible)
	}

	pbOpts := cfg.PlaybackOptions()
	pbOpts.Scheduler = opts.Scheduler
	if pbOpts.Scheduler == nil && opts.SchedulerFor != nil {
		pbOpts.Scheduler = opts.SchedulerFor(cfg)
	}
	a.Store = playback.NewStore()
	a.Ctrl = playback.NewController(pbOpts)

	a.Prefs.ApplyTo(a.Ctrl)
	if flags.IsSet("speed") {
		a.Ctrl.SetSpeed(cfg.Playback.Speed)
	}
	if flags.IsSet("loop") {
		a.Ctrl.SetLoop(cfg.Playback.Loop)
	}

	if fs.NArg() > 0 {
		if err := a.Load(fs.Arg(0)); err != nil {
			a.Close()
			return nil, err
		}
	}
	a.untrack = a.Prefs.Track(a.Store)
	return a, nil
}

// Load reads a sequence file and binds it to the controller.
func (a *App) Load(path string) error {
	seq, err := sequence.Load(path)
	if err != nil {
		return err
	}
	if !a.Ctrl.Initialize(seq, a.Store) {
		return fmt.Errorf("sequence %s cannot be played", path)
	}
	a.Sequence = seq
	return nil
}

// SaveGrid remembers the grid visibility chosen in a player.
func (a *App) SaveGrid(visible bool) {
	a.Prefs.SetBool(prefs.KeyGrid, visible)
	if err := a.Prefs.Save(); err != nil {
		logger.Warn("saving prefs failed", zap.Error(err))
	}
}

// Close stops playback and releases assets.
func (a *App) Close() {
	if a.untrack != nil {
		a.untrack()
		a.untrack = nil
	}
	if a.Ctrl != nil {
		a.Ctrl.Dispose()
	}
	if a.Assets != nil {
		a.Assets.Close()
	}
	logger.Sync()
}

// Exit prints err and exits with status 1, or 2 for usage errors.
func Exit(err error) {
	if errors.Is(err, ErrUsage) {
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
