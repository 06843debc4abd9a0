package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Faultbox/tka-animator/pkg/grid"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TKA_"

// loadDotEnv reads .env files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

func dotEnvCandidates() []string {
	return []string{".env", filepath.Join(ConfigDir(), ".env")}
}

// applyEnv applies TKA_* overrides using lookup.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return v, ok && v != ""
	}

	if v, ok := get("LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := get("LOG_FILE"); ok {
		cfg.Logging.LogFile = v
	}
	if v, ok := get("LOG_JSON"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sLOG_JSON: %w", EnvPrefix, err)
		}
		cfg.Logging.JSON = b
	}
	if v, ok := get("SPEED"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sSPEED: %w", EnvPrefix, err)
		}
		cfg.Playback.Speed = f
	}
	if v, ok := get("LOOP"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sLOOP: %w", EnvPrefix, err)
		}
		cfg.Playback.Loop = b
	}
	if v, ok := get("BEAT_DURATION"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sBEAT_DURATION: %w", EnvPrefix, err)
		}
		cfg.Playback.BeatDuration = d
	}
	if v, ok := get("FPS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sFPS: %w", EnvPrefix, err)
		}
		cfg.Playback.FPS = n
	}
	if v, ok := get("GRID_MODE"); ok {
		m, err := grid.ParseMode(v)
		if err != nil {
			return fmt.Errorf("%sGRID_MODE: %w", EnvPrefix, err)
		}
		cfg.Grid.Mode = m
	}
	if v, ok := get("ASSETS_DIR"); ok {
		cfg.Assets.Dirs = append(cfg.Assets.Dirs, v)
	}
	if v, ok := get("PREVIEW_ADDR"); ok {
		cfg.Preview.Addr = v
	}
	if v, ok := get("PREVIEW_PUBLIC_URL"); ok {
		cfg.Preview.PublicURL = v
	}
	return nil
}

func osLookup(name string) (string, bool) {
	return os.LookupEnv(name)
}
