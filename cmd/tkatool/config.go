package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/Faultbox/tka-animator/internal/config"
)

// cmdConfig prints the effective configuration, optionally saving it as the
// user's config file.
func cmdConfig(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("config", stderr, "[options]")
	flags := config.RegisterFlags(fs)
	save := fs.Bool("save", false, "Write the effective config to the user config directory")
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if cfg.Source != "" {
		fmt.Fprintf(stdout, "# loaded from %s\n", cfg.Source)
	}
	if err := cfg.Encode(stdout); err != nil {
		return err
	}
	if *save {
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "saved %s\n", filepath.Join(config.ConfigDir(), config.FileName))
	}
	return nil
}
