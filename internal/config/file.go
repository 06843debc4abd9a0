package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file name inside ConfigDir.
	FileName = "config.yaml"
	// LocalFileName is looked up in the working directory first.
	LocalFileName = "tka.yaml"
)

// Load builds the configuration from defaults, then the config file, then
// TKA_* environment variables (including .env files), then flags.
// flags may be nil.
func Load(flags *Flags) (*Config, error) {
	cfg := Default()

	path := flags.ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		cfg.Source = path
	}

	if err := loadDotEnv(dotEnvCandidates()...); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, osLookup); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	flags.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	for _, path := range []string{LocalFileName, filepath.Join(ConfigDir(), FileName)} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the directory holding config.yaml, prefs.yaml and .env.
// TKA_CONFIG_DIR overrides the per-OS default.
func ConfigDir() string {
	if dir := os.Getenv(EnvPrefix + "CONFIG_DIR"); dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			return abs
		}
		return dir
	}
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "TKAAnimator")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "TKAAnimator")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "tka-animator")
		}
		return filepath.Join(home, ".config", "tka-animator")
	}
}

// loadFromFile merges a YAML file over the values already in cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Encode writes the config as YAML.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Save writes the config to ConfigDir.
func (c *Config) Save() error {
	return c.SaveTo(filepath.Join(ConfigDir(), FileName))
}

// SaveTo writes the config to path, replacing any previous file whole.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
