// Package config loads the nscache configuration file.
//
// The file is read from $XDG_CONFIG_HOME/nscache/config.toml, falling back to
// ~/.config/nscache/config.toml. Command-line flags take precedence over it.
//
//	snapshot = "~/zk-snapshot.yaml"
//	log_level = "info"
//	color = "auto"
//	progress = true
package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	Snapshot string `toml:"snapshot"`  // snapshot file used by the CLI
	LogLevel string `toml:"log_level"` // logrus level name
	Color    string `toml:"color"`     // auto, always or never
	Progress bool   `toml:"progress"`  // progress bars for long loads
}

func Default() Config {
	return Config{
		LogLevel: logrus.InfoLevel.String(),
		Color:    ColorAuto,
	}
}

// DefaultPath returns the default location of the config file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "nscache", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nscache", "config.toml"), nil
}

// Load reads the config file at path.
// A missing file yields Default() without error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "reading config file")
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), errors.Wrapf(err, "parsing config file %s", path)
	}
	if cfg.Snapshot, err = expandPath(cfg.Snapshot); err != nil {
		return Default(), err
	}
	if err := cfg.Validate(); err != nil {
		return Default(), errors.Wrapf(err, "invalid config file %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("color must be %q, %q or %q, got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
	}
	return nil
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "expanding ~")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
