package config

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNoHome is returned when no config path override is set and no home
// directory can be resolved to fall back to.
var ErrNoHome = errors.New("config: cannot resolve a home directory")

// FilePath resolves the configuration document path for app: an
// explicit "<APP>_CONFIG_FILE" environment override takes precedence,
// otherwise "$XDG_CONFIG_HOME/<app>/config.yaml" (falling back to
// "~/.config/<app>/config.yaml").
func FilePath(app, envOverrideVar string) (string, error) {
	if v := os.Getenv(envOverrideVar); v != "" {
		return v, nil
	}

	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, app, "config.yaml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoHome
	}
	return filepath.Join(home, ".config", app, "config.yaml"), nil
}
