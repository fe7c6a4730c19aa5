package state

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNoHome is returned when neither an XDG override nor a resolvable
// home directory is available.
var ErrNoHome = errors.New("state: cannot resolve a home directory")

// Dirs holds the resolved state and cache roots for one application
// name, honoring XDG_STATE_HOME/XDG_CACHE_HOME overrides.
type Dirs struct {
	StateDir string
	CacheDir string
}

// ResolveDirs resolves "<XDG_STATE_HOME or ~/.local/state>/<app>" and
// "<XDG_CACHE_HOME or ~/.cache>/<app>".
func ResolveDirs(app string) (Dirs, error) {
	stateHome, err := xdgHome("XDG_STATE_HOME", ".local/state")
	if err != nil {
		return Dirs{}, err
	}
	cacheHome, err := xdgHome("XDG_CACHE_HOME", ".cache")
	if err != nil {
		return Dirs{}, err
	}

	return Dirs{
		StateDir: filepath.Join(stateHome, app),
		CacheDir: filepath.Join(cacheHome, app),
	}, nil
}

func xdgHome(envVar, fallbackRelToHome string) (string, error) {
	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoHome
	}
	return filepath.Join(home, fallbackRelToHome), nil
}

// StateFile is the path to the persisted state document: "<state>/state".
func (d Dirs) StateFile() string {
	return filepath.Join(d.StateDir, "state")
}

// LocalCacheFile is the path to the local scan snapshot: "<cache>/local".
func (d Dirs) LocalCacheFile() string {
	return filepath.Join(d.CacheDir, "local")
}

// RemoteCacheFile is the path to a per-profile remote catalogue snapshot:
// "<cache>/remote/<profile>".
func (d Dirs) RemoteCacheFile(profile string) string {
	return filepath.Join(d.CacheDir, "remote", profile)
}
