// Package pathutil implements the two filesystem-path primitives every
// other package builds on: canonicalization (env/~ expansion + symlink
// resolution, touches the filesystem) and separator normalization (pure
// text, never touches the filesystem).
package pathutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrNotFound is returned by Canonicalize when the path does not exist or
// is not accessible.
var ErrNotFound = errors.New("pathutil: path not found or not accessible")

// ErrNotText is returned when raw is not valid UTF-8 text.
var ErrNotText = errors.New("pathutil: path is not valid text")

// Canonicalize expands "$VAR", "${VAR}", and a leading "~/" in raw, then
// resolves symlinks and "."/".." segments against the filesystem. It
// returns an absolute, symlink-resolved path, or ErrNotFound/ErrNotText.
func Canonicalize(raw string) (string, error) {
	if !utf8.ValidString(raw) {
		return "", ErrNotText
	}

	expanded := expandHome(os.Expand(raw, os.Getenv))

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", ErrNotFound
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", ErrNotFound
	}

	return resolved, nil
}

// expandHome rewrites a leading "~/" (or a bare "~") to the user's home
// directory. It leaves every other path untouched.
func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
