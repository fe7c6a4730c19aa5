// Package cacheio reads and writes the structured YAML documents used by
// the state store and the local/remote caches. Writes are atomic
// (temp file + fsync + rename); reads tolerate absence and corruption
// by reporting a Status rather than returning a parsed zero value, so
// callers never mistake "nothing here yet" for "this file is empty".
package cacheio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Status describes the outcome of a Read call.
type Status int

const (
	StatusAbsent Status = iota
	StatusPresent
	StatusCorrupt
)

// Read decodes the YAML document at path into out. A missing file is
// StatusAbsent with a nil error; any other read failure (a permission
// error, say) is StatusAbsent with that error; a document that fails to
// parse is StatusCorrupt with the parse error. The caller is expected to
// treat anything other than StatusPresent as "fall through to a fresh
// scan".
func Read(path string, out interface{}) (Status, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StatusAbsent, nil
		}
		// Permission errors and the like: treat as absent, but surface
		// the error so the caller can log it at diagnostic level.
		return StatusAbsent, err
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return StatusCorrupt, err
	}

	return StatusPresent, nil
}

// Write serializes v as YAML and atomically replaces the document at
// path, creating the containing directory if necessary.
func Write(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return replaceFile(path, data)
}

// replaceFile stages data under a hidden name in the target's own
// directory, then renames it into place once it has reached stable
// storage, so a reader never observes a truncated document. The staged
// file is removed whenever any step short of the rename fails.
func replaceFile(path string, data []byte) error {
	staged, err := os.CreateTemp(filepath.Dir(path), ".staged-*")
	if err != nil {
		return err
	}
	name := staged.Name()

	_, err = staged.Write(data)
	if err == nil {
		err = staged.Chmod(0o644)
	}
	if err == nil {
		err = staged.Sync()
	}
	if closeErr := staged.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(name, path)
	}
	if err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
