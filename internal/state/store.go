// Package state persists the last-active picker mode and the per-name
// frecency table between runs. It is the only component that mutates
// the frecency table, is single-writer, and is only ever touched from
// the picker's own goroutine.
package state

import (
	"sync"
	"time"

	"github.com/alisonjenkins/tmux-sessionizer/internal/cacheio"
	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

// Store is a synchronous, single-writer handle onto the state file.
type Store struct {
	path string

	mu     sync.Mutex
	loaded bool
	record domain.StateRecord

	now func() time.Time
}

// New constructs a Store backed by dirs.StateFile().
func New(dirs Dirs) *Store {
	return &Store{path: dirs.StateFile(), now: time.Now}
}

// NewAtPath constructs a Store backed by an explicit file path, primarily
// for tests.
func NewAtPath(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) ensureLoaded() {
	if s.loaded {
		return
	}
	var rec domain.StateRecord
	status, _ := cacheio.Read(s.path, &rec)
	if status != cacheio.StatusPresent {
		rec = domain.StateRecord{}
	}
	if rec.Frecency == nil {
		rec.Frecency = make(map[string]domain.FrecencyRecord)
	}
	s.record = rec
	s.loaded = true
}

func (s *Store) save() error {
	return cacheio.Write(s.path, s.record)
}

// GetActiveMode returns the last-persisted mode, or domain.LocalMode() if
// none has been recorded yet.
func (s *Store) GetActiveMode() domain.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	if s.record.ActiveMode == "" {
		return domain.LocalMode()
	}
	return domain.ParseModeKey(s.record.ActiveMode)
}

// SetActiveMode persists the given mode as the active one.
func (s *Store) SetActiveMode(mode domain.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	s.record.ActiveMode = mode.Key()
	return s.save()
}

// GetFrecency returns the frecency record for name, or the zero value
// (score 0) if name has never been selected.
func (s *Store) GetFrecency(name string) domain.FrecencyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	return s.record.Frecency[name]
}

// Score returns the current frecency score for name; 0 for unknown names.
func (s *Store) Score(name string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	rec, ok := s.record.Frecency[name]
	if !ok {
		return 0
	}
	return rec.Score(s.now())
}

// RecordAccess is the only path that mutates the frecency table: it
// updates last_seen and increments access_count (first_seen is set once,
// on first access).
func (s *Store) RecordAccess(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	now := s.now().Unix()
	rec, ok := s.record.Frecency[name]
	if !ok {
		rec = domain.FrecencyRecord{FirstSeenUnix: now}
	}
	rec.LastSeenUnix = now
	rec.AccessCount++
	s.record.Frecency[name] = rec

	return s.save()
}
