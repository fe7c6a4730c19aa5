// Package domain holds the data model shared across the discovery,
// picker, session, and persistence layers: repository records, session
// items, modes, and the frecency and state records that outlive a single
// run.
package domain

import (
	"math"
	"time"
)

// RepoKind tags how a Repository record was produced.
type RepoKind int

const (
	KindPrimary RepoKind = iota
	KindWorktree
	KindBookmark
	KindRemote
)

func (k RepoKind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindWorktree:
		return "worktree"
	case KindBookmark:
		return "bookmark"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Repository is a discovered (or bookmarked, or remote) project root.
// AbsolutePath must be canonical and must exist at the moment of emission.
type Repository struct {
	DisplayName  string
	AbsolutePath string
	Kind         RepoKind

	// RemoteEndpoints carries the clone URLs for Kind == KindRemote.
	RemoteEndpoints *RemoteEndpoints
}

// RemoteEndpoints carries both transports a remote record may clone over,
// plus the human-facing web URL for the "view in browser" action.
type RemoteEndpoints struct {
	Encrypted string // e.g. ssh:// or git@ form
	Plain     string // e.g. https:// form
	Web       string // browsable URL, e.g. https://github.com/<owner>/<repo>
}

// SessionItem is the picker's view of a Repository.
type SessionItem struct {
	VisibleName string
	Repo        Repository
}

// FilterValue satisfies bubbles/list.Item and is what the fuzzy matcher
// scores against.
func (i SessionItem) FilterValue() string { return i.VisibleName }

// ModeTag distinguishes Local from a named Remote profile.
type ModeTag string

const localModeTag ModeTag = "local"

// Mode is a tagged variant: Local, or Remote(profile_id).
type Mode struct {
	Tag     ModeTag
	Profile string // empty for Local
}

// LocalMode constructs the Local mode value.
func LocalMode() Mode { return Mode{Tag: localModeTag} }

// RemoteMode constructs a Remote(profile) mode value.
func RemoteMode(profile string) Mode { return Mode{Tag: ModeTag("remote"), Profile: profile} }

// IsLocal reports whether m is the Local mode.
func (m Mode) IsLocal() bool { return m.Tag == localModeTag }

// Key returns a stable string identifying the mode, suitable as a map key
// or for persistence.
func (m Mode) Key() string {
	if m.IsLocal() {
		return "local"
	}
	return "remote:" + m.Profile
}

// ParseModeKey is the inverse of Mode.Key.
func ParseModeKey(key string) Mode {
	if key == "" || key == "local" {
		return LocalMode()
	}
	const prefix = "remote:"
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		return RemoteMode(key[len(prefix):])
	}
	return LocalMode()
}

// FrecencyRecord tracks access statistics for one named session.
type FrecencyRecord struct {
	FirstSeenUnix int64 `yaml:"first_seen_unix"`
	LastSeenUnix  int64 `yaml:"last_seen_unix"`
	AccessCount   int64 `yaml:"access_count"`
}

// HalfLifeSeconds is the decay constant of the frecency score.
const HalfLifeSeconds = 604800 // one week

// Score computes the frecency score at time `now`: AccessCount times
// exp(-elapsed/HalfLifeSeconds), where elapsed is the time since
// LastSeenUnix, clamped at 0. The score falls by a factor of e (not 2)
// for every HalfLifeSeconds elapsed.
func (r FrecencyRecord) Score(now time.Time) float64 {
	delta := now.Unix() - r.LastSeenUnix
	if delta < 0 {
		delta = 0
	}
	return float64(r.AccessCount) * math.Exp(-float64(delta)/HalfLifeSeconds)
}

// StateRecord is the persisted (active mode, frecency table) pair.
type StateRecord struct {
	ActiveMode string                    `yaml:"active_mode"`
	Frecency   map[string]FrecencyRecord `yaml:"frecency"`
}

// SearchRoot is a canonicalized directory plus how many levels below it
// discovery is allowed to recurse.
type SearchRoot struct {
	Path        string `yaml:"path"`
	DepthBudget int    `yaml:"depth_budget"`
}
