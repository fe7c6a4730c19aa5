// Package config loads the declarative configuration document: search
// roots, bookmarks, exclusion patterns, sort order, VCS provider
// preference, and remote profiles.
package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alisonjenkins/tmux-sessionizer/internal/cacheio"
	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
	"github.com/alisonjenkins/tmux-sessionizer/internal/pathutil"
)

// ErrNoSearchPath is returned when the loaded config names no search
// directories or bookmarks at all.
var ErrNoSearchPath = errors.New("config: no search_dirs or bookmarks configured")

// ErrNoValidSearchPath is returned when directories were named but none
// of them resolved to a real, readable path.
var ErrNoValidSearchPath = errors.New("config: none of the configured search_dirs or bookmarks resolved to a valid path")

// SortOrder selects how the picker orders a completed item set.
type SortOrder string

const (
	SortAlphabetical SortOrder = "alphabetical"
	SortLastAttached  SortOrder = "last_attached"
	SortFrecency      SortOrder = "frecency"
)

// CloneMethod selects the transport a remote profile clones over.
type CloneMethod string

const (
	CloneSSH   CloneMethod = "ssh"
	CloneHTTPS CloneMethod = "https"
)

// SearchDir names one root of the discovery walk and its depth budget.
type SearchDir struct {
	Path  string `yaml:"path"`
	Depth int    `yaml:"depth"`
}

// RemoteProfile names one remote catalogue source.
type RemoteProfile struct {
	Name              string      `yaml:"name"`
	CredentialCommand string      `yaml:"credential_command"`
	CloneRoot         string      `yaml:"clone_root"`
	CloneMethod       CloneMethod `yaml:"clone_method,omitempty"`
}

// Config is the full recognized option set.
type Config struct {
	SearchDirs               []SearchDir     `yaml:"search_dirs"`
	ExcludedDirs             []string        `yaml:"excluded_dirs"`
	Bookmarks                []string        `yaml:"bookmarks"`
	DisplayFullPath          bool            `yaml:"display_full_path"`
	SearchSubmodules         bool            `yaml:"search_submodules"`
	RecursiveSubmodules      bool            `yaml:"recursive_submodules"`
	SessionSortOrder         SortOrder       `yaml:"session_sort_order"`
	VcsProviders             []string        `yaml:"vcs_providers"`
	RemoteProfiles           []RemoteProfile `yaml:"remote_profiles"`
	RemoteCacheTTLHours      int             `yaml:"remote_cache_ttl_hours"`
	LocalCacheTTLHours       int             `yaml:"local_cache_ttl_hours"`
	PickerSwitchModeKey      string          `yaml:"picker_switch_mode_key"`
	PickerRefreshKey         string          `yaml:"picker_refresh_key"`
}

// Defaults returns the zero-value config with every default filled in.
func Defaults() Config {
	return Config{
		SessionSortOrder:    SortAlphabetical,
		VcsProviders:        []string{"git"},
		RemoteCacheTTLHours: 720,
		LocalCacheTTLHours:  24,
		PickerSwitchModeKey: "tab",
		PickerRefreshKey:    "f5",
	}
}

// Load reads a config document from path. A missing file is not an
// error: it yields Defaults(). A corrupt file is reported via the
// returned error so the caller can decide startup disposition.
func Load(path string) (Config, error) {
	cfg := Defaults()
	status, err := cacheio.Read(path, &cfg)
	switch status {
	case cacheio.StatusAbsent:
		return Defaults(), nil
	case cacheio.StatusCorrupt:
		return Config{}, fmt.Errorf("config: %s is not a valid configuration document: %w", path, err)
	}
	if cfg.SessionSortOrder == "" {
		cfg.SessionSortOrder = SortAlphabetical
	}
	if len(cfg.VcsProviders) == 0 {
		cfg.VcsProviders = []string{"git"}
	}
	if cfg.PickerSwitchModeKey == "" {
		cfg.PickerSwitchModeKey = "tab"
	}
	if cfg.PickerRefreshKey == "" {
		cfg.PickerRefreshKey = "f5"
	}
	return cfg, nil
}

// ResolveSearchRoots canonicalizes and deduplicates the configured
// search_dirs, keeping the larger depth budget for any path listed
// twice. Unresolvable entries are dropped, not fatal.
func (c Config) ResolveSearchRoots() []domain.SearchRoot {
	byPath := make(map[string]int)
	order := make([]string, 0, len(c.SearchDirs))

	for _, sd := range c.SearchDirs {
		resolved, err := pathutil.Canonicalize(sd.Path)
		if err != nil {
			continue
		}
		if depth, ok := byPath[resolved]; !ok {
			byPath[resolved] = sd.Depth
			order = append(order, resolved)
		} else if sd.Depth > depth {
			byPath[resolved] = sd.Depth
		}
	}

	sort.Strings(order)
	roots := make([]domain.SearchRoot, 0, len(order))
	for _, p := range order {
		roots = append(roots, domain.SearchRoot{Path: p, DepthBudget: byPath[p]})
	}
	return roots
}

// ResolveBookmarks canonicalizes the configured bookmark paths,
// dropping any that fail to resolve.
func (c Config) ResolveBookmarks() []string {
	out := make([]string, 0, len(c.Bookmarks))
	for _, b := range c.Bookmarks {
		resolved, err := pathutil.Canonicalize(b)
		if err != nil {
			continue
		}
		out = append(out, resolved)
	}
	return out
}

// Validate enforces the startup requirement that at least one
// search_dirs/bookmarks entry is present, and at least one of them
// resolves.
func (c Config) Validate() error {
	if len(c.SearchDirs) == 0 && len(c.Bookmarks) == 0 {
		return ErrNoSearchPath
	}
	if len(c.ResolveSearchRoots()) == 0 && len(c.ResolveBookmarks()) == 0 {
		return ErrNoValidSearchPath
	}
	return nil
}
