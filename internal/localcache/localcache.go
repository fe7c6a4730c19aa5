// Package localcache persists the local-scan snapshot and decides when
// it may be reused in place of a fresh discovery run: both the
// search_roots and bookmarks snapshots must equal the live
// configuration, and the snapshot must be no older than the configured
// TTL. Documents go through the same cacheio atomic-document layer the
// remote cache and state store use.
package localcache

import (
	"reflect"
	"time"

	"github.com/alisonjenkins/tmux-sessionizer/internal/cacheio"
	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

// record is the on-disk shape of a local scan snapshot
// ("<cache>/local").
type record struct {
	SearchRootsSnapshot []domain.SearchRoot `yaml:"search_roots_snapshot"`
	BookmarksSnapshot   []string            `yaml:"bookmarks_snapshot"`
	EmittedAtUnix       int64               `yaml:"emitted_at_unix"`
	Items               []cachedRepository  `yaml:"items"`
}

type cachedRepository struct {
	DisplayName  string `yaml:"display_name"`
	AbsolutePath string `yaml:"absolute_path"`
	Kind         int    `yaml:"kind"`
}

// Load returns the cached items at path if, and only if, both snapshots
// match the live configuration and the cache is within ttl of now. Any
// other outcome (absent, corrupt, stale, mismatched config) returns
// ok == false so the caller falls through to a fresh scan.
func Load(path string, roots []domain.SearchRoot, bookmarks []string, ttl time.Duration, now time.Time) ([]domain.Repository, bool) {
	var rec record
	status, err := cacheio.Read(path, &rec)
	if status != cacheio.StatusPresent || err != nil {
		return nil, false
	}
	if ttl <= 0 || now.Sub(time.Unix(rec.EmittedAtUnix, 0)) > ttl {
		return nil, false
	}
	if !snapshotsEqual(rec.SearchRootsSnapshot, roots) || !reflect.DeepEqual(rec.BookmarksSnapshot, bookmarks) {
		return nil, false
	}
	return fromCached(rec.Items), true
}

// Save persists the current set of discovered-or-bookmarked items as
// the new local scan snapshot.
func Save(path string, roots []domain.SearchRoot, bookmarks []string, items []domain.Repository, now time.Time) error {
	rec := record{
		SearchRootsSnapshot: append([]domain.SearchRoot(nil), roots...),
		BookmarksSnapshot:   append([]string(nil), bookmarks...),
		EmittedAtUnix:       now.Unix(),
		Items:               toCached(items),
	}
	return cacheio.Write(path, rec)
}

func snapshotsEqual(a, b []domain.SearchRoot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func toCached(items []domain.Repository) []cachedRepository {
	out := make([]cachedRepository, 0, len(items))
	for _, it := range items {
		out = append(out, cachedRepository{
			DisplayName:  it.DisplayName,
			AbsolutePath: it.AbsolutePath,
			Kind:         int(it.Kind),
		})
	}
	return out
}

func fromCached(items []cachedRepository) []domain.Repository {
	out := make([]domain.Repository, 0, len(items))
	for _, it := range items {
		out = append(out, domain.Repository{
			DisplayName:  it.DisplayName,
			AbsolutePath: it.AbsolutePath,
			Kind:         domain.RepoKind(it.Kind),
		})
	}
	return out
}
