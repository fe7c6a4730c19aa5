package picker

import (
	"path/filepath"
	"strings"

	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

// LocalSet accumulates Local-mode session items and keeps their visible
// names disambiguated: when two primary repositories share a basename,
// each is renamed by appending the minimum number of
// parent-path segments (from the right) needed to make the group
// unique. Re-disambiguation runs on every new arrival, not just once
// over a finished batch, since a streaming presenter can't assume the
// set is complete when a collision first appears.
type LocalSet struct {
	displayFullPath bool

	items      []domain.SessionItem
	byBasename map[string][]int
}

// NewLocalSet constructs an empty set. displayFullPath mirrors the
// display_full_path configuration flag; when set, names are always the
// full canonical path, which is already unique, so no collision
// bookkeeping is needed.
func NewLocalSet(displayFullPath bool) *LocalSet {
	return &LocalSet{
		displayFullPath: displayFullPath,
		byBasename:      make(map[string][]int),
	}
}

// Add appends repo to the set, resolving any basename collision it
// introduces, and returns the full, current item slice in arrival
// order with up-to-date visible names.
func (s *LocalSet) Add(repo domain.Repository) []domain.SessionItem {
	idx := len(s.items)
	visible := filepath.Base(repo.AbsolutePath)
	if s.displayFullPath {
		visible = repo.AbsolutePath
	}
	s.items = append(s.items, domain.SessionItem{VisibleName: visible, Repo: repo})

	if !s.displayFullPath {
		base := filepath.Base(repo.AbsolutePath)
		s.byBasename[base] = append(s.byBasename[base], idx)
		if group := s.byBasename[base]; len(group) > 1 {
			s.resolveGroup(group)
		}
	}

	return s.Items()
}

// Items returns the current item set in arrival order.
func (s *LocalSet) Items() []domain.SessionItem {
	out := make([]domain.SessionItem, len(s.items))
	copy(out, s.items)
	return out
}

// Reset discards every item, used on a mode switch so no Local-mode
// item leaks into the next Local-mode session.
func (s *LocalSet) Reset() {
	s.items = nil
	s.byBasename = make(map[string][]int)
}

func (s *LocalSet) resolveGroup(indices []int) {
	segsByIndex := make([][]string, len(indices))
	maxLen := 0
	for i, idx := range indices {
		segsByIndex[i] = strings.Split(filepath.ToSlash(s.items[idx].Repo.AbsolutePath), "/")
		if len(segsByIndex[i]) > maxLen {
			maxLen = len(segsByIndex[i])
		}
	}

	for k := 1; k <= maxLen; k++ {
		candidates := make([]string, len(indices))
		seen := make(map[string]int, len(indices))
		unique := true
		for i, segs := range segsByIndex {
			start := len(segs) - 1 - k
			if start < 0 {
				start = 0
			}
			candidates[i] = strings.Join(segs[start:], "/")
			seen[candidates[i]]++
		}
		for _, count := range seen {
			if count > 1 {
				unique = false
				break
			}
		}
		if unique || k == maxLen {
			for i, idx := range indices {
				s.items[idx].VisibleName = candidates[i]
			}
			return
		}
	}
}
