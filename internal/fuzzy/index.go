// Package fuzzy implements the picker's incremental match index: a
// growable, case-insensitive corpus over which a fuzzy
// pattern can be evaluated without blocking the event loop on a large
// corpus. It wraps github.com/sahilm/fuzzy, the same matcher
// charmbracelet/bubbles pulls in for its own list filtering.
package fuzzy

import (
	"github.com/sahilm/fuzzy"

	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

// quantum bounds how many corpus entries a single Tick re-matches
// against the current pattern, so the picker's event loop never stalls
// on a single iteration regardless of corpus size.
const quantum = 512

// Index is a growable, incremental fuzzy matcher. It is not safe for
// concurrent use from more than one goroutine; the picker's event loop
// is single-threaded cooperative and owns it exclusively.
type Index struct {
	items   []domain.SessionItem
	pattern string

	matched    []int
	nextUnscanned int
	dirty      bool
}

// New constructs an empty Index.
func New() *Index {
	return &Index{}
}

// Push appends item to the corpus. It does not itself re-run matching;
// the caller advances the index via Tick.
func (idx *Index) Push(item domain.SessionItem) {
	idx.items = append(idx.items, item)
	idx.dirty = true
}

// SetPattern changes the active filter text, invalidating any prior
// match result and forcing a full rescan on the next Tick.
func (idx *Index) SetPattern(text string) {
	if text == idx.pattern {
		return
	}
	idx.pattern = text
	idx.matched = nil
	idx.nextUnscanned = 0
	idx.dirty = true
}

// Len reports the total corpus size regardless of match state.
func (idx *Index) Len() int { return len(idx.items) }

// All returns the full corpus in insertion order, regardless of the
// active pattern. Used to preserve a mode's complete item set across a
// failed switch, where Snapshot would only capture the currently
// matching subset.
func (idx *Index) All() []domain.SessionItem {
	out := make([]domain.SessionItem, len(idx.items))
	copy(out, idx.items)
	return out
}

// Reset discards the entire corpus and match state, used on a mode
// switch so no item from the previous mode survives into the new
// matcher.
func (idx *Index) Reset() {
	idx.items = nil
	idx.matched = nil
	idx.nextUnscanned = 0
	idx.dirty = false
	pattern := idx.pattern
	idx.pattern = ""
	if pattern != "" {
		idx.pattern = pattern
		idx.dirty = true
	}
}

// Tick performs one bounded quantum of matching work and reports
// whether it may have changed the result (a cheap, conservative signal
// the picker uses to decide whether to re-render).
func (idx *Index) Tick() bool {
	if !idx.dirty {
		return false
	}

	if idx.pattern == "" {
		idx.matched = identity(len(idx.items))
		idx.nextUnscanned = len(idx.items)
		idx.dirty = false
		return true
	}

	end := idx.nextUnscanned + quantum
	if end > len(idx.items) {
		end = len(idx.items)
	}
	if idx.nextUnscanned >= len(idx.items) {
		idx.dirty = false
		return false
	}

	chunk := idx.items[idx.nextUnscanned:end]
	source := sessionSource(chunk)
	results := fuzzy.FindFrom(idx.pattern, source)

	for _, r := range results {
		idx.matched = append(idx.matched, idx.nextUnscanned+r.Index)
	}
	idx.nextUnscanned = end

	if idx.nextUnscanned >= len(idx.items) {
		idx.dirty = false
		idx.resort()
	}
	return true
}

// resort re-ranks the accumulated matched indices by fuzzy score
// against the full pattern, ties broken by insertion order. Re-running
// the scorer over the whole matched set (rather than trusting each
// chunk's local order) keeps ranking stable as chunks from different
// ticks are merged.
func (idx *Index) resort() {
	if len(idx.matched) == 0 {
		return
	}
	names := make([]string, len(idx.matched))
	for i, mi := range idx.matched {
		names[i] = idx.items[mi].VisibleName
	}
	scored := fuzzy.Find(idx.pattern, names)

	reordered := make([]int, 0, len(idx.matched))
	for _, m := range scored {
		reordered = append(reordered, idx.matched[m.Index])
	}
	idx.matched = reordered
}

// Snapshot returns the current match state: how many of the corpus
// matched, the total corpus size, and the matched items in rank order.
func (idx *Index) Snapshot() (matchedCount, totalCount int, items []domain.SessionItem) {
	totalCount = len(idx.items)
	if idx.pattern == "" {
		items = make([]domain.SessionItem, len(idx.items))
		copy(items, idx.items)
		return len(idx.items), totalCount, items
	}

	items = make([]domain.SessionItem, len(idx.matched))
	for i, mi := range idx.matched {
		items[i] = idx.items[mi]
	}
	return len(idx.matched), totalCount, items
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// sessionSource adapts a SessionItem slice to fuzzy.Source without
// allocating an intermediate []string.
type sessionSource []domain.SessionItem

func (s sessionSource) String(i int) string { return s[i].VisibleName }
func (s sessionSource) Len() int            { return len(s) }
