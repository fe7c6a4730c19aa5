// Package frecency implements the combined frequency-and-recency
// scorer: a thin, read-mostly view over the state store plus the sort
// routine used when session_sort_order is "frecency".
package frecency

import (
	"sort"

	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
	"github.com/alisonjenkins/tmux-sessionizer/internal/state"
)

// Scorer reads and records frecency through a state.Store.
type Scorer struct {
	store *state.Store
}

// New wraps a state.Store as a Scorer.
func New(store *state.Store) *Scorer {
	return &Scorer{store: store}
}

// Score returns 0 for unknown names, and the decayed access-count
// score otherwise.
func (s *Scorer) Score(name string) float64 {
	return s.store.Score(name)
}

// RecordSelection is called on every successful selection.
func (s *Scorer) RecordSelection(name string) error {
	return s.store.RecordAccess(name)
}

// SortByFrecency sorts a complete item set by descending score, ties
// broken by insertion (original slice) order. Only used with
// "frecency" sort order, where the picker buffers streaming ingestion
// until the discovery stream closes so the sort is stable over the
// whole set.
func SortByFrecency(items []domain.SessionItem, scorer *Scorer) []domain.SessionItem {
	type scored struct {
		item  domain.SessionItem
		score float64
	}
	decorated := make([]scored, len(items))
	for i, item := range items {
		decorated[i] = scored{item: item, score: scorer.Score(item.VisibleName)}
	}

	sort.SliceStable(decorated, func(i, j int) bool {
		return decorated[i].score > decorated[j].score
	})

	out := make([]domain.SessionItem, len(decorated))
	for i, d := range decorated {
		out[i] = d.item
	}
	return out
}
