package picker

import (
	"sort"

	"github.com/alisonjenkins/tmux-sessionizer/internal/config"
	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
	"github.com/alisonjenkins/tmux-sessionizer/internal/frecency"
	"github.com/alisonjenkins/tmux-sessionizer/internal/state"
)

// sortItems orders a complete item set for presentation per the
// configured sort order. Only "frecency" requires its callers to have
// buffered ingestion until the set was complete; this function itself
// is a pure reorder applied at every full-set rebuild so alphabetical
// and last_attached orders are consistent too.
func sortItems(items []domain.SessionItem, order config.SortOrder, scorer *frecency.Scorer, store *state.Store) []domain.SessionItem {
	switch order {
	case config.SortFrecency:
		return frecency.SortByFrecency(items, scorer)
	case config.SortLastAttached:
		out := make([]domain.SessionItem, len(items))
		copy(out, items)
		sort.SliceStable(out, func(i, j int) bool {
			return store.GetFrecency(out[i].VisibleName).LastSeenUnix > store.GetFrecency(out[j].VisibleName).LastSeenUnix
		})
		return out
	default:
		out := make([]domain.SessionItem, len(items))
		copy(out, items)
		sort.SliceStable(out, func(i, j int) bool { return out[i].VisibleName < out[j].VisibleName })
		return out
	}
}
