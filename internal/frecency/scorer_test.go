package frecency

import (
	"path/filepath"
	"testing"

	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
	"github.com/alisonjenkins/tmux-sessionizer/internal/state"
)

func TestSortByFrecencyOrdersDescendingByScore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	store := state.NewAtPath(path)
	scorer := New(store)

	items := []domain.SessionItem{
		{VisibleName: "rare"},
		{VisibleName: "frequent"},
		{VisibleName: "never"},
	}

	if err := scorer.RecordSelection("frequent"); err != nil {
		t.Fatal(err)
	}
	if err := scorer.RecordSelection("frequent"); err != nil {
		t.Fatal(err)
	}
	if err := scorer.RecordSelection("rare"); err != nil {
		t.Fatal(err)
	}

	sorted := SortByFrecency(items, scorer)

	if sorted[0].VisibleName != "frequent" {
		t.Errorf("sorted[0] = %q, want frequent", sorted[0].VisibleName)
	}
	if sorted[1].VisibleName != "rare" {
		t.Errorf("sorted[1] = %q, want rare", sorted[1].VisibleName)
	}
	if sorted[2].VisibleName != "never" {
		t.Errorf("sorted[2] = %q, want never", sorted[2].VisibleName)
	}
}

func TestSortByFrecencyStableOnTies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	store := state.NewAtPath(path)
	scorer := New(store)

	items := []domain.SessionItem{
		{VisibleName: "a"},
		{VisibleName: "b"},
		{VisibleName: "c"},
	}

	sorted := SortByFrecency(items, scorer)
	for i, it := range items {
		if sorted[i] != it {
			t.Errorf("expected stable order on ties, got %+v at %d, want %+v", sorted[i], i, it)
		}
	}
}
