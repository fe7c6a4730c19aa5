package fuzzy

import (
	"testing"

	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

func drain(idx *Index) {
	for idx.Tick() {
	}
}

func TestEmptyPatternMatchesEverything(t *testing.T) {
	idx := New()
	idx.Push(domain.SessionItem{VisibleName: "alpha"})
	idx.Push(domain.SessionItem{VisibleName: "beta"})
	drain(idx)

	matched, total, items := idx.Snapshot()
	if matched != 2 || total != 2 || len(items) != 2 {
		t.Fatalf("got matched=%d total=%d items=%d, want 2/2/2", matched, total, len(items))
	}
}

func TestPatternFiltersNonMatches(t *testing.T) {
	idx := New()
	idx.Push(domain.SessionItem{VisibleName: "tmux-sessionizer"})
	idx.Push(domain.SessionItem{VisibleName: "unrelated"})
	idx.SetPattern("tms")
	drain(idx)

	_, _, items := idx.Snapshot()
	if len(items) != 1 || items[0].VisibleName != "tmux-sessionizer" {
		t.Fatalf("got %+v, want exactly tmux-sessionizer", items)
	}
}

func TestSetPatternInvalidatesPriorResult(t *testing.T) {
	idx := New()
	idx.Push(domain.SessionItem{VisibleName: "alpha"})
	idx.SetPattern("alpha")
	drain(idx)
	if matched, _, _ := idx.Snapshot(); matched != 1 {
		t.Fatalf("got %d matches, want 1", matched)
	}

	idx.SetPattern("nomatch-zzz")
	drain(idx)
	if matched, _, _ := idx.Snapshot(); matched != 0 {
		t.Fatalf("got %d matches after pattern change, want 0", matched)
	}
}

func TestTickBoundsWorkPerCall(t *testing.T) {
	idx := New()
	for i := 0; i < quantum*3; i++ {
		idx.Push(domain.SessionItem{VisibleName: "item"})
	}
	idx.SetPattern("item")

	ticks := 0
	for idx.Tick() {
		ticks++
		if ticks > quantum*3+2 {
			t.Fatal("Tick never converged")
		}
	}
	if ticks < 3 {
		t.Errorf("got %d ticks for %d items at quantum %d, want at least 3 (bounded work per tick)", ticks, quantum*3, quantum)
	}
}

func TestPushAfterConvergenceResumesIncrementally(t *testing.T) {
	idx := New()
	idx.Push(domain.SessionItem{VisibleName: "alpha"})
	idx.SetPattern("alpha")
	drain(idx)

	idx.Push(domain.SessionItem{VisibleName: "alphabet"})
	if !idx.Tick() {
		t.Fatal("expected Tick to report work after a new arrival")
	}
	drain(idx)

	matched, total, _ := idx.Snapshot()
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if matched != 2 {
		t.Fatalf("matched = %d, want 2 (both contain \"alpha\")", matched)
	}
}
