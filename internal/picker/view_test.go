package picker

import (
	"testing"

	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

func TestRenderItemLinesBottomUpKeepsBestMatchAdjacentToInput(t *testing.T) {
	items := []domain.SessionItem{{VisibleName: "best"}, {VisibleName: "worse"}}

	if got := renderItemLines(items, 0, false, false); got != "best\nworse" {
		t.Errorf("top-down = %q, want best first", got)
	}
	if got := renderItemLines(items, 0, false, true); got != "worse\nbest" {
		t.Errorf("bottom-up = %q, want best last (next to the input line)", got)
	}
}

func TestInputAnchorsAtBottomUnlessWideTwoPane(t *testing.T) {
	m := New(Deps{Store: testStore(t)})
	m.resize(200, 50)
	if !m.inputAtBottom() {
		t.Error("no preview configured: input should be bottom-anchored")
	}

	m.deps.Preview = func(domain.SessionItem) string { return "" }
	m.resize(200, 50)
	if m.inputAtBottom() {
		t.Error("wide two-pane preview layout should put the input at the top")
	}
	m.resize(80, 50)
	if !m.inputAtBottom() {
		t.Error("narrow preview layout should be bottom-anchored")
	}
}
