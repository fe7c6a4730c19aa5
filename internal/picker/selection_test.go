package picker

import "testing"

func TestSelectionAutoSelectsFirstOnFirstMove(t *testing.T) {
	var s selection
	s.moveUp(3)
	if idx, ok := s.selected(); !ok || idx != 0 {
		t.Fatalf("selected=(%d,%v), want (0,true)", idx, ok)
	}
}

func TestMoveUpWrapsToStartAtEnd(t *testing.T) {
	var s selection
	s.moveUp(2) // selects 0
	s.moveUp(2) // advances to 1 (max)
	if idx, _ := s.selected(); idx != 1 {
		t.Fatalf("idx=%d, want 1", idx)
	}
	s.moveUp(2) // wraps to 0
	if idx, _ := s.selected(); idx != 0 {
		t.Fatalf("idx=%d, want 0 after wrap", idx)
	}
}

func TestMoveDownWrapsToEndAtStart(t *testing.T) {
	var s selection
	s.moveDown(3) // selects 0
	s.moveDown(3) // wraps to count-1
	if idx, _ := s.selected(); idx != 2 {
		t.Fatalf("idx=%d, want 2 after wrap", idx)
	}
}

func TestClampToShrinksOutOfRangeSelection(t *testing.T) {
	var s selection
	s.moveUp(5)
	s.idx = 4
	s.clampTo(2)
	if idx, _ := s.selected(); idx != 1 {
		t.Fatalf("idx=%d, want 1 (count-1) after clamp", idx)
	}
}

func TestClampToZeroClearsSelection(t *testing.T) {
	var s selection
	s.moveUp(3)
	s.clampTo(0)
	if _, ok := s.selected(); ok {
		t.Fatal("expected no selection once the matched set is empty")
	}
}

func TestPageUpClampsToMax(t *testing.T) {
	s := selection{pageLen: 3}
	s.moveUp(10) // select 0
	s.pageUp(10)
	if idx, _ := s.selected(); idx != 3 {
		t.Fatalf("idx=%d, want 3", idx)
	}
	s.pageUp(10)
	s.pageUp(10)
	s.pageUp(10)
	if idx, _ := s.selected(); idx != 9 {
		t.Fatalf("idx=%d, want clamped to 9 (count-1)", idx)
	}
}

func TestPageDownClampsToZero(t *testing.T) {
	s := selection{pageLen: 3}
	s.idx = 2
	s.hasSel = true
	s.pageDown(10)
	if idx, _ := s.selected(); idx != 0 {
		t.Fatalf("idx=%d, want 0", idx)
	}
}
