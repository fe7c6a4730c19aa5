package picker

// selection tracks the cursor into the current matched-item list.
// Moves wrap at the ends; pages clamp.
type selection struct {
	idx     int
	hasSel  bool
	pageLen int
}

func (s *selection) clampTo(count int) {
	if count == 0 {
		s.hasSel = false
		s.idx = 0
		return
	}
	if !s.hasSel {
		s.hasSel = true
		s.idx = 0
		return
	}
	if s.idx >= count {
		s.idx = count - 1
	}
}

func (s *selection) selected() (int, bool) { return s.idx, s.hasSel }

func (s *selection) moveUp(count int) {
	if count == 0 {
		return
	}
	if !s.hasSel {
		s.hasSel = true
		s.idx = 0
		return
	}
	if s.idx >= count-1 {
		s.idx = 0
		return
	}
	s.idx++
}

func (s *selection) moveDown(count int) {
	if count == 0 {
		return
	}
	if !s.hasSel {
		s.hasSel = true
		s.idx = 0
		return
	}
	if s.idx == 0 {
		s.idx = count - 1
		return
	}
	s.idx--
}

func (s *selection) pageUp(count int) {
	if count == 0 {
		return
	}
	if !s.hasSel {
		s.hasSel = true
		s.idx = 0
		return
	}
	n := s.idx + s.pageSize()
	if n > count-1 {
		n = count - 1
	}
	s.idx = n
}

func (s *selection) pageDown(count int) {
	if count == 0 {
		return
	}
	if !s.hasSel {
		s.hasSel = true
		s.idx = 0
		return
	}
	n := s.idx - s.pageSize()
	if n < 0 {
		n = 0
	}
	s.idx = n
}

func (s *selection) pageSize() int {
	if s.pageLen <= 0 {
		return defaultPageSize
	}
	return s.pageLen
}
