package discovery

import "sync"

// workItem is one entry on the discovery work stack. isRoot marks the
// original search roots, whose read failures propagate to the caller
// instead of being logged and skipped.
type workItem struct {
	path       string
	depth      int
	isBookmark bool
	isRoot     bool
}

// workStack is the shared LIFO work queue: a single mutex-protected
// stack plus an in-flight counter, with a condition variable so idle
// workers park instead of busy-polling. A worker may exit once the
// stack is empty and no task is in flight.
type workStack struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []workItem
	inFlight int
	stopped bool
}

func newWorkStack() *workStack {
	s := &workStack{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *workStack) push(item workItem) {
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()
	s.cond.Broadcast()
}

// popOrExit blocks until work is available, the queue is drained with
// nothing in flight, or stop() has been called. ok is false in the
// latter two cases.
func (s *workStack) popOrExit() (item workItem, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if s.stopped {
			return workItem{}, false
		}
		if n := len(s.items); n > 0 {
			item = s.items[n-1]
			s.items = s.items[:n-1]
			s.inFlight++
			return item, true
		}
		if s.inFlight == 0 {
			return workItem{}, false
		}
		s.cond.Wait()
	}
}

// done marks one in-flight item as finished, waking any parked workers
// so they can observe a possibly-now-empty, possibly-now-idle stack.
func (s *workStack) done() {
	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
	s.cond.Broadcast()
}

// stop halts every worker's popOrExit immediately, used by early
// termination and cancellation.
func (s *workStack) stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cond.Broadcast()
}
