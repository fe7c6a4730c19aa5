package discovery

import (
	"sync"
	"sync/atomic"
)

// Stats holds the scan's diagnostic counters. They drive the
// termination policy but are never part of the output stream.
type Stats struct {
	dirsVisited     int64
	dirsExcluded    int64
	markersMatched  int64
	emitted         int64
	openFailed      int64
	openTimeNanos   int64

	mu      sync.Mutex
	rootErr error
}

func (s *Stats) incDirsVisited()          { atomic.AddInt64(&s.dirsVisited, 1) }
func (s *Stats) incDirsExcluded()         { atomic.AddInt64(&s.dirsExcluded, 1) }
func (s *Stats) incMarkersMatched()       { atomic.AddInt64(&s.markersMatched, 1) }
func (s *Stats) incEmitted()              { atomic.AddInt64(&s.emitted, 1) }
func (s *Stats) incOpenFailed()           { atomic.AddInt64(&s.openFailed, 1) }
func (s *Stats) addOpenTime(nanos int64)  { atomic.AddInt64(&s.openTimeNanos, nanos) }

// DirsVisited is the number of directories whose children the scan
// tried to enumerate, counting reads that failed.
func (s *Stats) DirsVisited() int64 { return atomic.LoadInt64(&s.dirsVisited) }

// DirsExcluded is the number of directories skipped by exclusion or the
// fast-skip list.
func (s *Stats) DirsExcluded() int64 { return atomic.LoadInt64(&s.dirsExcluded) }

// MarkersMatched is the number of repository-marker probes that hit.
func (s *Stats) MarkersMatched() int64 { return atomic.LoadInt64(&s.markersMatched) }

// Emitted is the number of Repository records sent to the output channel.
func (s *Stats) Emitted() int64 { return atomic.LoadInt64(&s.emitted) }

// OpenFailed is the number of marker hits that failed to classify.
func (s *Stats) OpenFailed() int64 { return atomic.LoadInt64(&s.openFailed) }

// recordRootErr notes a failed directory read on one of the original
// search roots. The first failure wins; later ones are still logged by
// the worker that saw them.
func (s *Stats) recordRootErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rootErr == nil {
		s.rootErr = err
	}
}

// RootErr returns the error from the first original search root whose
// directory read failed, or nil. Non-root read failures and
// permission-denied roots are logged and skipped instead of reported
// here.
func (s *Stats) RootErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rootErr
}
