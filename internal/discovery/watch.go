package discovery

import (
	"github.com/fsnotify/fsnotify"

	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

// RootWatcher watches the top level of every configured search root for
// directory creation/removal (a new project checked out, one removed)
// and debounces those into a single "caches may be stale" signal. It
// does not watch recursively: the discovery engine itself already owns
// bounded-depth traversal, so this only needs to notice churn at the
// roots the orchestrator seeded the work queue with.
type RootWatcher struct {
	w       *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}
}

// NewRootWatcher starts watching the given roots. A root that cannot be
// watched (removed, permission denied) is skipped rather than failing
// the whole watcher, matching discovery's own "log and skip" posture
// toward inaccessible directories.
func NewRootWatcher(roots []domain.SearchRoot) (*RootWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, r := range roots {
		_ = fsw.Add(r.Path)
	}

	rw := &RootWatcher{
		w:       fsw,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go rw.loop()
	return rw, nil
}

func (rw *RootWatcher) loop() {
	for {
		select {
		case _, ok := <-rw.w.Events:
			if !ok {
				return
			}
			rw.signal()
		case _, ok := <-rw.w.Errors:
			if !ok {
				return
			}
		case <-rw.done:
			return
		}
	}
}

// signal coalesces bursts of events (a git clone touches many paths in
// quick succession) into at most one pending notification.
func (rw *RootWatcher) signal() {
	select {
	case rw.changed <- struct{}{}:
	default:
	}
}

// Changed reports when a watched root's top level has changed since the
// last time it fired. Reading it never blocks past the next event.
func (rw *RootWatcher) Changed() <-chan struct{} { return rw.changed }

// Close stops the watcher. Safe to call once.
func (rw *RootWatcher) Close() error {
	close(rw.done)
	return rw.w.Close()
}
