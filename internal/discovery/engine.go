// Package discovery implements the streaming, concurrent repository
// scan: a pool of workers sharing a LIFO work stack, pruning by a
// fast-skip list and an Aho-Corasick exclusion matcher, stopping under
// a time-and-yield policy rather than a pure count.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

const maxWorkers = 64

// Options configures one discovery run.
type Options struct {
	Roots               []domain.SearchRoot
	Bookmarks           []string
	ExcludePatterns     []string
	VcsProviders        []string
	SearchSubmodules    bool
	RecursiveSubmodules bool
	Limits              Limits
	WorkerCount         int
}

func (o Options) workerCount() int {
	if o.WorkerCount > 0 {
		return o.WorkerCount
	}
	n := runtime.NumCPU()
	if n < 4 {
		n = 4
	}
	if n > maxWorkers {
		n = maxWorkers
	}
	return n
}

// Run starts a discovery scan and returns its output stream and live
// stats. The stream closes once every worker has exited, whether from
// queue exhaustion, early termination, or ctx cancellation. A worker
// blocked sending on the returned channel waits until the channel is
// read or ctx is done; early termination does not release it. A caller
// that stops reading before the channel closes must cancel ctx, or the
// workers stay blocked.
func Run(ctx context.Context, opts Options) (<-chan domain.Repository, *Stats) {
	out := make(chan domain.Repository, 64)
	stats := &Stats{}
	opts.Limits = opts.Limits.orDefault()
	stack := newWorkStack()
	probes := resolveProviders(opts.VcsProviders)
	excluder := newExcludeMatcher(opts.ExcludePatterns)

	emitted := newEmittedSet()

	for _, root := range opts.Roots {
		stack.push(workItem{path: root.Path, depth: root.DepthBudget, isRoot: true})
	}
	for _, bm := range opts.Bookmarks {
		stack.push(workItem{path: bm, depth: 0, isBookmark: true})
	}

	startedAt := time.Now()
	var wg sync.WaitGroup
	n := opts.workerCount()
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			worker(ctx, stack, out, stats, excluder, probes, opts, emitted, startedAt)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(out)
		close(done)
	}()

	go watchCancellation(ctx, done, stack)

	return out, stats
}

func watchCancellation(ctx context.Context, done <-chan struct{}, stack *workStack) {
	select {
	case <-ctx.Done():
		stack.stop()
	case <-done:
	}
}

func worker(
	ctx context.Context,
	stack *workStack,
	out chan<- domain.Repository,
	stats *Stats,
	excluder *excludeMatcher,
	probes []vcsProbe,
	opts Options,
	emitted *emittedSet,
	startedAt time.Time,
) {
	for {
		if ctx.Err() != nil {
			return
		}
		if opts.Limits.shouldStop(stats, startedAt) {
			stack.stop()
			return
		}

		item, ok := stack.popOrExit()
		if !ok {
			return
		}

		process(ctx, item, stack, out, stats, excluder, probes, opts, emitted)
		stack.done()
	}
}

func process(
	ctx context.Context,
	item workItem,
	stack *workStack,
	out chan<- domain.Repository,
	stats *Stats,
	excluder *excludeMatcher,
	probes []vcsProbe,
	opts Options,
	emitted *emittedSet,
) {
	if !item.isBookmark && excluder.match(item.path) {
		stats.incDirsExcluded()
		return
	}

	if item.isBookmark {
		if emitted.claim(item.path) {
			if !send(ctx, out, domain.Repository{
				DisplayName:  filepath.Base(item.path),
				AbsolutePath: item.path,
				Kind:         domain.KindBookmark,
			}) {
				return
			}
			stats.incEmitted()
		}
	} else {
		classifyAndEmit(ctx, item.path, out, stats, probes, opts, emitted)
	}

	if item.depth <= 0 {
		return
	}

	stats.incDirsVisited()
	entries, err := os.ReadDir(item.path)
	if err != nil {
		logDirError(item, err)
		if item.isRoot && !errors.Is(err, fs.ErrPermission) {
			stats.recordRootErr(fmt.Errorf("discovery: reading search root %s: %w", item.path, err))
		}
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if isFastSkip(name) {
			stats.incDirsExcluded()
			continue
		}
		if strings.HasPrefix(name, ".") {
			continue
		}
		childPath := filepath.Join(item.path, name)
		if excluder.match(childPath) {
			stats.incDirsExcluded()
			continue
		}
		stack.push(workItem{path: childPath, depth: item.depth - 1})
	}
}

func classifyAndEmit(
	ctx context.Context,
	path string,
	out chan<- domain.Repository,
	stats *Stats,
	probes []vcsProbe,
	opts Options,
	emitted *emittedSet,
) {
	var result probeResult
	matched := false
	for _, probe := range probes {
		start := time.Now()
		r := probe(path)
		stats.addOpenTime(int64(time.Since(start)))
		if r.found {
			result = r
			matched = true
			break
		}
	}
	if !matched {
		return
	}
	stats.incMarkersMatched()

	if result.openErr {
		stats.incOpenFailed()
		return
	}
	if result.worktree {
		return
	}
	if !emitted.claim(path) {
		return
	}

	if !send(ctx, out, domain.Repository{
		DisplayName:  filepath.Base(path),
		AbsolutePath: path,
		Kind:         domain.KindPrimary,
	}) {
		return
	}
	stats.incEmitted()

	if !opts.SearchSubmodules {
		return
	}
	emitSubmodules(ctx, path, filepath.Base(path), out, stats, opts, emitted, 0)
}

func emitSubmodules(
	ctx context.Context,
	repoPath, visibleName string,
	out chan<- domain.Repository,
	stats *Stats,
	opts Options,
	emitted *emittedSet,
	depth int,
) {
	for _, rel := range listSubmodulePaths(repoPath) {
		childPath := filepath.Join(repoPath, rel)
		if _, err := os.Stat(childPath); err != nil {
			continue
		}
		if !emitted.claim(childPath) {
			continue
		}
		childName := visibleName + ">" + filepath.Base(rel)
		if !send(ctx, out, domain.Repository{
			DisplayName:  childName,
			AbsolutePath: childPath,
			Kind:         domain.KindPrimary,
		}) {
			return
		}
		stats.incEmitted()

		if opts.RecursiveSubmodules && depth < 32 {
			emitSubmodules(ctx, childPath, childName, out, stats, opts, emitted, depth+1)
		}
	}
}

func send(ctx context.Context, out chan<- domain.Repository, repo domain.Repository) bool {
	select {
	case out <- repo:
		return true
	case <-ctx.Done():
		return false
	}
}

func logDirError(item workItem, err error) {
	if errors.Is(err, fs.ErrPermission) {
		log.Printf("discovery: permission denied reading %s, skipping", item.path)
		return
	}
	log.Printf("discovery: error reading %s: %v, skipping", item.path, err)
}

// emittedSet guarantees each canonical absolute path is emitted at most
// once per run. Basename collision resolution is the presenter's job,
// not this one.
type emittedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newEmittedSet() *emittedSet {
	return &emittedSet{seen: make(map[string]struct{})}
}

// claim reports true the first time path is seen, false on any later
// call for the same path.
func (e *emittedSet) claim(path string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.seen[path]; ok {
		return false
	}
	e.seen[path] = struct{}{}
	return true
}
