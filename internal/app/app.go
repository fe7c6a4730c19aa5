// Package app is the orchestrator: it owns the immutable-for-the-run
// configuration, wires the discovery engine's output into the picker
// runtime, and drives materialization and persistence once the user
// has made (or declined) a selection. It is
// the only package that constructs every other package's concrete
// collaborators; everything downstream of it only ever sees the
// narrow interfaces (channels, function values) the components
// declare for themselves.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/alisonjenkins/tmux-sessionizer/internal/config"
	"github.com/alisonjenkins/tmux-sessionizer/internal/discovery"
	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
	"github.com/alisonjenkins/tmux-sessionizer/internal/frecency"
	"github.com/alisonjenkins/tmux-sessionizer/internal/localcache"
	"github.com/alisonjenkins/tmux-sessionizer/internal/picker"
	"github.com/alisonjenkins/tmux-sessionizer/internal/remote"
	"github.com/alisonjenkins/tmux-sessionizer/internal/session"
	"github.com/alisonjenkins/tmux-sessionizer/internal/state"
)

// AppName is the XDG leaf directory name and config-file stem shared by
// the state store, the local/remote caches, and the default config
// path.
const AppName = "tmux-sessionizer"

// ErrNotATerminal is returned when standard output is not attached to a
// terminal and the picker needs one to run interactively.
var ErrNotATerminal = errors.New("app: standard output is not a terminal; refusing to start the interactive picker")

// Options tunes one run of the orchestrator.
type Options struct {
	// ConfigPath, if empty, is resolved via config.FilePath.
	ConfigPath string
	// CopyPath mirrors the --copy-path flag.
	CopyPath bool
	// PostCreateScript mirrors the --post-create-script flag.
	PostCreateScript string
}

// Run wires discovery, persistence, and the picker runtime together and
// drives exactly one interactive session switch. A non-nil error here
// is always fatal-at-startup or post-selection (exit code 1 at the
// caller); everything recoverable inside the interactive loop becomes
// an Error overlay the picker's own event loop handles and never
// surfaces here.
func Run(ctx context.Context, opts Options) error {
	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		resolved, err := config.FilePath(AppName, "TMS_CONFIG_FILE")
		if err != nil {
			return fmt.Errorf("app: resolving config path: %w", err)
		}
		cfgPath = resolved
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotATerminal
	}

	dirs, err := state.ResolveDirs(AppName)
	if err != nil {
		return fmt.Errorf("app: resolving state/cache directories: %w", err)
	}
	if err := os.MkdirAll(dirs.CacheDir, 0o755); err != nil {
		return fmt.Errorf("app: cache directory %s is not writable: %w", dirs.CacheDir, err)
	}
	if err := os.MkdirAll(dirs.StateDir, 0o755); err != nil {
		return fmt.Errorf("app: state directory %s is not writable: %w", dirs.StateDir, err)
	}

	store := state.New(dirs)
	scorer := frecency.New(store)
	remoteClient := remote.New(dirs.RemoteCacheFile)

	roots := cfg.ResolveSearchRoots()
	bookmarks := cfg.ResolveBookmarks()

	tmux := session.ExecTmux{}
	deps := newPickerDeps(cfg, store, scorer, remoteClient, roots, bookmarks, dirs.LocalCacheFile())
	deps.Preview = func(item domain.SessionItem) string {
		return tmux.CapturePane(session.SanitizeName(item.VisibleName))
	}

	if watcher, err := discovery.NewRootWatcher(roots); err != nil {
		log.Printf("app: not watching search roots for changes: %v", err)
	} else {
		defer watcher.Close()
		deps.RootChanges = watcher.Changed()
	}

	model := picker.New(deps)
	program := tea.NewProgram(model)
	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("app: picker runtime: %w", err)
	}

	outcome := finalModel.(*picker.Model).Outcome()
	if !outcome.Selected {
		return nil
	}

	item, ok := resolveSelection(outcome)
	if !ok {
		return fmt.Errorf("app: selection %q could not be resolved to a path", outcome.Value)
	}

	materializeOpts := session.Options{
		CreateScript: opts.PostCreateScript,
		CopyPath:     opts.CopyPath,
	}
	if err := session.Materialize(tmux, item, materializeOpts); err != nil {
		return err
	}

	// The picker records a Local-mode selection itself when it is
	// confirmed; only Remote-mode selections are recorded here.
	if item.Repo.Kind == domain.KindRemote {
		if err := scorer.RecordSelection(item.VisibleName); err != nil {
			log.Printf("app: failed to record frecency access for %q: %v", item.VisibleName, err)
		}
	}

	return nil
}

// resolveSelection turns the picker's Outcome back into a full
// SessionItem. Local-mode selections already carry their Repository
// alongside Value; Remote-mode selections carry only the
// "remote:<local_path>" sentinel, since the clone step has already
// happened inside the picker by the time it returns.
func resolveSelection(o picker.Outcome) (domain.SessionItem, bool) {
	if strings.HasPrefix(o.Value, "remote:") {
		path := strings.TrimPrefix(o.Value, "remote:")
		if path == "" {
			return domain.SessionItem{}, false
		}
		return domain.SessionItem{
			VisibleName: o.Value,
			Repo:        domain.Repository{DisplayName: o.Value, AbsolutePath: path, Kind: domain.KindRemote},
		}, true
	}
	if o.Repo.AbsolutePath == "" {
		return domain.SessionItem{}, false
	}
	return domain.SessionItem{VisibleName: o.Value, Repo: o.Repo}, true
}

func newPickerDeps(
	cfg config.Config,
	store *state.Store,
	scorer *frecency.Scorer,
	remoteClient *remote.Client,
	roots []domain.SearchRoot,
	bookmarks []string,
	localCachePath string,
) picker.Deps {
	active := activeProfileTracker{}

	return picker.Deps{
		Cfg:            cfg,
		Store:          store,
		Scorer:         scorer,
		RemoteProfiles: cfg.RemoteProfiles,
		LoadLocal:      localLoader(cfg, roots, bookmarks, localCachePath),
		LoadRemote: func(ctx context.Context, profile config.RemoteProfile) ([]domain.SessionItem, error) {
			active.set(profile)
			ttl := time.Duration(cfg.RemoteCacheTTLHours) * time.Hour
			repos, err := remoteClient.List(ctx, profile, ttl, false)
			if err != nil {
				return nil, err
			}
			return toSessionItems(repos), nil
		},
		CloneRemote: func(ctx context.Context, item domain.SessionItem) (string, error) {
			profile, ok := active.get()
			if !ok {
				return "", fmt.Errorf("app: no active remote profile to clone %q from", item.VisibleName)
			}
			return remoteClient.Clone(ctx, item.Repo, profile, profile.CloneRoot)
		},
		OpenInBrowser: func(item domain.SessionItem) error {
			return remoteClient.OpenInBrowser(item.Repo)
		},
	}
}

// activeProfileTracker records which remote profile the picker most
// recently loaded, so CloneRemote (invoked later, with only the
// selected item in hand) knows which profile's clone settings to use.
// Guarded by a mutex since bubbletea executes tea.Cmd functions on
// their own goroutines.
type activeProfileTracker struct {
	mu      sync.Mutex
	profile config.RemoteProfile
	has     bool
}

func (a *activeProfileTracker) set(p config.RemoteProfile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profile, a.has = p, true
}

func (a *activeProfileTracker) get() (config.RemoteProfile, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile, a.has
}

func toSessionItems(repos []domain.Repository) []domain.SessionItem {
	out := make([]domain.SessionItem, 0, len(repos))
	for _, r := range repos {
		out = append(out, domain.SessionItem{VisibleName: r.DisplayName, Repo: r})
	}
	return out
}

// localLoader builds the picker's LocalLoader: a cache-aware wrapper
// around discovery.Run. A fresh, config-matching local cache entry is
// replayed without touching the filesystem beyond a marker probe
// revalidating each cached entry's continued existence; otherwise a
// live scan runs and its result is persisted as the new snapshot once
// the stream closes uninterrupted.
func localLoader(cfg config.Config, roots []domain.SearchRoot, bookmarks []string, cachePath string) picker.LocalLoader {
	ttl := time.Duration(cfg.LocalCacheTTLHours) * time.Hour

	return func(ctx context.Context) (<-chan domain.Repository, func() error) {
		out := make(chan domain.Repository, 64)

		// Written by the goroutine before it closes out; callers only
		// read it through scanErr after the channel has closed, so the
		// close is the synchronization point.
		var scanErr error

		go func() {
			defer close(out)

			if items, ok := localcache.Load(cachePath, roots, bookmarks, ttl, time.Now()); ok {
				replayCached(ctx, out, items, cfg.VcsProviders)
				return
			}

			scanOpts := discovery.Options{
				Roots:               roots,
				Bookmarks:           bookmarks,
				ExcludePatterns:     cfg.ExcludedDirs,
				VcsProviders:        cfg.VcsProviders,
				SearchSubmodules:    cfg.SearchSubmodules,
				RecursiveSubmodules: cfg.RecursiveSubmodules,
			}
			ch, stats := discovery.Run(ctx, scanOpts)

			var collected []domain.Repository
			for repo := range ch {
				collected = append(collected, repo)
				select {
				case out <- repo:
				case <-ctx.Done():
					return
				}
			}
			if ctx.Err() != nil {
				return
			}
			if err := stats.RootErr(); err != nil {
				scanErr = err
				return
			}
			if err := localcache.Save(cachePath, roots, bookmarks, collected, time.Now()); err != nil {
				log.Printf("app: failed to write local cache: %v", err)
			}
		}()

		return out, func() error { return scanErr }
	}
}

// replayCached re-emits a cached local scan, dropping any entry whose
// repository marker (or, for bookmarks, the path itself) no longer
// exists. Each entry costs one metadata probe; no directory is read.
func replayCached(ctx context.Context, out chan<- domain.Repository, items []domain.Repository, vcsProviders []string) {
	for _, item := range items {
		still := true
		switch item.Kind {
		case domain.KindBookmark:
			if _, err := os.Stat(item.AbsolutePath); err != nil {
				still = false
			}
		default:
			still = discovery.ProbeMarker(item.AbsolutePath, vcsProviders)
		}
		if !still {
			continue
		}
		select {
		case out <- item:
		case <-ctx.Done():
			return
		}
	}
}
