// Package picker implements the interactive picker runtime: a
// bubbletea state machine over Normal/ModeSelect/Loading/Error states,
// a streaming fuzzy-filtered item list, and the mode-switch and
// selection-outcome rules. Async loads run as tea.Cmds and report back
// as completion messages; per-state update routing keeps each overlay
// self-contained.
package picker

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/alisonjenkins/tmux-sessionizer/internal/config"
	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
	"github.com/alisonjenkins/tmux-sessionizer/internal/frecency"
	"github.com/alisonjenkins/tmux-sessionizer/internal/fuzzy"
	"github.com/alisonjenkins/tmux-sessionizer/internal/state"
)

// sessionState is the picker's tagged state-machine position.
type sessionState int

const (
	stateNormal sessionState = iota
	stateModeSelect
	stateLoading
	stateError
)

const (
	matcherTickInterval = 16 * time.Millisecond
	defaultPageSize      = 10
)

// LocalLoader starts a fresh streaming discovery run. Cancelling ctx
// must stop the run. scanErr reports the run's terminal error (a
// search root that could not be read), if any; it must only be called
// after the items channel has closed.
type LocalLoader func(ctx context.Context) (items <-chan domain.Repository, scanErr func() error)

// RemoteLoader fetches one remote profile's complete catalogue.
type RemoteLoader func(ctx context.Context, profile config.RemoteProfile) ([]domain.SessionItem, error)

// Outcome is what the picker returns when its loop exits.
type Outcome struct {
	// Selected is false on Cancel.
	Selected bool
	// Value is the bare visible name for Local mode, or the
	// "remote:<local_path>" sentinel for Remote mode.
	Value string
	// Repo is the Local-mode selection's full record, carried
	// alongside Value so an in-process orchestrator doesn't have to
	// re-derive the absolute path from the visible name. Zero value
	// for Remote-mode and Cancel outcomes.
	Repo domain.Repository
}

// Deps are the orchestrator-supplied collaborators. None of them are
// owned by the picker: it only ever sees the channel/function surface.
type Deps struct {
	Cfg          config.Config
	Store        *state.Store
	Scorer       *frecency.Scorer
	RemoteProfiles []config.RemoteProfile
	LoadLocal    LocalLoader
	LoadRemote   RemoteLoader
	// CloneRemote materializes a chosen Remote-mode item locally
	// (wraps remote.Client.Clone) and returns its local path.
	CloneRemote func(ctx context.Context, item domain.SessionItem) (string, error)
	// Preview renders optional preview-pane content for the currently
	// selected item. Nil disables the preview pane entirely.
	Preview func(domain.SessionItem) string
	// OpenInBrowser opens the currently selected Remote-mode item's web
	// URL (the supplemented "view in browser" action). Nil disables
	// the key binding entirely.
	OpenInBrowser func(domain.SessionItem) error
	// RootChanges, when non-nil, delivers a signal every time the
	// watched search roots' top level changes on disk; the picker
	// treats each signal as an implicit Refresh key press while in
	// Normal state (the supplemented fsnotify-driven auto-refresh).
	RootChanges <-chan struct{}
}

// Model is the picker's bubbletea.Model.
type Model struct {
	deps Deps

	state sessionState
	width, height int

	mode domain.Mode

	editor lineEditor
	sel    selection
	matcher *fuzzy.Index

	localSet *LocalSet

	// bufferedForSort holds items not yet handed to the matcher while
	// SessionSortOrder is "frecency" and the stream for the active
	// mode is still open; flushed in sorted order on stream close.
	bufferedForSort []domain.Repository
	streamOpen      bool

	cancelStream context.CancelFunc
	streamCh     <-chan domain.Repository
	streamErr    func() error

	loadingMessage string
	errorMessage   string

	// previousMode/previousItems preserve the prior mode's fully
	// loaded item set across a failed mode switch.
	previousMode  domain.Mode
	previousItems []domain.SessionItem

	modeSelect modeSelectState

	preview viewport.Model
	list    viewport.Model

	keys keyMap

	outcome Outcome
	done    bool
}

// modeSelectState is the overlay's own tiny model: a filtered list of
// available modes plus a cursor.
type modeSelectState struct {
	editor lineEditor
	sel    selection
	all    []domain.Mode
}

// New builds the initial model: Normal state, current mode = the
// state store's last-active mode (falling back to Local).
func New(deps Deps) *Model {
	m := &Model{
		deps:     deps,
		state:    stateNormal,
		mode:     deps.Store.GetActiveMode(),
		matcher:  fuzzy.New(),
		localSet: NewLocalSet(deps.Cfg.DisplayFullPath),
		keys:     newKeyMap(orDefault(deps.Cfg.PickerSwitchModeKey, "tab"), orDefault(deps.Cfg.PickerRefreshKey, "f5")),
		preview:  viewport.New(0, 0),
		list:     viewport.New(0, 0),
	}
	// A load failure before any mode has fully populated falls back to
	// Local on dismissal.
	m.previousMode = domain.LocalMode()
	m.modeSelect.all = availableModes(deps.RemoteProfiles)
	return m
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func availableModes(profiles []config.RemoteProfile) []domain.Mode {
	modes := make([]domain.Mode, 0, len(profiles)+1)
	modes = append(modes, domain.LocalMode())
	for _, p := range profiles {
		modes = append(modes, domain.RemoteMode(p.Name))
	}
	return modes
}

// Init starts the initial mode's population directly into Normal
// state (no Loading overlay at startup; an empty workspace shows 0/0
// rather than a spinner) and kicks off the matcher tick loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startMode(m.mode), tickCmd(), m.waitForRootChange())
}

func tickCmd() tea.Cmd {
	return tea.Tick(matcherTickInterval, func(t time.Time) tea.Msg { return matcherTickMsg(t) })
}

// waitForRootChange blocks on deps.RootChanges in its own goroutine
// (as bubbletea's tea.Cmd convention requires) and re-arms itself after
// every signal, so a single watcher keeps feeding the loop for the
// lifetime of the picker.
func (m *Model) waitForRootChange() tea.Cmd {
	if m.deps.RootChanges == nil {
		return nil
	}
	ch := m.deps.RootChanges
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return rootsChangedMsg{}
	}
}

// Outcome returns the picker's result after the loop has exited.
// Callers should only read this once Update has returned a command
// sequence ending in tea.Quit (i.e. after the bubbletea program's Run
// returns).
func (m *Model) Outcome() Outcome { return m.outcome }
