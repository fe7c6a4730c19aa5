package picker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alisonjenkins/tmux-sessionizer/internal/config"
	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
	"github.com/alisonjenkins/tmux-sessionizer/internal/frecency"
	"github.com/alisonjenkins/tmux-sessionizer/internal/state"
)

func testStore(t *testing.T) *state.Store {
	t.Helper()
	return state.NewAtPath(filepath.Join(t.TempDir(), "state.yaml"))
}

// drainCmd repeatedly executes cmd and feeds its message back through
// Update until a nil command is returned, simulating what a real
// tea.Program would do for a simple (non-batched) command chain.
func drainCmd(t *testing.T, m *Model, cmd tea.Cmd) *Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		next, nextCmd := m.Update(msg)
		m = next.(*Model)
		cmd = nextCmd
	}
	return m
}

func closedRepoChan(repos ...domain.Repository) <-chan domain.Repository {
	ch := make(chan domain.Repository, len(repos))
	for _, r := range repos {
		ch <- r
	}
	close(ch)
	return ch
}

// staticLoader is a LocalLoader over a fixed, already-closed stream.
func staticLoader(repos ...domain.Repository) LocalLoader {
	return func(ctx context.Context) (<-chan domain.Repository, func() error) {
		return closedRepoChan(repos...), func() error { return nil }
	}
}

// failingLoader is a LocalLoader whose scan ends with a terminal error
// after streaming the given repos.
func failingLoader(err error, repos ...domain.Repository) LocalLoader {
	return func(ctx context.Context) (<-chan domain.Repository, func() error) {
		return closedRepoChan(repos...), func() error { return err }
	}
}

func TestInitialPopulationStreamsDirectlyIntoNormal(t *testing.T) {
	deps := Deps{
		Cfg:   config.Defaults(),
		Store: testStore(t),
		LoadLocal: staticLoader(
			domain.Repository{AbsolutePath: "/t/a"},
			domain.Repository{AbsolutePath: "/t/b"},
		),
	}
	m := New(deps)
	m = drainCmd(t, m, m.startMode(m.mode))

	if m.state != stateNormal {
		t.Fatalf("state = %v, want stateNormal", m.state)
	}
	matched, total, _ := m.matcher.Snapshot()
	if matched != 2 || total != 2 {
		t.Fatalf("matched=%d total=%d, want 2/2", matched, total)
	}
}

func TestEmptyStreamYieldsZeroZero(t *testing.T) {
	deps := Deps{
		Cfg:   config.Defaults(),
		Store: testStore(t),
		LoadLocal: staticLoader(),
	}
	m := New(deps)
	m = drainCmd(t, m, m.startMode(m.mode))

	matched, total, _ := m.matcher.Snapshot()
	if matched != 0 || total != 0 {
		t.Fatalf("matched=%d total=%d, want 0/0", matched, total)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(*Model)
	if cmd == nil {
		t.Fatal("expected a quit command on cancel")
	}
	if m.outcome.Selected {
		t.Fatal("expected no selection on cancel")
	}
}

func TestRefreshReplacesItemSetAfterLoadingOverlay(t *testing.T) {
	deps := Deps{
		Cfg:   config.Defaults(),
		Store: testStore(t),
		LoadLocal: staticLoader(domain.Repository{AbsolutePath: "/t/a"}),
	}
	m := New(deps)
	m = drainCmd(t, m, m.startMode(m.mode))

	deps.LoadLocal = staticLoader(
		domain.Repository{AbsolutePath: "/t/c"},
		domain.Repository{AbsolutePath: "/t/d"},
	)
	m.deps = deps

	cmd := m.startRefresh()
	if m.state != stateLoading {
		t.Fatalf("state = %v, want stateLoading immediately after refresh", m.state)
	}
	m = drainCmd(t, m, cmd)

	if m.state != stateNormal {
		t.Fatalf("state = %v, want stateNormal after refresh completes", m.state)
	}
	matched, total, items := m.matcher.Snapshot()
	if matched != 2 || total != 2 {
		t.Fatalf("matched=%d total=%d, want 2/2", matched, total)
	}
	for _, it := range items {
		if it.VisibleName == "a" {
			t.Fatal("stale item from before refresh survived")
		}
	}
}

func TestModeSwitchToRemoteReplacesItemsAndPersists(t *testing.T) {
	store := testStore(t)
	deps := Deps{
		Cfg:            config.Defaults(),
		Store:          store,
		Scorer:         frecency.New(store),
		RemoteProfiles: []config.RemoteProfile{{Name: "work"}},
		LoadLocal: staticLoader(domain.Repository{AbsolutePath: "/t/a"}),
		LoadRemote: func(ctx context.Context, profile config.RemoteProfile) ([]domain.SessionItem, error) {
			return []domain.SessionItem{{VisibleName: "remote-repo", Repo: domain.Repository{Kind: domain.KindRemote}}}, nil
		},
	}
	m := New(deps)
	m = drainCmd(t, m, m.startMode(m.mode))

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = model.(*Model)
	if m.state != stateModeSelect {
		t.Fatalf("state = %v, want stateModeSelect", m.state)
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(*Model)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(*Model)

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(*Model)
	if m.state != stateLoading {
		t.Fatalf("state = %v, want stateLoading", m.state)
	}
	m = drainCmd(t, m, cmd)

	if m.state != stateNormal {
		t.Fatalf("state = %v, want stateNormal", m.state)
	}
	if m.mode != domain.RemoteMode("work") {
		t.Fatalf("mode = %+v, want RemoteMode(work)", m.mode)
	}
	if store.GetActiveMode() != domain.RemoteMode("work") {
		t.Fatalf("persisted active mode = %+v, want RemoteMode(work)", store.GetActiveMode())
	}
	matched, _, items := m.matcher.Snapshot()
	if matched != 1 || items[0].VisibleName != "remote-repo" {
		t.Fatalf("items = %+v, want exactly remote-repo", items)
	}
}

func TestFailedModeSwitchShowsErrorThenRestoresPreviousItems(t *testing.T) {
	store := testStore(t)
	deps := Deps{
		Cfg:            config.Defaults(),
		Store:          store,
		RemoteProfiles: []config.RemoteProfile{{Name: "broken"}},
		LoadLocal: staticLoader(domain.Repository{AbsolutePath: "/t/a"}),
		LoadRemote: func(ctx context.Context, profile config.RemoteProfile) ([]domain.SessionItem, error) {
			return nil, errors.New("credential command failed")
		},
	}
	m := New(deps)
	m = drainCmd(t, m, m.startMode(m.mode))

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = model.(*Model)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(*Model)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(*Model)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(*Model)
	m = drainCmd(t, m, cmd)

	if m.state != stateError {
		t.Fatalf("state = %v, want stateError", m.state)
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = model.(*Model)

	if m.state != stateNormal {
		t.Fatalf("state = %v, want stateNormal after dismissing error", m.state)
	}
	if !m.mode.IsLocal() {
		t.Fatalf("mode = %+v, want Local restored", m.mode)
	}
	matched, _, items := m.matcher.Snapshot()
	if matched != 1 || items[0].VisibleName != "a" {
		t.Fatalf("items = %+v, want the previous Local item set intact", items)
	}
}

func TestConfirmOnLocalItemRecordsFrecencyAndReturnsVisibleName(t *testing.T) {
	store := testStore(t)
	deps := Deps{
		Cfg:    config.Defaults(),
		Store:  store,
		Scorer: frecency.New(store),
		LoadLocal: staticLoader(domain.Repository{AbsolutePath: "/t/proj"}),
	}
	m := New(deps)
	m = drainCmd(t, m, m.startMode(m.mode))

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(*Model)
	if cmd == nil {
		t.Fatal("expected a quit command on confirm")
	}
	if !m.outcome.Selected || m.outcome.Value != "proj" {
		t.Fatalf("outcome = %+v, want selected proj", m.outcome)
	}
	if store.Score("proj") <= 0 {
		t.Fatal("expected frecency to record the selection")
	}
}

func TestOpenInBrowserKeySurfacesFailureAsErrorOverlay(t *testing.T) {
	deps := Deps{
		Cfg:   config.Defaults(),
		Store: testStore(t),
		LoadLocal: staticLoader(domain.Repository{AbsolutePath: "/t/proj"}),
		OpenInBrowser: func(item domain.SessionItem) error {
			return errors.New("boom")
		},
	}
	m := New(deps)
	m = drainCmd(t, m, m.startMode(m.mode))

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = model.(*Model)
	if cmd == nil {
		t.Fatal("expected a command dispatching the open-in-browser action")
	}
	m = drainCmd(t, m, cmd)

	if m.state != stateError {
		t.Fatalf("state = %v, want stateError after a failed open", m.state)
	}
	if m.errorMessage == "" {
		t.Fatal("expected a non-empty error message")
	}
}

func TestOpenInBrowserIsNoOpWhenNotWired(t *testing.T) {
	deps := Deps{
		Cfg:   config.Defaults(),
		Store: testStore(t),
		LoadLocal: staticLoader(domain.Repository{AbsolutePath: "/t/proj"}),
	}
	m := New(deps)
	m = drainCmd(t, m, m.startMode(m.mode))

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = model.(*Model)
	if cmd != nil {
		t.Fatal("expected no command when OpenInBrowser is unset")
	}
	if m.state != stateNormal {
		t.Fatalf("state = %v, want stateNormal", m.state)
	}
}

func TestRootReadFailureDuringInitialStreamShowsErrorOverlay(t *testing.T) {
	deps := Deps{
		Cfg:       config.Defaults(),
		Store:     testStore(t),
		LoadLocal: failingLoader(errors.New("reading search root /gone: no such file or directory"), domain.Repository{AbsolutePath: "/t/partial"}),
	}
	m := New(deps)
	m = drainCmd(t, m, m.startMode(m.mode))

	if m.state != stateError {
		t.Fatalf("state = %v, want stateError after a failed root read", m.state)
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = model.(*Model)
	if m.state != stateNormal {
		t.Fatalf("state = %v, want stateNormal after dismissing", m.state)
	}
	_, _, items := m.matcher.Snapshot()
	if len(items) != 1 || items[0].VisibleName != "partial" {
		t.Fatalf("items = %+v, want the partial result kept", items)
	}
}

func TestRootReadFailureDuringRefreshRestoresPreviousItems(t *testing.T) {
	deps := Deps{
		Cfg:       config.Defaults(),
		Store:     testStore(t),
		LoadLocal: staticLoader(domain.Repository{AbsolutePath: "/t/a"}),
	}
	m := New(deps)
	m = drainCmd(t, m, m.startMode(m.mode))

	deps.LoadLocal = failingLoader(errors.New("reading search root /gone: input/output error"))
	m.deps = deps

	cmd := m.startRefresh()
	m = drainCmd(t, m, cmd)

	if m.state != stateError {
		t.Fatalf("state = %v, want stateError after a failed refresh", m.state)
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = model.(*Model)
	if m.state != stateNormal {
		t.Fatalf("state = %v, want stateNormal after dismissing", m.state)
	}
	_, _, items := m.matcher.Snapshot()
	if len(items) != 1 || items[0].VisibleName != "a" {
		t.Fatalf("items = %+v, want the pre-refresh item set intact", items)
	}
}
