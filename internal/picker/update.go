package picker

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alisonjenkins/tmux-sessionizer/internal/config"
	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

// Update implements bubbletea.Model.Update, dispatching by state so
// each overlay owns its own key handling.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case matcherTickMsg:
		m.matcher.Tick()
		m.syncSelection()
		return m, tickCmd()

	case repoArrivedMsg:
		m.ingestRepo(domain.Repository(msg))
		return m, m.waitForStream()

	case streamClosedMsg:
		return m, m.finishStream()

	case modeLoadedMsg:
		return m, m.finishRemoteLoad(msg)

	case modeLoadErrMsg:
		m.errorMessage = msg.err.Error()
		m.state = stateError
		return m, nil

	case cloneDoneMsg:
		m.outcome = Outcome{Selected: true, Value: "remote:" + msg.path}
		m.done = true
		return m, tea.Quit

	case cloneErrMsg:
		m.errorMessage = msg.err.Error()
		m.state = stateError
		return m, nil

	case browserErrMsg:
		m.failInPlace(msg.err)
		return m, nil

	case rootsChangedMsg:
		if m.state != stateNormal {
			return m, m.waitForRootChange()
		}
		return m, tea.Batch(m.startRefresh(), m.waitForRootChange())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	listH := h - 2
	if m.deps.Preview != nil {
		if w >= h*2 {
			half := w / 2
			m.list = resizeViewport(m.list, half, listH)
			m.preview = resizeViewport(m.preview, w-half, listH)
		} else {
			m.list = resizeViewport(m.list, w, listH/2)
			m.preview = resizeViewport(m.preview, w, h-listH/2-2)
		}
	} else {
		m.list = resizeViewport(m.list, w, listH)
	}
	m.sel.pageLen = m.list.Height
}

func resizeViewport(vp viewport.Model, w, h int) viewport.Model {
	vp.Width, vp.Height = w, h
	return vp
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateNormal:
		return m.handleNormalKey(msg)
	case stateModeSelect:
		return m.handleModeSelectKey(msg)
	case stateLoading:
		return m.handleLoadingKey(msg)
	case stateError:
		m.dismissError()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.outcome = Outcome{Selected: false}
		m.done = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		return m.confirmSelection()

	case key.Matches(msg, m.keys.SwitchMode):
		m.enterModeSelect()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.startRefresh()

	case key.Matches(msg, m.keys.OpenInBrowser):
		return m, m.openSelectedInBrowser()

	case key.Matches(msg, m.keys.MoveUp):
		m.applyMove(m.sel.moveUp, m.sel.moveDown)
		return m, nil
	case key.Matches(msg, m.keys.MoveDown):
		m.applyMove(m.sel.moveDown, m.sel.moveUp)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.applyMove(m.sel.pageUp, m.sel.pageDown)
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.applyMove(m.sel.pageDown, m.sel.pageUp)
		return m, nil

	case key.Matches(msg, m.keys.Backspace):
		m.editor.backspace()
		m.repoPattern()
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.editor.deleteRight()
		m.repoPattern()
		return m, nil
	case key.Matches(msg, m.keys.DeleteWord):
		m.editor.deleteWordLeft()
		m.repoPattern()
		return m, nil
	case key.Matches(msg, m.keys.DeleteToLineStart):
		m.editor.deleteToLineStart()
		m.repoPattern()
		return m, nil
	case key.Matches(msg, m.keys.DeleteToLineEnd):
		m.editor.deleteToLineEnd()
		m.repoPattern()
		return m, nil
	case key.Matches(msg, m.keys.CursorLeft):
		m.editor.cursorLeft()
		return m, nil
	case key.Matches(msg, m.keys.CursorRight):
		m.editor.cursorRight()
		return m, nil
	case key.Matches(msg, m.keys.MoveToLineStart):
		m.editor.cursorHome()
		return m, nil
	case key.Matches(msg, m.keys.MoveToLineEnd):
		m.editor.cursorEnd()
		return m, nil
	}

	if msg.Type == tea.KeyRunes {
		for _, c := range msg.Runes {
			m.editor.insert(c)
		}
		m.repoPattern()
	}
	return m, nil
}

// applyMove applies the bottom-anchored inversion: when the input
// line is rendered at the bottom of the pane the list is drawn
// bottom-up, so a "move up" keypress advances toward the top of the
// visually-inverted list, keeping "up" pointed at the next
// more-preferred item.
func (m *Model) applyMove(whenBottom, whenTop func(int)) {
	count, _, _ := m.matcher.Snapshot()
	if m.inputAtBottom() {
		whenBottom(count)
	} else {
		whenTop(count)
	}
}

// inputAtBottom reports whether the input line is anchored at the
// bottom of the pane. Only the wide two-pane preview layout puts the
// input at the top; every vertical layout is bottom-anchored.
func (m *Model) inputAtBottom() bool {
	return !(m.deps.Preview != nil && m.width >= m.height*2)
}

func (m *Model) repoPattern() {
	m.matcher.SetPattern(m.editor.text())
}

func (m *Model) confirmSelection() (tea.Model, tea.Cmd) {
	idx, ok := m.sel.selected()
	if !ok {
		return m, nil
	}
	_, _, items := m.matcher.Snapshot()
	if idx >= len(items) {
		return m, nil
	}
	item := items[idx]

	if m.mode.IsLocal() {
		if m.deps.Scorer != nil {
			_ = m.deps.Scorer.RecordSelection(item.VisibleName)
		}
		m.outcome = Outcome{Selected: true, Value: item.VisibleName, Repo: item.Repo}
		m.done = true
		return m, tea.Quit
	}

	if m.deps.CloneRemote == nil {
		m.outcome = Outcome{Selected: true, Value: item.VisibleName}
		m.done = true
		return m, tea.Quit
	}
	m.previousMode = m.mode
	m.previousItems = m.matcher.All()
	m.state = stateLoading
	m.loadingMessage = "cloning " + item.VisibleName
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelStream = cancel
	return m, func() tea.Msg {
		path, err := m.deps.CloneRemote(ctx, item)
		if err != nil {
			return cloneErrMsg{err: err}
		}
		return cloneDoneMsg{path: path}
	}
}

// openSelectedInBrowser dispatches the "view in browser" action for
// the currently selected item. It is a no-op when no OpenInBrowser
// collaborator was wired or nothing is selected; a failure becomes a
// dismissable Error overlay, never a fatal error.
func (m *Model) openSelectedInBrowser() tea.Cmd {
	if m.deps.OpenInBrowser == nil {
		return nil
	}
	idx, ok := m.sel.selected()
	if !ok {
		return nil
	}
	_, _, items := m.matcher.Snapshot()
	if idx >= len(items) {
		return nil
	}
	item := items[idx]
	open := m.deps.OpenInBrowser
	return func() tea.Msg {
		if err := open(item); err != nil {
			return browserErrMsg{err: err}
		}
		return nil
	}
}

func (m *Model) enterModeSelect() {
	m.state = stateModeSelect
	m.modeSelect.editor.reset()
	m.modeSelect.sel = selection{}
}

func (m *Model) handleModeSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtered := m.filteredModes()

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.state = stateNormal
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if len(filtered) == 0 {
			return m, nil
		}
		idx, ok := m.modeSelect.sel.selected()
		if !ok {
			idx = 0
		}
		if idx >= len(filtered) {
			idx = len(filtered) - 1
		}
		chosen := filtered[idx]
		if chosen == m.mode {
			m.state = stateNormal
			return m, nil
		}
		return m.switchMode(chosen)
	case key.Matches(msg, m.keys.MoveUp):
		m.modeSelect.sel.moveDown(len(filtered))
		return m, nil
	case key.Matches(msg, m.keys.MoveDown):
		m.modeSelect.sel.moveUp(len(filtered))
		return m, nil
	case key.Matches(msg, m.keys.Backspace):
		m.modeSelect.editor.backspace()
		return m, nil
	}
	if msg.Type == tea.KeyRunes {
		for _, c := range msg.Runes {
			m.modeSelect.editor.insert(c)
		}
	}
	return m, nil
}

func (m *Model) filteredModes() []domain.Mode {
	q := strings.ToLower(m.modeSelect.editor.text())
	if q == "" {
		return m.modeSelect.all
	}
	out := make([]domain.Mode, 0, len(m.modeSelect.all))
	for _, mode := range m.modeSelect.all {
		if strings.Contains(strings.ToLower(mode.Key()), q) {
			out = append(out, mode)
		}
	}
	return out
}

// switchMode persists the chosen mode before the switch completes,
// preserves the current mode's fully-loaded item set in case the new
// mode fails to load, and kicks off the load under a Loading overlay.
func (m *Model) switchMode(chosen domain.Mode) (tea.Model, tea.Cmd) {
	if m.deps.Store != nil {
		_ = m.deps.Store.SetActiveMode(chosen)
	}
	m.previousMode = m.mode
	m.previousItems = m.matcher.All()

	m.mode = chosen
	m.state = stateLoading
	m.loadingMessage = "loading " + chosen.Key()
	m.matcher.Reset()
	m.localSet.Reset()
	m.bufferedForSort = nil

	return m, m.startMode(chosen)
}

func (m *Model) startRefresh() tea.Cmd {
	m.previousMode = m.mode
	m.previousItems = m.matcher.All()
	m.state = stateLoading
	m.loadingMessage = "refreshing " + m.mode.Key()
	m.matcher.Reset()
	m.localSet.Reset()
	m.bufferedForSort = nil
	return m.startMode(m.mode)
}

// startMode begins populating mode. For Local it starts a streaming
// discovery run; for Remote it fetches the whole catalogue in one
// tea.Cmd. Called both for the very first population (while still in
// Normal) and for any subsequent explicit (re)load (under Loading).
func (m *Model) startMode(mode domain.Mode) tea.Cmd {
	if mode.IsLocal() {
		if m.deps.LoadLocal == nil {
			return nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		m.cancelStream = cancel
		m.streamCh, m.streamErr = m.deps.LoadLocal(ctx)
		m.streamOpen = true
		return m.waitForStream()
	}

	profile, ok := findProfile(m.deps.RemoteProfiles, mode.Profile)
	if !ok || m.deps.LoadRemote == nil {
		return func() tea.Msg {
			return modeLoadErrMsg{mode: mode, err: errUnknownProfile(mode.Profile)}
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelStream = cancel
	return func() tea.Msg {
		items, err := m.deps.LoadRemote(ctx, profile)
		if err != nil {
			return modeLoadErrMsg{mode: mode, err: err}
		}
		return modeLoadedMsg{mode: mode, items: items}
	}
}

func errUnknownProfile(profile string) error {
	return fmt.Errorf("picker: no remote_profiles entry named %q", profile)
}

func findProfile(profiles []config.RemoteProfile, name string) (config.RemoteProfile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return config.RemoteProfile{}, false
}

func (m *Model) waitForStream() tea.Cmd {
	ch := m.streamCh
	return func() tea.Msg {
		repo, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return repoArrivedMsg(repo)
	}
}

// ingestRepo applies one streamed repository either directly (Normal,
// non-frecency sort) or buffered (Loading, or Normal with frecency
// sort, which needs the complete set before ordering).
func (m *Model) ingestRepo(repo domain.Repository) {
	buffer := m.state == stateLoading || m.deps.Cfg.SessionSortOrder == config.SortFrecency
	if buffer {
		m.bufferedForSort = append(m.bufferedForSort, repo)
		return
	}
	items := m.localSet.Add(repo)
	m.matcher.Reset()
	for _, it := range items {
		m.matcher.Push(it)
	}
	m.matcher.SetPattern(m.editor.text())
	m.syncSelection()
}

// syncSelection auto-selects the first item once any exist, and
// clamps a stale selection back into range after the matched set
// shrinks.
func (m *Model) syncSelection() {
	matched, _, _ := m.matcher.Snapshot()
	m.sel.clampTo(matched)
}

func (m *Model) finishStream() tea.Cmd {
	m.streamOpen = false

	if err := m.takeStreamErr(); err != nil {
		m.bufferedForSort = nil
		if m.state == stateLoading {
			m.errorMessage = err.Error()
			m.state = stateError
			m.loadingMessage = ""
		} else {
			m.failInPlace(err)
		}
		return nil
	}

	buffering := m.state == stateLoading || m.deps.Cfg.SessionSortOrder == config.SortFrecency

	var final []domain.SessionItem
	if buffering {
		m.localSet.Reset()
		for _, repo := range m.bufferedForSort {
			final = m.localSet.Add(repo)
		}
		m.bufferedForSort = nil
	} else {
		final = m.localSet.Items()
	}

	final = sortItems(final, m.deps.Cfg.SessionSortOrder, m.deps.Scorer, m.deps.Store)

	m.matcher.Reset()
	for _, it := range final {
		m.matcher.Push(it)
	}
	m.matcher.SetPattern(m.editor.text())
	m.sel = selection{pageLen: m.sel.pageLen}
	m.syncSelection()

	if m.state == stateLoading {
		m.state = stateNormal
		m.loadingMessage = ""
	}
	return nil
}

func (m *Model) finishRemoteLoad(msg modeLoadedMsg) tea.Cmd {
	items := sortItems(msg.items, m.deps.Cfg.SessionSortOrder, m.deps.Scorer, m.deps.Store)
	m.matcher.Reset()
	for _, it := range items {
		m.matcher.Push(it)
	}
	m.matcher.SetPattern(m.editor.text())
	m.sel = selection{pageLen: m.sel.pageLen}
	m.syncSelection()
	if m.state == stateLoading {
		m.state = stateNormal
		m.loadingMessage = ""
	}
	return nil
}

// takeStreamErr collects the closed stream's terminal error, if any,
// clearing the reporter so a later stream can install its own.
func (m *Model) takeStreamErr() error {
	if m.streamErr == nil {
		return nil
	}
	err := m.streamErr()
	m.streamErr = nil
	return err
}

// failInPlace surfaces an error for an action that did not change the
// active mode, snapshotting the current item set so dismissing the
// overlay restores exactly what was on screen.
func (m *Model) failInPlace(err error) {
	m.previousMode = m.mode
	m.previousItems = m.matcher.All()
	m.errorMessage = err.Error()
	m.state = stateError
}

// dismissError returns to Normal, restoring the previously-active
// mode's fully loaded item set: a failed mode switch (or refresh)
// leaves the prior mode's items intact.
func (m *Model) dismissError() {
	m.state = stateNormal
	m.errorMessage = ""
	m.mode = m.previousMode
	m.matcher.Reset()
	for _, it := range m.previousItems {
		m.matcher.Push(it)
	}
	m.matcher.SetPattern(m.editor.text())
	m.sel = selection{pageLen: m.sel.pageLen}
	m.syncSelection()
}

func (m *Model) handleLoadingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		if m.cancelStream != nil {
			m.cancelStream()
		}
		m.outcome = Outcome{Selected: false}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// Done reports whether the loop has finished, for non-interactive
// callers (tests) driving Update directly without a tea.Program.
func (m *Model) Done() bool { return m.done }
