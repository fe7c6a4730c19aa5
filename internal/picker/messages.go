package picker

import (
	"time"

	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

// repoArrivedMsg carries one repository pulled off the discovery
// channel into the bubbletea loop.
type repoArrivedMsg domain.Repository

// streamClosedMsg signals the active discovery channel has no more
// items coming.
type streamClosedMsg struct{}

// matcherTickMsg drives one bounded advance of the fuzzy index per
// event-loop iteration.
type matcherTickMsg time.Time

// modeLoadedMsg reports a completed (re)load of a mode's full item set.
type modeLoadedMsg struct {
	mode  domain.Mode
	items []domain.SessionItem
}

// modeLoadErrMsg reports a failed (re)load.
type modeLoadErrMsg struct {
	mode domain.Mode
	err  error
}

// cloneDoneMsg/cloneErrMsg report the outcome of a Remote-mode
// selection's clone step.
type cloneDoneMsg struct{ path string }
type cloneErrMsg struct{ err error }

// browserErrMsg reports a failed "view in browser" action, surfaced
// as a dismissable Error overlay like every other mode-local failure.
type browserErrMsg struct{ err error }

// rootsChangedMsg reports that the watched search roots' top level has
// changed on disk (a clone appeared, a checkout was removed). It is
// handled identically to the Refresh key while in Normal state, and
// ignored otherwise (a Loading/Error/ModeSelect overlay already owns
// the next transition).
type rootsChangedMsg struct{}
