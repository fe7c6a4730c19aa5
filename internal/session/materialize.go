// Package session maps a picked item to a multiplexer session:
// computing the session name, creating or reusing the session, and
// running an optional post-create hook.
package session

import (
	"fmt"
	"os/exec"

	"github.com/atotto/clipboard"

	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

// Options tunes one materialization.
type Options struct {
	// CreateScript, if set, is run once right after a brand-new session
	// is created, invoked as "CreateScript <path> <session-name>".
	CreateScript string
	// CopyPath, if set, places the item's absolute path on the system
	// clipboard after a successful switch.
	CopyPath bool
}

// Materialize switches to (creating if necessary) a multiplexer session
// rooted at item's path.
func Materialize(tmux Tmux, item domain.SessionItem, opts Options) error {
	name := SanitizeName(item.VisibleName)
	path := item.Repo.AbsolutePath

	if !tmux.SessionExists(name) {
		if err := tmux.NewSession(name, path); err != nil {
			return fmt.Errorf("session: creating %q at %s: %w", name, path, err)
		}
		if opts.CreateScript != "" {
			if err := runCreateScript(opts.CreateScript, path, name); err != nil {
				return fmt.Errorf("session: post-create script failed: %w", err)
			}
		}
	}

	if err := tmux.SwitchTo(name); err != nil {
		return fmt.Errorf("session: switching to %q: %w", name, err)
	}

	if opts.CopyPath {
		if err := clipboard.WriteAll(path); err != nil {
			return fmt.Errorf("session: copying path to clipboard: %w", err)
		}
	}

	return nil
}

func runCreateScript(script, path, name string) error {
	cmd := exec.Command(script, path, name)
	return cmd.Run()
}
