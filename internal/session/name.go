package session

import "strings"

// SanitizeName replaces the structural punctuation tmux disallows in a
// session name: the dot and the colon it uses as session/window
// separators.
func SanitizeName(raw string) string {
	r := strings.NewReplacer(".", "_", ":", "_")
	return r.Replace(raw)
}
