package discovery

import "github.com/cloudflare/ahocorasick"

// excludeMatcher wraps an Aho-Corasick automaton over the user's
// exclusion patterns, left-most-first semantics: a path is excluded if
// it textually contains any configured pattern.
type excludeMatcher struct {
	matcher  *ahocorasick.Matcher
	patterns []string
}

func newExcludeMatcher(patterns []string) *excludeMatcher {
	if len(patterns) == 0 {
		return &excludeMatcher{}
	}
	return &excludeMatcher{
		matcher:  ahocorasick.NewStringMatcher(patterns),
		patterns: patterns,
	}
}

// match reports whether text contains any configured exclusion pattern.
func (e *excludeMatcher) match(text string) bool {
	if e == nil || e.matcher == nil {
		return false
	}
	return len(e.matcher.Match([]byte(text))) > 0
}
