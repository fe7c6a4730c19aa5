package pathutil

import (
	"strings"
)

// NormalizeSeparators collapses runs of the OS path separator into a
// single separator. It is purely textual: it never touches the
// filesystem. A leading separator is preserved when present. A trailing
// separator is stripped unless the result is the root path itself.
func NormalizeSeparators(text string) string {
	if text == "" {
		return text
	}

	sep := separator()
	leading := strings.HasPrefix(text, sep)

	segments := splitNonEmpty(text, sep)

	joined := strings.Join(segments, sep)
	if leading {
		joined = sep + joined
	}

	if joined == "" {
		if leading {
			return sep
		}
		return ""
	}

	return joined
}

func splitNonEmpty(text, sep string) []string {
	raw := strings.Split(text, sep)
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// separator is the path separator normalization operates on. It is kept
// as "/" regardless of GOOS: the paths this package normalizes come from
// configuration text and discovery output, which use forward slashes
// even when canonicalization later resolves them with filepath.
func separator() string { return "/" }
