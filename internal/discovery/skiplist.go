package discovery

import "sort"

// fastSkipList is the fixed, sorted set of basenames known to contain
// vast, repository-free subtrees (package manager caches, build
// output, virtual environments). Pruned unconditionally, probed by
// binary search.
var fastSkipList = sortedSkipList([]string{
	".cache",
	".gradle",
	".m2",
	".next",
	".nuxt",
	".terraform",
	".turbo",
	".venv",
	"DerivedData",
	"Pods",
	"__pycache__",
	"build",
	"dist",
	"node_modules",
	"target",
	"vendor",
})

func sortedSkipList(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

// isFastSkip reports whether basename is on the fast-skip list.
func isFastSkip(basename string) bool {
	i := sort.SearchStrings(fastSkipList, basename)
	return i < len(fastSkipList) && fastSkipList[i] == basename
}
