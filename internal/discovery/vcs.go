package discovery

import (
	"os"
	"path/filepath"
	"strings"
)

// vcsTag names a supported version-control probe, a tagged variant
// with one probe function per tag.
type vcsTag string

const (
	vcsGit vcsTag = "git"
	vcsJJ  vcsTag = "jj"
)

// probeResult reports what a single vcs probe found at a candidate
// repository root. openErr marks a marker that was present but could
// not be classified; such paths are counted as open failures and never
// emitted.
type probeResult struct {
	found    bool
	worktree bool
	openErr  bool
}

type vcsProbe func(path string) probeResult

func probeFor(tag vcsTag) vcsProbe {
	switch tag {
	case vcsJJ:
		return probeJJ
	default:
		return probeGit
	}
}

// ProbeMarker reports whether path still carries a repository marker
// for any of the given vcsProviders (falling back to git alone when
// empty). It uses metadata calls on the marker entries (plus, for a
// ".git" file, reading its gitdir pointer) and never enumerates a
// directory, which is all the local cache layer needs to revalidate
// a cached entry's continued existence without re-scanning.
func ProbeMarker(path string, vcsProviders []string) bool {
	for _, probe := range resolveProviders(vcsProviders) {
		if probe(path).found {
			return true
		}
	}
	return false
}

// resolveProviders maps the configured provider-preference list to
// probe functions, falling back to git alone when unset.
func resolveProviders(names []string) []vcsProbe {
	if len(names) == 0 {
		return []vcsProbe{probeGit}
	}
	probes := make([]vcsProbe, 0, len(names))
	for _, n := range names {
		switch strings.ToLower(n) {
		case "git":
			probes = append(probes, probeGit)
		case "jj", "jujutsu":
			probes = append(probes, probeJJ)
		}
	}
	if len(probes) == 0 {
		probes = append(probes, probeGit)
	}
	return probes
}

// probeGit looks for a ".git" marker and classifies a worktree by
// comparing the linked gitdir's commondir against the candidate's own
// path: a worktree's main repository resolves to somewhere else.
func probeGit(path string) probeResult {
	marker := filepath.Join(path, ".git")
	info, err := os.Lstat(marker)
	if err != nil {
		return probeResult{}
	}
	if info.IsDir() {
		return probeResult{found: true}
	}

	data, err := os.ReadFile(marker)
	if err != nil {
		return probeResult{found: true, openErr: true}
	}
	content := strings.TrimSpace(string(data))
	const prefix = "gitdir:"
	if !strings.HasPrefix(content, prefix) {
		return probeResult{found: true}
	}
	linkedDir := strings.TrimSpace(strings.TrimPrefix(content, prefix))
	if !filepath.IsAbs(linkedDir) {
		linkedDir = filepath.Join(path, linkedDir)
	}

	common := linkedDir
	if commonBytes, err := os.ReadFile(filepath.Join(linkedDir, "commondir")); err == nil {
		commonRel := strings.TrimSpace(string(commonBytes))
		if filepath.IsAbs(commonRel) {
			common = commonRel
		} else {
			common = filepath.Join(linkedDir, commonRel)
		}
	}

	mainRepo := filepath.Clean(filepath.Dir(common))
	return probeResult{found: true, worktree: mainRepo != filepath.Clean(path)}
}

// probeJJ looks for a ".jj" marker. A secondary workspace's ".jj/repo"
// entry is a symlink into the primary workspace's store rather than a
// local directory.
func probeJJ(path string) probeResult {
	marker := filepath.Join(path, ".jj")
	info, err := os.Lstat(marker)
	if err != nil || !info.IsDir() {
		return probeResult{}
	}

	repoEntry := filepath.Join(marker, "repo")
	entryInfo, err := os.Lstat(repoEntry)
	if err != nil {
		return probeResult{found: true}
	}
	return probeResult{found: true, worktree: entryInfo.Mode()&os.ModeSymlink != 0}
}
