package discovery

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// listSubmodulePaths parses a repository's .gitmodules file for
// "path = ..." entries, the minimal subset needed to synthesize
// parent>child records; it does not need a full git object reader.
func listSubmodulePaths(repoPath string) []string {
	f, err := os.Open(filepath.Join(repoPath, ".gitmodules"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(key) != "path" {
			continue
		}
		paths = append(paths, strings.TrimSpace(value))
	}
	return paths
}
