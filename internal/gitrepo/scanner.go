package gitrepo

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/indranilbora/agentpulse/pkg/constants"
	"github.com/indranilbora/agentpulse/pkg/logger"
)

var scannerLog = logger.New("gitrepo:scanner")

var skipDirSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(constants.SkipDirs))
	for _, d := range constants.SkipDirs {
		m[d] = struct{}{}
	}
	return m
}()

// FindRepos performs a bounded DFS under each root, returning a sorted,
// deduplicated list of repository root paths. A directory is a
// repository root iff it contains a .git entry; the scanner records it and
// does not descend further. Hidden directories and the fixed skip set are
// never descended into. Missing roots and permission errors are swallowed.
func FindRepos(roots []string, maxDepth int) []string {
	var repos []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		scanDir(root, 0, maxDepth, &repos)
	}

	sort.Strings(repos)
	return dedup(repos)
}

func scanDir(dir string, depth, maxDepth int, repos *[]string) {
	if depth > maxDepth {
		return
	}

	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		*repos = append(*repos, dir)
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		scannerLog.Printf("skipping %s: %v", dir, err)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if _, skip := skipDirSet[name]; skip {
			continue
		}
		scanDir(filepath.Join(dir, name), depth+1, maxDepth, repos)
	}
}

func dedup(paths []string) []string {
	if len(paths) == 0 {
		return paths
	}
	out := paths[:1]
	for _, p := range paths[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
