package gitrepo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeGitRepo(t *testing.T, base, name string) string {
	t.Helper()
	repo := filepath.Join(base, name)
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	return repo
}

func TestFindReposFindsTopLevelReposAndStopsDescending(t *testing.T) {
	base := t.TempDir()
	repoA := makeGitRepo(t, base, "repo_a")
	makeGitRepo(t, base, "repo_b")
	nested := filepath.Join(repoA, "subdir")
	require.NoError(t, os.MkdirAll(filepath.Join(nested, ".git"), 0o755))

	repos := FindRepos([]string{base}, 3)

	require.Contains(t, repos, repoA)
	require.Contains(t, repos, filepath.Join(base, "repo_b"))
	require.NotContains(t, repos, nested)
}

func TestFindReposSkipsSkipListAndHiddenDirs(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "node_modules", "some_pkg", ".git"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, ".hidden", "repo", ".git"), 0o755))

	repos := FindRepos([]string{base}, 3)

	require.Empty(t, repos)
}

func TestFindReposIgnoresMissingRoots(t *testing.T) {
	repos := FindRepos([]string{"/nonexistent/agentpulse/path"}, 3)
	require.Empty(t, repos)
}

func TestFindReposMonotonicWithDepth(t *testing.T) {
	base := t.TempDir()
	deep := filepath.Join(base, "a", "b", "c")
	require.NoError(t, os.MkdirAll(filepath.Join(deep, ".git"), 0o755))

	shallow := FindRepos([]string{base}, 1)
	deeper := FindRepos([]string{base}, 4)

	for _, p := range shallow {
		require.Contains(t, deeper, p)
	}
	require.Contains(t, deeper, deep)
}

func TestFindReposDedupesAndSorts(t *testing.T) {
	base := t.TempDir()
	makeGitRepo(t, base, "zeta")
	makeGitRepo(t, base, "alpha")

	repos := FindRepos([]string{base, base}, 3)

	require.Len(t, repos, 2)
	require.Equal(t, filepath.Join(base, "alpha"), repos[0])
	require.Equal(t, filepath.Join(base, "zeta"), repos[1])
}
