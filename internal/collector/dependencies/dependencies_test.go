package dependencies

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/stretchr/testify/require"
)

func TestCollectFlagsMissingNodeLockfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644))

	repo := gitrepo.New(dir)
	results := Collect([]gitrepo.Repo{repo})

	require.Len(t, results, 1)
	require.Contains(t, results[0].Ecosystems, "node")
	require.Equal(t, 1, results[0].IssueCount)
	require.NotNil(t, results[0].Action)
}

func TestCollectCleanWhenLockfilePresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package-lock.json"), []byte("{}"), 0o644))

	repo := gitrepo.New(dir)
	results := Collect([]gitrepo.Repo{repo})

	require.Equal(t, 0, results[0].IssueCount)
	require.Nil(t, results[0].Action)
}

func TestCollectCountsUnconstrainedRequirements(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("requests\nflask==2.0\n"), 0o644))

	repo := gitrepo.New(dir)
	results := Collect([]gitrepo.Repo{repo})

	require.Contains(t, results[0].Issues[len(results[0].Issues)-1], "1 requirement")
}

func TestCollectNoEcosystemsWhenNoManifests(t *testing.T) {
	dir := t.TempDir()
	repo := gitrepo.New(dir)
	results := Collect([]gitrepo.Repo{repo})
	require.Empty(t, results[0].Ecosystems)
	require.Equal(t, 0, results[0].IssueCount)
}
