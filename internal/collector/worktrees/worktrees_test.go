package worktrees

import (
	"testing"

	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/indranilbora/agentpulse/internal/snapshot"
	"github.com/stretchr/testify/require"
)

func TestParseWorktreeOutputParsesPorcelain(t *testing.T) {
	repo := gitrepo.New("/tmp/example")
	repo.Status = gitrepo.RepoStatus{Branch: "main", HasRemote: true}

	raw := "worktree /tmp/example\nHEAD deadbeef\nbranch refs/heads/main\n\nworktree /tmp/example-wt\nHEAD cafe\ndetached\n"
	rows := parseWorktreeOutput(repo, raw)

	require.Len(t, rows, 2)
	require.Equal(t, "main", rows[0].Branch)
	require.True(t, rows[1].Detached)
}

func TestCollectRepoRowsSortsByDirtyThenBehindThenAheadThenName(t *testing.T) {
	repos := []gitrepo.Repo{
		reposWith("zeta", gitrepo.RepoStatus{HasRemote: true}),
		reposWith("alpha", gitrepo.RepoStatus{UncommittedCount: 2, HasRemote: true}),
		reposWith("beta", gitrepo.RepoStatus{UncommittedCount: 2, HasRemote: true}),
	}
	rows := CollectRepoRows(repos)
	require.Equal(t, "alpha", rows[0].Name)
	require.Equal(t, "beta", rows[1].Name)
	require.Equal(t, "zeta", rows[2].Name)
}

func TestCollectGitAlertsFlagsDirtyBehindAhead(t *testing.T) {
	rows := []snapshot.RepoRow{
		{Name: "a", Path: "/tmp/a", Dirty: 1},
		{Name: "b", Path: "/tmp/b", Behind: 2},
		{Name: "c", Path: "/tmp/c", Ahead: 3},
	}
	alerts := CollectGitAlerts(rows, nil)
	require.Len(t, alerts, 3)
}

func reposWith(name string, status gitrepo.RepoStatus) gitrepo.Repo {
	r := gitrepo.New("/tmp/" + name)
	r.Status = status
	return r
}
