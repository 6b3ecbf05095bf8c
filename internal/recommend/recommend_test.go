package recommend

import (
	"testing"

	"github.com/indranilbora/agentpulse/internal/action"
	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/stretchr/testify/require"
)

func repoWith(name string, status gitrepo.RepoStatus) gitrepo.Repo {
	r := gitrepo.New("/tmp/" + name)
	r.Status = status
	return r
}

func TestForDetachedIsCriticalReattach(t *testing.T) {
	rec := For(repoWith("a", gitrepo.RepoStatus{IsDetached: true}))
	require.Equal(t, PriorityCritical, rec.Priority)
	require.IsType(t, action.GitSwitchCreate{}, rec.Kind)
}

func TestForBehindAndUncommittedIsCriticalCommitRebase(t *testing.T) {
	rec := For(repoWith("a", gitrepo.RepoStatus{BehindCount: 2, UncommittedCount: 1, HasRemote: true}))
	require.Equal(t, PriorityCritical, rec.Priority)
	require.IsType(t, action.GitAddCommitPullRebase{}, rec.Kind)
}

func TestForBehindAndUnpushedIsHighRebasePush(t *testing.T) {
	rec := For(repoWith("a", gitrepo.RepoStatus{BehindCount: 1, UnpushedCount: 1, HasRemote: true}))
	require.Equal(t, PriorityHigh, rec.Priority)
	require.IsType(t, action.GitPullRebasePush{}, rec.Kind)
}

func TestForBehindOnlyIsHighPull(t *testing.T) {
	rec := For(repoWith("a", gitrepo.RepoStatus{BehindCount: 1, HasRemote: true}))
	require.Equal(t, PriorityHigh, rec.Priority)
	require.IsType(t, action.GitPullRebase{}, rec.Kind)
}

func TestForUncommittedAndUnpushedIsHighCommitPush(t *testing.T) {
	rec := For(repoWith("a", gitrepo.RepoStatus{UncommittedCount: 1, UnpushedCount: 1, HasRemote: true}))
	require.Equal(t, PriorityHigh, rec.Priority)
	require.IsType(t, action.GitAddCommitPush{}, rec.Kind)
}

func TestForUncommittedOnlyIsMediumCommit(t *testing.T) {
	rec := For(repoWith("a", gitrepo.RepoStatus{UncommittedCount: 1, HasRemote: true}))
	require.Equal(t, PriorityMedium, rec.Priority)
	require.IsType(t, action.GitAddCommit{}, rec.Kind)
}

func TestForUnpushedOnlyIsMediumPush(t *testing.T) {
	rec := For(repoWith("a", gitrepo.RepoStatus{UnpushedCount: 1, HasRemote: true}))
	require.Equal(t, PriorityMedium, rec.Priority)
	require.IsType(t, action.GitPush{}, rec.Kind)
}

func TestForStashOnlyIsLowReviewStash(t *testing.T) {
	rec := For(repoWith("a", gitrepo.RepoStatus{StashCount: 2, HasRemote: true}))
	require.Equal(t, PriorityLow, rec.Priority)
	require.IsType(t, action.GitStashList{}, rec.Kind)
}

func TestForNoRemoteIsLowSetRemote(t *testing.T) {
	rec := For(repoWith("a", gitrepo.RepoStatus{HasRemote: false}))
	require.Equal(t, PriorityLow, rec.Priority)
	require.IsType(t, action.GitRemoteList{}, rec.Kind)
}

func TestForCleanIsIdle(t *testing.T) {
	rec := For(repoWith("a", gitrepo.RepoStatus{HasRemote: true}))
	require.Equal(t, PriorityIdle, rec.Priority)
}

func TestSortedOrdersByPriorityThenName(t *testing.T) {
	repos := []gitrepo.Repo{
		repoWith("zeta", gitrepo.RepoStatus{HasRemote: true}),
		repoWith("alpha", gitrepo.RepoStatus{IsDetached: true}),
		repoWith("beta", gitrepo.RepoStatus{IsDetached: true}),
	}
	recs := Sorted(repos)
	require.Equal(t, "alpha", recs[0].Repo.Name)
	require.Equal(t, "beta", recs[1].Repo.Name)
	require.Equal(t, "zeta", recs[2].Repo.Name)
}
