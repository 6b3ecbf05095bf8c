// Package recommend implements the first-match decision table that turns a
// repo's status into a single prioritized recommendation, following
// agent.rs's decision tree.
package recommend

import (
	"sort"

	"github.com/indranilbora/agentpulse/internal/action"
	"github.com/indranilbora/agentpulse/internal/gitrepo"
)

// Priority ranks recommendations for sorting and UI color; higher is more
// urgent.
type Priority int

const (
	PriorityIdle Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p Priority) Rank() int { return int(p) }

func (p Priority) Label() string {
	switch p {
	case PriorityCritical:
		return "Critical"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return "Idle"
	}
}

// Recommendation pairs a repo with its single highest-priority action.
type Recommendation struct {
	Repo     gitrepo.Repo
	Priority Priority
	Short    string
	Reason   string
	Kind     action.Kind
}

// For evaluates the first-match decision table against a single repo's
// status, returning exactly one recommendation. Order matters:
// the table is checked top to bottom and the first matching row wins.
func For(repo gitrepo.Repo) Recommendation {
	s := repo.Status

	switch {
	case s.IsDetached:
		return Recommendation{
			Repo: repo, Priority: PriorityCritical, Short: "reattach to a branch",
			Reason: "HEAD is detached; work here is unreachable from any branch",
			Kind:   action.GitSwitchCreate{RepoPath: repo.Path, Branch: "rescue-work"},
		}
	case s.BehindCount > 0 && s.UncommittedCount > 0:
		return Recommendation{
			Repo: repo, Priority: PriorityCritical, Short: "commit, then rebase onto upstream",
			Reason: "local changes conflict with a remote that has moved ahead",
			Kind:   action.GitAddCommitPullRebase{RepoPath: repo.Path, Message: "wip"},
		}
	case s.BehindCount > 0 && s.UnpushedCount > 0:
		return Recommendation{
			Repo: repo, Priority: PriorityHigh, Short: "rebase onto upstream, then push",
			Reason: "local and remote commits have diverged",
			Kind:   action.GitPullRebasePush{RepoPath: repo.Path},
		}
	case s.BehindCount > 0:
		return Recommendation{
			Repo: repo, Priority: PriorityHigh, Short: "pull with rebase",
			Reason: "remote has commits not yet in the local branch",
			Kind:   action.GitPullRebase{RepoPath: repo.Path},
		}
	case s.UncommittedCount > 0 && s.UnpushedCount > 0:
		return Recommendation{
			Repo: repo, Priority: PriorityHigh, Short: "commit, then push",
			Reason: "uncommitted work sits alongside commits not yet pushed",
			Kind:   action.GitAddCommitPush{RepoPath: repo.Path, Message: "wip"},
		}
	case s.UncommittedCount > 0:
		return Recommendation{
			Repo: repo, Priority: PriorityMedium, Short: "commit local changes",
			Reason: "modified or untracked files are not yet committed",
			Kind:   action.GitAddCommit{RepoPath: repo.Path, Message: "wip"},
		}
	case s.UnpushedCount > 0:
		return Recommendation{
			Repo: repo, Priority: PriorityMedium, Short: "push commits",
			Reason: "local commits have not been pushed to the remote",
			Kind:   action.GitPush{RepoPath: repo.Path},
		}
	case s.StashCount > 0:
		return Recommendation{
			Repo: repo, Priority: PriorityLow, Short: "review stashed changes",
			Reason: "stashed work is sitting unreviewed",
			Kind:   action.GitStashList{RepoPath: repo.Path},
		}
	case !s.HasRemote:
		return Recommendation{
			Repo: repo, Priority: PriorityLow, Short: "configure a remote",
			Reason: "repo has no remote to push to or pull from",
			Kind:   action.GitRemoteList{RepoPath: repo.Path},
		}
	default:
		return Recommendation{
			Repo: repo, Priority: PriorityIdle, Short: "nothing to do",
			Reason: "working tree is clean and up to date",
			Kind:   action.GitStatus{RepoPath: repo.Path},
		}
	}
}

// Sorted returns one Recommendation per repo, ordered by priority descending
// then repo name ascending.
func Sorted(repos []gitrepo.Repo) []Recommendation {
	recs := make([]Recommendation, 0, len(repos))
	for _, r := range repos {
		recs = append(recs, For(r))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority > recs[j].Priority
		}
		return recs[i].Repo.Name < recs[j].Repo.Name
	})
	return recs
}
