// Package worktrees builds the Repos and Worktrees sections: per-repo
// summary rows, `git worktree list --porcelain` parsing, and the git-derived
// alerts that feed the Home section, following collectors/git_worktrees.rs,
// the only non-stub collector upstream.
package worktrees

import (
	"context"
	"os/exec"
	"sort"
	"strings"

	"github.com/indranilbora/agentpulse/internal/action"
	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/indranilbora/agentpulse/internal/recommend"
	"github.com/indranilbora/agentpulse/internal/snapshot"
	"github.com/indranilbora/agentpulse/pkg/logger"
)

var log = logger.New("collector:worktrees")

// CollectRepoRows builds one RepoRow per repo, sorted by (dirty desc,
// behind desc, ahead desc, name asc).
func CollectRepoRows(repos []gitrepo.Repo) []snapshot.RepoRow {
	rows := make([]snapshot.RepoRow, 0, len(repos))
	for _, repo := range repos {
		rec := recommend.For(repo)
		var cmd *snapshot.ActionCommand
		if rec.Priority != recommend.PriorityIdle {
			cmd = &snapshot.ActionCommand{Label: rec.Short, Command: rec.Kind.Preview()}
		}
		rows = append(rows, snapshot.RepoRow{
			Name:           repo.Name,
			Path:           repo.Path,
			Branch:         repo.Status.Branch,
			Dirty:          repo.Status.UncommittedCount,
			Ahead:          repo.Status.UnpushedCount,
			Behind:         repo.Status.BehindCount,
			Stash:          repo.Status.StashCount,
			Recommendation: rec.Short,
			Action:         cmd,
			Kind:           rec.Kind,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Dirty != b.Dirty {
			return a.Dirty > b.Dirty
		}
		if a.Behind != b.Behind {
			return a.Behind > b.Behind
		}
		if a.Ahead != b.Ahead {
			return a.Ahead > b.Ahead
		}
		return a.Name < b.Name
	})
	return rows
}

// CollectWorktrees runs `git worktree list --porcelain` for each repo and
// parses the result; a repo whose invocation fails or reports no entries
// falls back to a single default row.
func CollectWorktrees(ctx context.Context, repos []gitrepo.Repo) []snapshot.WorktreeRow {
	var rows []snapshot.WorktreeRow

	for _, repo := range repos {
		cmd := exec.CommandContext(ctx, "git", "worktree", "list", "--porcelain")
		cmd.Dir = repo.Path
		out, err := cmd.Output()
		if err != nil {
			log.Printf("git worktree list failed for %s: %v", repo.Path, err)
			rows = append(rows, defaultWorktreeRow(repo))
			continue
		}

		parsed := parseWorktreeOutput(repo, string(out))
		if len(parsed) == 0 {
			rows = append(rows, defaultWorktreeRow(repo))
			continue
		}
		rows = append(rows, parsed...)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Repo != rows[j].Repo {
			return rows[i].Repo < rows[j].Repo
		}
		return rows[i].Path < rows[j].Path
	})
	return rows
}

// CollectGitAlerts derives Home-section alerts from already-built repo rows
// and worktree rows, truncated to 120 entries.
func CollectGitAlerts(repoRows []snapshot.RepoRow, worktreeRows []snapshot.WorktreeRow) []snapshot.DashboardAlert {
	var alerts []snapshot.DashboardAlert

	for _, row := range repoRows {
		if row.Dirty > 0 {
			alerts = append(alerts, snapshot.DashboardAlert{
				Severity: "warn",
				Title:    row.Name + " has local changes",
				Detail:   pluralCommits(row.Dirty) + " modified/untracked",
				Repo:     row.Name,
				Action: &snapshot.ActionCommand{
					Label:   "open status",
					Command: action.GitStatus{RepoPath: row.Path}.Preview(),
				},
			})
		}
		if row.Behind > 0 {
			alerts = append(alerts, snapshot.DashboardAlert{
				Severity: "high",
				Title:    row.Name + " is behind remote",
				Detail:   pluralCommits(row.Behind) + " behind",
				Repo:     row.Name,
				Action: &snapshot.ActionCommand{
					Label:   "pull --rebase",
					Command: action.GitPullRebase{RepoPath: row.Path}.Preview(),
				},
			})
		}
		if row.Ahead > 0 {
			alerts = append(alerts, snapshot.DashboardAlert{
				Severity: "info",
				Title:    row.Name + " has unpushed commits",
				Detail:   pluralCommits(row.Ahead) + " ahead",
				Repo:     row.Name,
				Action: &snapshot.ActionCommand{
					Label:   "push",
					Command: action.GitPush{RepoPath: row.Path}.Preview(),
				},
			})
		}
	}

	for _, wt := range worktreeRows {
		if !wt.Detached {
			continue
		}
		alerts = append(alerts, snapshot.DashboardAlert{
			Severity: "high",
			Title:    "Detached worktree in " + wt.Repo,
			Detail:   wt.Path + " is detached",
			Repo:     wt.Repo,
			Action: &snapshot.ActionCommand{
				Label:   "inspect worktree",
				Command: action.GitStatus{RepoPath: wt.Path}.Preview(),
			},
		})
	}

	if len(alerts) > 120 {
		alerts = alerts[:120]
	}
	return alerts
}

func pluralCommits(n int) string {
	if n == 1 {
		return "1 commit"
	}
	return strings.TrimSpace(strings.Join([]string{intToString(n), "commits"}, " "))
}

func intToString(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func defaultWorktreeRow(repo gitrepo.Repo) snapshot.WorktreeRow {
	return snapshot.WorktreeRow{
		Repo:     repo.Name,
		Path:     repo.Path,
		Branch:   repo.Status.Branch,
		Detached: repo.Status.IsDetached,
		Bare:     false,
		Action: &snapshot.ActionCommand{
			Label:   "list worktrees",
			Command: action.GitWorktreeList{RepoPath: repo.Path}.Preview(),
		},
	}
}

type worktreeAccumulator struct {
	path     string
	branch   string
	detached bool
	bare     bool
}

// parseWorktreeOutput parses the blank-line-separated porcelain records
// produced by `git worktree list --porcelain`.
func parseWorktreeOutput(repo gitrepo.Repo, raw string) []snapshot.WorktreeRow {
	var out []snapshot.WorktreeRow
	var cur worktreeAccumulator

	flush := func() {
		if cur.path == "" {
			return
		}
		branch := cur.branch
		if branch == "" {
			branch = repo.Status.Branch
		}
		out = append(out, snapshot.WorktreeRow{
			Repo:     repo.Name,
			Path:     cur.path,
			Branch:   branch,
			Detached: cur.detached,
			Bare:     cur.bare,
			Action: &snapshot.ActionCommand{
				Label:   "open worktree",
				Command: action.GitStatus{RepoPath: cur.path}.Preview(),
			},
		})
		cur = worktreeAccumulator{}
	}

	for _, rawLine := range strings.Split(raw, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			flush()
			continue
		}

		if path, ok := strings.CutPrefix(line, "worktree "); ok {
			if cur.path != "" {
				flush()
			}
			cur.path = path
			continue
		}
		if branch, ok := strings.CutPrefix(line, "branch "); ok {
			cur.branch = strings.TrimPrefix(branch, "refs/heads/")
			continue
		}
		if line == "detached" {
			cur.detached = true
			continue
		}
		if line == "bare" {
			cur.bare = true
		}
	}
	flush()

	return out
}
