// Package report formats a scanned repo list for agentpulse's non-interactive
// output modes: --once (table/JSON), --agent-brief (Markdown), --agent-json,
// and --summary, following main.rs's print_table/print_json and adding
// the agent-facing modes.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/indranilbora/agentpulse/internal/recommend"
	"github.com/indranilbora/agentpulse/pkg/constants"
)

// Table prints a fixed-width text table of repos to w, grounded on the
// original's print_table.
func Table(w io.Writer, repos []gitrepo.Repo) {
	if len(repos) == 0 {
		fmt.Fprintln(w, "No git repos found. Check your config.")
		return
	}

	nameW, branchW := 4, 6
	for _, r := range repos {
		if len(r.Name) > nameW {
			nameW = len(r.Name)
		}
		if len(r.Status.Branch) > branchW {
			branchW = len(r.Status.Branch)
		}
	}

	fmt.Fprintf(w, "%-*s  %-*s  %11s  %5s  STATUS\n", nameW, "NAME", branchW, "BRANCH", "UNCOMMITTED", "AHEAD")
	fmt.Fprintln(w, strings.Repeat("-", nameW+branchW+34))

	for _, r := range repos {
		indicator, label := statusGlyph(r)

		uncommitted := "-"
		if r.Status.UncommittedCount > 0 {
			uncommitted = fmt.Sprintf("%d", r.Status.UncommittedCount)
		}

		ahead := "n/a"
		if r.Status.HasRemote {
			ahead = "-"
			if r.Status.UnpushedCount > 0 {
				ahead = fmt.Sprintf("%d^", r.Status.UnpushedCount)
			}
		}

		fmt.Fprintf(w, "%s %-*s  %-*s  %11s  %5s  %s\n",
			indicator, max(nameW-2, 0), r.Name, branchW, r.Status.Branch, uncommitted, ahead, label)
	}
}

func statusGlyph(r gitrepo.Repo) (string, string) {
	switch {
	case !r.Status.HasRemote:
		return "o", "no remote"
	case r.Status.UncommittedCount > 0 && r.Status.UnpushedCount > 0:
		return "*", "dirty"
	case r.Status.UncommittedCount > 0:
		return "*", "uncommitted"
	case r.Status.UnpushedCount > 0:
		return "*", "unpushed"
	default:
		return "o", "clean"
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// repoTableRow is the shape printed by --once --json, matching the
// original's print_json field set.
type repoTableRow struct {
	Name            string `json:"name"`
	Path            string `json:"path"`
	Branch          string `json:"branch"`
	UncommittedCount int   `json:"uncommitted"`
	UnpushedCount   int    `json:"unpushed"`
	BehindCount     int    `json:"behind"`
	StashCount      int    `json:"stash"`
	HasRemote       bool   `json:"has_remote"`
	NeedsAttention  bool   `json:"needs_attention"`
}

// JSON emits repos as a JSON array, one object per repo, for --once --json.
func JSON(w io.Writer, repos []gitrepo.Repo) error {
	rows := make([]repoTableRow, 0, len(repos))
	for _, r := range repos {
		rows = append(rows, repoTableRow{
			Name:             r.Name,
			Path:             r.Path,
			Branch:           r.Status.Branch,
			UncommittedCount: r.Status.UncommittedCount,
			UnpushedCount:    r.Status.UnpushedCount,
			BehindCount:      r.Status.BehindCount,
			StashCount:       r.Status.StashCount,
			HasRemote:        r.Status.HasRemote,
			NeedsAttention:   r.NeedsAttention(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// Summary writes a one-line summary for --summary, matching the original's
// wording but renamed for this tool.
func Summary(w io.Writer, repos []gitrepo.Repo) {
	dirty := 0
	unpushed := 0
	for _, r := range repos {
		if r.NeedsAttention() {
			dirty++
		}
		if r.Status.UnpushedCount > 0 {
			unpushed++
		}
	}
	fmt.Fprintf(w, "%s: %d repos | %d dirty | %d unpushed\n", constants.CLIName, len(repos), dirty, unpushed)
}

// AnyActionable reports whether any repo needs attention, used to pick the
// process exit code.
func AnyActionable(repos []gitrepo.Repo) bool {
	for _, r := range repos {
		if r.NeedsAttention() {
			return true
		}
	}
	return false
}

// AgentBrief writes a Markdown-formatted ranked priority queue for
// --agent-brief.
func AgentBrief(w io.Writer, repos []gitrepo.Repo, now time.Time) {
	recs := recommend.Sorted(repos)

	fmt.Fprintf(w, "# Workspace priority queue\n\n_generated %s_\n\n", now.Format(time.RFC3339))
	if len(recs) == 0 {
		fmt.Fprintln(w, "No repos found.")
		return
	}

	for _, rec := range recs {
		if rec.Priority == recommend.PriorityIdle {
			continue
		}
		fmt.Fprintf(w, "- **%s** [%s] — %s\n", rec.Repo.Name, rec.Priority.Label(), rec.Short)
		fmt.Fprintf(w, "  - reason: %s\n", rec.Reason)
		fmt.Fprintf(w, "  - command: `%s`\n", rec.Kind.Preview())
	}

	idle := 0
	for _, rec := range recs {
		if rec.Priority == recommend.PriorityIdle {
			idle++
		}
	}
	if idle > 0 {
		fmt.Fprintf(w, "\n%d repo(s) need no action.\n", idle)
	}
}

// agentRepoRow is one entry of the --agent-json repos array.
type agentRepoRow struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	Branch       string `json:"branch"`
	Priority     string `json:"priority"`
	Action       string `json:"action"`
	ShortAction  string `json:"short_action"`
	Reason       string `json:"reason"`
	Command      string `json:"command"`
	Uncommitted  int    `json:"uncommitted"`
	Unpushed     int    `json:"unpushed"`
	Behind       int    `json:"behind"`
	Stash        int    `json:"stash"`
	HasRemote    bool   `json:"has_remote"`
	Detached     bool   `json:"detached"`
	Actionable   bool   `json:"actionable"`
}

// agentReport is the --agent-json envelope.
type agentReport struct {
	Tool            string         `json:"tool"`
	GeneratedAt     string         `json:"generated_at"`
	TotalRepos      int            `json:"total_repos"`
	ActionableRepos int            `json:"actionable_repos"`
	Repos           []agentRepoRow `json:"repos"`
}

// AgentJSON writes the structured per-repo recommendation envelope for
// --agent-json.
func AgentJSON(w io.Writer, repos []gitrepo.Repo, now time.Time) error {
	recs := recommend.Sorted(repos)

	rows := make([]agentRepoRow, 0, len(recs))
	actionable := 0
	for _, rec := range recs {
		isActionable := rec.Priority != recommend.PriorityIdle
		if isActionable {
			actionable++
		}
		rows = append(rows, agentRepoRow{
			Name:        rec.Repo.Name,
			Path:        rec.Repo.Path,
			Branch:      rec.Repo.Status.Branch,
			Priority:    rec.Priority.Label(),
			Action:      rec.Kind.Type(),
			ShortAction: rec.Short,
			Reason:      rec.Reason,
			Command:     rec.Kind.Preview(),
			Uncommitted: rec.Repo.Status.UncommittedCount,
			Unpushed:    rec.Repo.Status.UnpushedCount,
			Behind:      rec.Repo.Status.BehindCount,
			Stash:       rec.Repo.Status.StashCount,
			HasRemote:   rec.Repo.Status.HasRemote,
			Detached:    rec.Repo.Status.IsDetached,
			Actionable:  isActionable,
		})
	}

	report := agentReport{
		Tool:            string(constants.CLIName),
		GeneratedAt:     now.Format(time.RFC3339),
		TotalRepos:      len(repos),
		ActionableRepos: actionable,
		Repos:           rows,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
