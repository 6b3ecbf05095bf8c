// Package processes attributes running host processes to watched repos by
// scanning `ps` output for each repo's absolute path.
package processes

import (
	"context"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/indranilbora/agentpulse/internal/action"
	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/indranilbora/agentpulse/internal/snapshot"
	"github.com/indranilbora/agentpulse/pkg/constants"
	"github.com/indranilbora/agentpulse/pkg/logger"
	"github.com/indranilbora/agentpulse/pkg/stringutil"
)

var log = logger.New("collector:processes")

// Collect runs `ps -axo pid=,etime=,command=` once and attributes each
// process line to every repo whose absolute path is a substring of the
// command. Any I/O error degrades to an empty result. Commands
// are truncated to 160 characters; rows are capped at 200 and sorted by
// (repo, pid).
func Collect(ctx context.Context, repos []gitrepo.Repo) []snapshot.RepoProcess {
	out, err := exec.CommandContext(ctx, "ps", "-axo", "pid=,etime=,command=").Output()
	if err != nil {
		log.Printf("ps invocation failed: %v", err)
		return nil
	}

	var rows []snapshot.RepoProcess
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pidStr, rest, ok := cutField(line)
		if !ok {
			continue
		}
		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			continue
		}
		elapsed, command, ok := cutField(rest)
		if !ok {
			continue
		}

		for _, repo := range repos {
			if !strings.Contains(command, repo.Path) {
				continue
			}
			rows = append(rows, snapshot.RepoProcess{
				Repo:    repo.Name,
				PID:     pid,
				Elapsed: elapsed,
				Command: stringutil.Truncate(command, constants.MaxProcessCommandLength),
				Action: &snapshot.ActionCommand{
					Label:   "kill process",
					Command: action.KillProcess{PID: pid}.Preview(),
				},
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Repo != rows[j].Repo {
			return rows[i].Repo < rows[j].Repo
		}
		return rows[i].PID < rows[j].PID
	})

	if len(rows) > constants.MaxRepoProcessRows {
		rows = rows[:constants.MaxRepoProcessRows]
	}
	return rows
}

func cutField(s string) (field, rest string, ok bool) {
	s = strings.TrimLeft(s, " ")
	idx := strings.IndexByte(s, ' ')
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], strings.TrimLeft(s[idx+1:], " "), true
}

