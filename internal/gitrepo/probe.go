package gitrepo

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/indranilbora/agentpulse/pkg/constants"
	"github.com/indranilbora/agentpulse/pkg/logger"
)

var probeLog = logger.New("gitrepo:probe")

const gitProbeTimeout = time.Duration(constants.GitProbeTimeout) * time.Second

// CheckRepoStatus issues four concurrent git queries and degrades every
// failure to a safe default rather than propagating an error: unknown
// branch, zero counts, no remote.
func CheckRepoStatus(path string) RepoStatus {
	var wg sync.WaitGroup
	var branch string
	var isDetached bool
	var uncommitted int
	var unpushed, behind int
	var hasRemote bool
	var stash int

	wg.Add(1)
	go func() {
		defer wg.Done()
		branch, isDetached = probeBranch(path)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		uncommitted = probeUncommitted(path)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		unpushed, behind, hasRemote = probeRemoteCounts(path)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		stash = probeStashCount(path)
	}()

	wg.Wait()

	return RepoStatus{
		Branch:           branch,
		IsDetached:       isDetached,
		UncommittedCount: uncommitted,
		UnpushedCount:    unpushed,
		BehindCount:      behind,
		StashCount:       stash,
		HasRemote:        hasRemote,
	}
}

func runGit(path string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = path
	out, err := cmd.Output()
	if err != nil {
		probeLog.Printf("git %v in %s failed: %v", args, path, err)
		return "", err
	}
	return string(out), nil
}

func probeBranch(path string) (string, bool) {
	out, err := runGit(path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "unknown", false
	}
	branch := strings.TrimSpace(out)
	if branch == "" {
		branch = "unknown"
	}
	return branch, branch == "HEAD"
}

func probeUncommitted(path string) int {
	out, err := runGit(path, "status", "--porcelain")
	if err != nil {
		return 0
	}
	return countNonEmptyLines(out)
}

func probeStashCount(path string) int {
	out, err := runGit(path, "stash", "list")
	if err != nil {
		return 0
	}
	return countNonEmptyLines(out)
}

// probeRemoteCounts returns (unpushed, behind, hasRemote). The two rev-list
// counts run concurrently once a remote is confirmed.
func probeRemoteCounts(path string) (int, int, bool) {
	out, err := runGit(path, "remote")
	if err != nil || strings.TrimSpace(out) == "" {
		return 0, 0, false
	}

	var wg sync.WaitGroup
	var unpushed, behind int

	wg.Add(2)
	go func() {
		defer wg.Done()
		unpushed = probeRevListCount(path, "@{upstream}..HEAD")
	}()
	go func() {
		defer wg.Done()
		behind = probeRevListCount(path, "HEAD..@{upstream}")
	}()
	wg.Wait()

	return unpushed, behind, true
}

func probeRevListCount(path, rangeSpec string) int {
	out, err := runGit(path, "rev-list", "--count", rangeSpec)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0
	}
	return n
}

func countNonEmptyLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
