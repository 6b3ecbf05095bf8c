// Package dependencies reports manifest/lockfile ecosystem health for each
// watched repo: which ecosystems are present, and whether each
// has the lockfile its tooling expects.
package dependencies

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/indranilbora/agentpulse/internal/action"
	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/indranilbora/agentpulse/internal/snapshot"
	"github.com/indranilbora/agentpulse/pkg/logger"
	"golang.org/x/mod/modfile"
)

var log = logger.New("collector:dependencies")

type manifestRule struct {
	manifest     string
	ecosystem    string
	lockfiles    []string
	lockfileNote string
}

var rules = []manifestRule{
	{"package.json", "node", []string{"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "bun.lockb"}, "no lockfile (package-lock.json, yarn.lock, pnpm-lock.yaml, or bun.lockb)"},
	{"Cargo.toml", "rust", []string{"Cargo.lock"}, "no Cargo.lock"},
	{"pyproject.toml", "python", []string{"poetry.lock", "uv.lock", "requirements.txt"}, "no poetry.lock, uv.lock, or requirements.txt"},
	{"go.mod", "go", nil, ""},
	{"Gemfile", "ruby", []string{"Gemfile.lock"}, "no Gemfile.lock"},
}

// Collect inspects each repo's manifest files and reports ecosystems found
// plus any lockfile/constraint issues, attaching the first relevant
// remediation action. I/O errors degrade silently to "not
// present".
func Collect(repos []gitrepo.Repo) []snapshot.DependencyHealth {
	out := make([]snapshot.DependencyHealth, 0, len(repos))
	for _, repo := range repos {
		out = append(out, collectRepo(repo))
	}
	return out
}

func collectRepo(repo gitrepo.Repo) snapshot.DependencyHealth {
	var ecosystems []string
	var issues []string
	var remediation *snapshot.ActionCommand

	for _, rule := range rules {
		manifestPath := filepath.Join(repo.Path, rule.manifest)
		if !exists(manifestPath) {
			continue
		}
		ecosystems = append(ecosystems, rule.ecosystem)

		switch rule.ecosystem {
		case "go":
			issue, act := checkGoMod(repo, manifestPath)
			if issue != "" {
				issues = append(issues, issue)
				if remediation == nil {
					remediation = act
				}
			}
		case "python":
			if !anyExists(repo.Path, rule.lockfiles) {
				issues = append(issues, rule.lockfileNote)
				if remediation == nil {
					remediation = &snapshot.ActionCommand{Label: "uv lock", Command: action.UvLock{RepoPath: repo.Path}.Preview()}
				}
			}
			if unconstrained := countUnconstrainedRequirements(repo.Path); unconstrained > 0 {
				issues = append(issues, unconstrainedNote(unconstrained))
				if remediation == nil {
					remediation = &snapshot.ActionCommand{Label: "pip-compile requirements.txt", Command: action.PipCompileRequirements{RepoPath: repo.Path}.Preview()}
				}
			}
		default:
			if len(rule.lockfiles) > 0 && !anyExists(repo.Path, rule.lockfiles) {
				issues = append(issues, rule.lockfileNote)
				if remediation == nil {
					remediation = lockfileAction(rule.ecosystem, repo.Path)
				}
			}
		}
	}

	return snapshot.DependencyHealth{
		Repo:       repo.Name,
		Path:       repo.Path,
		Ecosystems: ecosystems,
		IssueCount: len(issues),
		Issues:     issues,
		Action:     remediation,
	}
}

func checkGoMod(repo gitrepo.Repo, manifestPath string) (string, *snapshot.ActionCommand) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		log.Printf("reading %s: %v", manifestPath, err)
		return "", nil
	}
	if _, err := modfile.Parse(manifestPath, data, nil); err != nil {
		return "go.mod failed to parse: " + err.Error(), &snapshot.ActionCommand{
			Label: "go mod tidy", Command: action.GoModTidy{RepoPath: repo.Path}.Preview(),
		}
	}
	return "", nil
}

func lockfileAction(ecosystem, repoPath string) *snapshot.ActionCommand {
	switch ecosystem {
	case "node":
		return &snapshot.ActionCommand{Label: "npm install --package-lock-only", Command: action.NpmInstallLockfile{RepoPath: repoPath}.Preview()}
	case "rust":
		return &snapshot.ActionCommand{Label: "cargo generate-lockfile", Command: action.CargoGenerateLockfile{RepoPath: repoPath}.Preview()}
	case "ruby":
		return &snapshot.ActionCommand{Label: "bundle lock", Command: action.BundleLock{RepoPath: repoPath}.Preview()}
	default:
		return nil
	}
}

func countUnconstrainedRequirements(repoPath string) int {
	path := filepath.Join(repoPath, "requirements.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	markers := []string{"==", ">=", "<=", "~=", "@"}
	n := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		constrained := false
		for _, m := range markers {
			if strings.Contains(line, m) {
				constrained = true
				break
			}
		}
		if !constrained {
			n++
		}
	}
	return n
}

func unconstrainedNote(n int) string {
	if n == 1 {
		return "1 requirement without a version constraint"
	}
	return pluralize(n) + " requirements without a version constraint"
}

func pluralize(n int) string {
	return itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func anyExists(repoPath string, names []string) bool {
	for _, name := range names {
		if exists(filepath.Join(repoPath, name)) {
			return true
		}
	}
	return false
}
