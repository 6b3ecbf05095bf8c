// Package executor runs a confirmed action.Kind and reports a single-line
// notification plus a completion event for cache invalidation, following
// actions.rs's run_action. Every subprocess is started with a fixed argv
// array; none are ever passed through a shell.
package executor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/indranilbora/agentpulse/internal/action"
	"github.com/indranilbora/agentpulse/pkg/logger"
)

var execLog = logger.New("executor")

// Completion is emitted after an action finishes, success or failure, so the
// caller can invalidate the status cache for the affected repo.
type Completion struct {
	AffectedRepoPath string
	HasRepoPath      bool
}

// Result is the outcome of Run: a user-facing notification line and the
// completion event.
type Result struct {
	Notification string
	Completion   Completion
}

// Run executes kind synchronously and returns its notification line and
// completion event. Callers that want the original fire-and-forget
// behavior should invoke Run from their own goroutine.
func Run(ctx context.Context, kind action.Kind) Result {
	path, hasPath := kind.AffectedRepoPath()
	completion := Completion{AffectedRepoPath: path, HasRepoPath: hasPath}

	first, err := execute(ctx, kind)
	if err != nil {
		execLog.Printf("action %s failed: %v", kind.Type(), err)
		return Result{
			Notification: fmt.Sprintf("✗ action — %s (review and retry)", err),
			Completion:   completion,
		}
	}

	hint := successHint(kind)
	var notif string
	if first == "" {
		notif = fmt.Sprintf("✓ action — done (%s)", hint)
	} else {
		notif = fmt.Sprintf("✓ action — %s (%s)", first, hint)
	}
	return Result{Notification: notif, Completion: completion}
}

func execute(ctx context.Context, kind action.Kind) (string, error) {
	switch a := kind.(type) {
	case action.GitStatus:
		return runGit(ctx, a.RepoPath, "status", "-sb")
	case action.GitFetch:
		return runGit(ctx, a.RepoPath, "fetch", "--quiet")
	case action.GitPullRebase:
		return runGit(ctx, a.RepoPath, "pull", "--rebase")
	case action.GitPush:
		return runGit(ctx, a.RepoPath, "push")
	case action.GitWorktreeList:
		return runGit(ctx, a.RepoPath, "worktree", "list")
	case action.GitStashList:
		return runGit(ctx, a.RepoPath, "stash", "list")
	case action.GitRemoteList:
		return runGit(ctx, a.RepoPath, "remote", "-v")
	case action.GitSwitchCreate:
		return runGit(ctx, a.RepoPath, "switch", "-c", a.Branch)
	case action.GitAddCommit:
		if _, err := runGit(ctx, a.RepoPath, "add", "-A"); err != nil {
			return "", err
		}
		return runGit(ctx, a.RepoPath, "commit", "-m", a.Message)
	case action.GitAddCommitPush:
		if _, err := runGit(ctx, a.RepoPath, "add", "-A"); err != nil {
			return "", err
		}
		if _, err := runGit(ctx, a.RepoPath, "commit", "-m", a.Message); err != nil {
			return "", err
		}
		return runGit(ctx, a.RepoPath, "push")
	case action.GitAddCommitPullRebase:
		if _, err := runGit(ctx, a.RepoPath, "add", "-A"); err != nil {
			return "", err
		}
		if _, err := runGit(ctx, a.RepoPath, "commit", "-m", a.Message); err != nil {
			return "", err
		}
		return runGit(ctx, a.RepoPath, "pull", "--rebase")
	case action.GitPullRebasePush:
		if _, err := runGit(ctx, a.RepoPath, "pull", "--rebase"); err != nil {
			return "", err
		}
		return runGit(ctx, a.RepoPath, "push")
	case action.KillProcess:
		return runCmd(ctx, "", "kill", fmt.Sprintf("%d", a.PID))
	case action.NpmInstallLockfile:
		return runCmd(ctx, a.RepoPath, "npm", "install", "--package-lock-only")
	case action.CargoGenerateLockfile:
		return runCmd(ctx, a.RepoPath, "cargo", "generate-lockfile")
	case action.UvLock:
		return runCmd(ctx, a.RepoPath, "uv", "lock")
	case action.PipCompileRequirements:
		return runCmd(ctx, a.RepoPath, "pip-compile", "requirements.txt")
	case action.GoModTidy:
		return runCmd(ctx, a.RepoPath, "go", "mod", "tidy")
	case action.BundleLock:
		return runCmd(ctx, a.RepoPath, "bundle", "lock")
	case action.IgnoreEnvFiles:
		return ignoreEnvFiles(ctx, a)
	case action.SeedEnvFromExample:
		return seedEnvFromExample(a)
	case action.ProbeBinaryHelp:
		return runCmd(ctx, "", a.Binary, "--help")
	case action.CheckBinaryInPath:
		if _, ok := resolveBinaryInPath(a.Binary); ok {
			return fmt.Sprintf("found %s", a.Binary), nil
		}
		return "", fmt.Errorf("%s not found in PATH", a.Binary)
	case action.ShowMessage:
		return a.Message, nil
	default:
		return "", fmt.Errorf("unrecognized action type %T", kind)
	}
}

func runGit(ctx context.Context, repoPath string, args ...string) (string, error) {
	return runCmd(ctx, repoPath, "git", args...)
}

// runCmd runs program with a fixed argv array and no shell. dir may be empty
// to inherit the current working directory.
func runCmd(ctx context.Context, dir, program string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := firstLine(stderr.String())
		if detail == "" {
			return "", fmt.Errorf("%s failed", program)
		}
		return "", fmt.Errorf("%s", detail)
	}
	return firstLine(stdout.String()), nil
}

func firstLine(s string) string {
	scanner := bufio.NewScanner(strings.NewReader(s))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

func ignoreEnvFiles(ctx context.Context, a action.IgnoreEnvFiles) (string, error) {
	if err := appendEnvPatternToGitignore(a.RepoPath); err != nil {
		return "", err
	}
	if len(a.Files) == 0 {
		return "updated .gitignore", nil
	}
	args := append([]string{"rm", "--cached", "--"}, a.Files...)
	return runGit(ctx, a.RepoPath, args...)
}

// appendEnvPatternToGitignore idempotently appends the line ".env*" to
// <repoPath>/.gitignore, creating it if absent.
func appendEnvPatternToGitignore(repoPath string) error {
	path := filepath.Join(repoPath, ".gitignore")
	existing, err := os.ReadFile(path)
	if err != nil {
		existing = nil
	}
	content := string(existing)
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == ".env*" {
			return nil
		}
	}

	updated := content
	if updated != "" && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	updated += ".env*\n"
	return os.WriteFile(path, []byte(updated), 0o644)
}

func seedEnvFromExample(a action.SeedEnvFromExample) (string, error) {
	from := filepath.Join(a.RepoPath, ".env.example")
	to := filepath.Join(a.RepoPath, ".env")
	if _, err := os.Stat(from); err != nil {
		return "", fmt.Errorf(".env.example not found")
	}
	data, err := os.ReadFile(from)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(to, data, 0o644); err != nil {
		return "", err
	}
	return "seeded .env from .env.example", nil
}

func resolveBinaryInPath(binary string) (string, bool) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", false
	}
	return path, true
}

func successHint(kind action.Kind) string {
	switch kind.(type) {
	case action.KillProcess:
		return "process stopped"
	case action.IgnoreEnvFiles:
		return "secrets protected; review git status"
	case action.GitPullRebase, action.GitPush, action.GitAddCommit, action.GitAddCommitPush,
		action.GitAddCommitPullRebase, action.GitPullRebasePush:
		return "changes applied; status will refresh"
	default:
		return "done"
	}
}
