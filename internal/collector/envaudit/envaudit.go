// Package envaudit discovers env files in each watched repo, diffs their
// keys against the repo's own example/sample templates, and flags tracked
// files that look like they leak secrets.
package envaudit

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/indranilbora/agentpulse/internal/action"
	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/indranilbora/agentpulse/internal/snapshot"
	"github.com/indranilbora/agentpulse/pkg/logger"
)

var log = logger.New("collector:envaudit")

var wellKnownEnvFiles = []string{
	".env", ".env.local", ".env.development", ".env.production", ".env.test",
	".env.example", ".env.sample",
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var secretMarkers = []string{"SECRET", "TOKEN", "PASSWORD", "API_KEY", "PRIVATE_KEY"}

// Collect audits each repo's env files.
func Collect(ctx context.Context, repos []gitrepo.Repo) []snapshot.EnvAuditResult {
	out := make([]snapshot.EnvAuditResult, 0, len(repos))
	for _, repo := range repos {
		out = append(out, collectRepo(ctx, repo))
	}
	return out
}

func collectRepo(ctx context.Context, repo gitrepo.Repo) snapshot.EnvAuditResult {
	var presentFiles []string
	expected := map[string]struct{}{}
	actual := map[string]struct{}{}
	var trackedSecretFiles []string

	for _, name := range wellKnownEnvFiles {
		path := filepath.Join(repo.Path, name)
		keys, ok := parseEnvFile(path)
		if !ok {
			continue
		}
		presentFiles = append(presentFiles, name)

		isTemplate := strings.HasSuffix(name, ".example") || strings.HasSuffix(name, ".sample")
		target := actual
		if isTemplate {
			target = expected
		}
		for _, k := range keys {
			target[k] = struct{}{}
		}

		if !isTemplate && isTracked(ctx, repo.Path, name) && containsSecretKey(keys) {
			trackedSecretFiles = append(trackedSecretFiles, name)
		}
	}

	missing := setDifference(expected, actual)
	extra := setDifference(actual, expected)

	var act *snapshot.ActionCommand
	if len(trackedSecretFiles) > 0 {
		act = &snapshot.ActionCommand{
			Label:   "ignore env files",
			Command: action.IgnoreEnvFiles{RepoPath: repo.Path, Files: trackedSecretFiles}.Preview(),
		}
	}

	return snapshot.EnvAuditResult{
		Repo:               repo.Name,
		Path:               repo.Path,
		EnvFiles:           presentFiles,
		MissingKeys:        missing,
		ExtraKeys:          extra,
		TrackedSecretFiles: trackedSecretFiles,
		Action:             act,
	}
}

// parseEnvFile reads path and returns its keys; ok is false if the file
// does not exist or cannot be read.
func parseEnvFile(path string) ([]string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var keys []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		if !keyPattern.MatchString(key) {
			continue
		}
		keys = append(keys, key)
	}
	return keys, true
}

func containsSecretKey(keys []string) bool {
	for _, k := range keys {
		upper := strings.ToUpper(k)
		for _, marker := range secretMarkers {
			if strings.Contains(upper, marker) {
				return true
			}
		}
	}
	return false
}

func isTracked(ctx context.Context, repoPath, relPath string) bool {
	cmd := exec.CommandContext(ctx, "git", "ls-files", "--error-unmatch", relPath)
	cmd.Dir = repoPath
	if err := cmd.Run(); err != nil {
		log.Printf("git ls-files %s in %s: %v", relPath, repoPath, err)
		return false
	}
	return true
}

func setDifference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, found := b[k]; !found {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
