package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/indranilbora/agentpulse/internal/action"
	"github.com/stretchr/testify/require"
)

func TestRunShowMessageEmitsCompletionWithoutRepoPath(t *testing.T) {
	res := Run(context.Background(), action.ShowMessage{Message: "hello"})
	require.Contains(t, res.Notification, "hello")
	require.False(t, res.Completion.HasRepoPath)
}

func TestRunGitStatusIncludesRepoPathInCompletion(t *testing.T) {
	dir := t.TempDir()
	res := Run(context.Background(), action.GitStatus{RepoPath: dir})
	require.True(t, res.Completion.HasRepoPath)
	require.Equal(t, dir, res.Completion.AffectedRepoPath)
}

func TestRunCheckBinaryInPathFindsGit(t *testing.T) {
	res := Run(context.Background(), action.CheckBinaryInPath{Binary: "git"})
	require.Contains(t, res.Notification, "found git")
}

func TestRunCheckBinaryInPathFailsForUnknownBinary(t *testing.T) {
	res := Run(context.Background(), action.CheckBinaryInPath{Binary: "definitely-not-a-real-binary"})
	require.Contains(t, res.Notification, "✗")
}

func TestAppendEnvPatternToGitignoreIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("target/\n"), 0o644))

	require.NoError(t, appendEnvPatternToGitignore(dir))
	require.NoError(t, appendEnvPatternToGitignore(dir))

	raw, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)

	count := 0
	for _, line := range splitLines(string(raw)) {
		if line == ".env*" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func TestSeedEnvFromExampleFailsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	res := Run(context.Background(), action.SeedEnvFromExample{RepoPath: dir})
	require.Contains(t, res.Notification, "✗")
}

func TestSeedEnvFromExampleCopiesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.example"), []byte("KEY=value\n"), 0o644))

	res := Run(context.Background(), action.SeedEnvFromExample{RepoPath: dir})
	require.Contains(t, res.Notification, "seeded")

	data, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	require.Equal(t, "KEY=value\n", string(data))
}
