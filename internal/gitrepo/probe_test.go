package gitrepo

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func initTestRepo(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = base
		require.NoError(t, cmd.Run())
	}
	run("init")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	return base
}

func TestCheckRepoStatusCleanRepoHasZeroCounts(t *testing.T) {
	base := initTestRepo(t)
	require.NoError(t, writeFile(base+"/README.md", "hello"))
	cmd := exec.Command("git", "add", ".")
	cmd.Dir = base
	require.NoError(t, cmd.Run())
	cmd = exec.Command("git", "commit", "-m", "init")
	cmd.Dir = base
	require.NoError(t, cmd.Run())

	status := CheckRepoStatus(base)

	require.Equal(t, 0, status.UncommittedCount)
	require.Equal(t, 0, status.UnpushedCount)
	require.Equal(t, 0, status.BehindCount)
	require.Equal(t, 0, status.StashCount)
	require.False(t, status.HasRemote)
	require.False(t, status.IsDetached)
}

func TestCheckRepoStatusCountsUncommittedChanges(t *testing.T) {
	base := initTestRepo(t)
	require.NoError(t, writeFile(base+"/file.txt", "change"))

	status := CheckRepoStatus(base)

	require.Equal(t, 1, status.UncommittedCount)
}

func TestCheckRepoStatusUnknownOnMissingRepo(t *testing.T) {
	status := CheckRepoStatus(t.TempDir())
	require.Equal(t, "unknown", status.Branch)
	require.False(t, status.HasRemote)
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
