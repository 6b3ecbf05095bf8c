package envaudit

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/stretchr/testify/require"
)

func TestParseEnvFileStripsExportAndComments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nexport FOO=bar\nBAZ=qux\n\n"), 0o644))

	keys, ok := parseEnvFile(path)
	require.True(t, ok)
	require.ElementsMatch(t, []string{"FOO", "BAZ"}, keys)
}

func TestCollectFlagsMissingAndExtraKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.example"), []byte("FOO=\nBAR=\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FOO=1\nEXTRA=1\n"), 0o644))

	repo := gitrepo.New(dir)
	results := Collect(context.Background(), []gitrepo.Repo{repo})

	require.Equal(t, []string{"BAR"}, results[0].MissingKeys)
	require.Equal(t, []string{"EXTRA"}, results[0].ExtraKeys)
}

func TestCollectFlagsTrackedSecretFile(t *testing.T) {
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		require.NoError(t, cmd.Run())
	}
	run("init")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("API_KEY=shh\n"), 0o644))
	run("add", ".env")
	run("commit", "-m", "init")

	repo := gitrepo.New(dir)
	results := Collect(context.Background(), []gitrepo.Repo{repo})

	require.Equal(t, []string{".env"}, results[0].TrackedSecretFiles)
	require.NotNil(t, results[0].Action)
}

func TestCollectNoFilesFound(t *testing.T) {
	dir := t.TempDir()
	repo := gitrepo.New(dir)
	results := Collect(context.Background(), []gitrepo.Repo{repo})
	require.Empty(t, results[0].EnvFiles)
}
