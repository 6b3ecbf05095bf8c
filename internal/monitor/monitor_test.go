package monitor

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/indranilbora/agentpulse/internal/statuscache"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T, dir string) {
	t.Helper()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		require.NoError(t, cmd.Run())
	}
	run("init")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	require.NoError(t, os.WriteFile(dir+"/README.md", []byte("hi"), 0o644))
	run("add", ".")
	run("commit", "-m", "init")
}

func TestScanAllProbesAndSortsByUrgency(t *testing.T) {
	root := t.TempDir()

	dirty := root + "/dirty"
	clean := root + "/clean"
	require.NoError(t, os.Mkdir(dirty, 0o755))
	require.NoError(t, os.Mkdir(clean, 0o755))
	initRepo(t, dirty)
	initRepo(t, clean)
	require.NoError(t, os.WriteFile(dirty+"/change.txt", []byte("x"), 0o644))

	cache := statuscache.New()
	repos := ScanAll(context.Background(), Options{
		WatchDirectories: []string{root},
		MaxScanDepth:     3,
		RefreshInterval:  time.Minute,
	}, cache)

	require.Len(t, repos, 2)
	require.Equal(t, "dirty", repos[0].Name)
	require.Equal(t, "clean", repos[1].Name)
}

func TestScanAllServesCacheHitOnSecondPass(t *testing.T) {
	root := t.TempDir()
	repoDir := root + "/repo"
	require.NoError(t, os.Mkdir(repoDir, 0o755))
	initRepo(t, repoDir)

	cache := statuscache.New()
	opts := Options{WatchDirectories: []string{root}, MaxScanDepth: 3, RefreshInterval: time.Minute}

	first := ScanAll(context.Background(), opts, cache)
	require.Len(t, first, 1)

	second := ScanAll(context.Background(), opts, cache)
	require.Len(t, second, 1)
	require.Equal(t, first[0].Status.Branch, second[0].Status.Branch)
}

func TestScanAllFiltersIgnoredRepos(t *testing.T) {
	root := t.TempDir()
	repoDir := root + "/skip-me"
	require.NoError(t, os.Mkdir(repoDir, 0o755))
	initRepo(t, repoDir)

	cache := statuscache.New()
	repos := ScanAll(context.Background(), Options{
		WatchDirectories: []string{root},
		IgnoredRepos:     []string{"skip-me"},
		MaxScanDepth:     3,
		RefreshInterval:  time.Minute,
	}, cache)

	require.Empty(t, repos)
}
