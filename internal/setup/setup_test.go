package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDedupePreservesOrderAndDropsDuplicates(t *testing.T) {
	out := dedupe([]string{"/a", "/b", "/a", "/c"})
	require.Equal(t, []string{"/a", "/b", "/c"}, out)
}

func TestExpandHomeExpandsTildeSlash(t *testing.T) {
	require.Equal(t, "/home/me/code", expandHome("~/code", "/home/me"))
	require.Equal(t, "/home/me", expandHome("~", "/home/me"))
	require.Equal(t, "/abs/path", expandHome("/abs/path", "/home/me"))
}

func TestMissingReportsOnlyNonexistentPaths(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "exists")
	require.NoError(t, os.Mkdir(existing, 0o755))
	gone := filepath.Join(dir, "gone")

	out := missing([]string{existing, gone})
	require.Equal(t, []string{gone}, out)
}
