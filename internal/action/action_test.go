package action

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalJSONTagsDiscriminator(t *testing.T) {
	raw, err := MarshalJSON(GitPullRebase{RepoPath: "/repo"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "git_pull_rebase", decoded["type"])
	require.Equal(t, "/repo", decoded["repo_path"])
}

func TestIsDestructiveOnlyForKillProcessAndIgnoreEnvFiles(t *testing.T) {
	require.True(t, KillProcess{PID: 1}.IsDestructive())
	require.True(t, IgnoreEnvFiles{RepoPath: "/repo"}.IsDestructive())
	require.False(t, GitPush{RepoPath: "/repo"}.IsDestructive())
	require.False(t, ShowMessage{Message: "hi"}.IsDestructive())
}

func TestIsIdempotentClassification(t *testing.T) {
	require.True(t, IsIdempotent(GitStatus{RepoPath: "/repo"}))
	require.True(t, IsIdempotent(CheckBinaryInPath{Binary: "git"}))
	require.False(t, IsIdempotent(GitPush{RepoPath: "/repo"}))
	require.False(t, IsIdempotent(GitAddCommit{RepoPath: "/repo", Message: "m"}))
}

func TestPreviewIncludesRepoPathAndCommand(t *testing.T) {
	preview := GitAddCommit{RepoPath: "/repo", Message: "wip"}.Preview()
	require.Contains(t, preview, "/repo")
	require.Contains(t, preview, "git commit")
}
