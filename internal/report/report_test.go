package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/stretchr/testify/require"
)

func sampleRepos() []gitrepo.Repo {
	clean := gitrepo.New("/tmp/clean")
	clean.Status = gitrepo.RepoStatus{Branch: "main", HasRemote: true}

	dirty := gitrepo.New("/tmp/dirty")
	dirty.Status = gitrepo.RepoStatus{Branch: "main", HasRemote: true, UncommittedCount: 3, UnpushedCount: 2}

	return []gitrepo.Repo{clean, dirty}
}

func TestTablePrintsEmptyMessage(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, nil)
	require.Contains(t, buf.String(), "No git repos found")
}

func TestTableIncludesEachRepoName(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, sampleRepos())
	require.Contains(t, buf.String(), "clean")
	require.Contains(t, buf.String(), "dirty")
}

func TestJSONEncodesOneObjectPerRepo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleRepos()))

	var rows []repoTableRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	require.False(t, rows[0].NeedsAttention)
	require.True(t, rows[1].NeedsAttention)
}

func TestSummaryCountsDirtyAndUnpushed(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, sampleRepos())
	require.Contains(t, buf.String(), "2 repos")
	require.Contains(t, buf.String(), "1 dirty")
	require.Contains(t, buf.String(), "1 unpushed")
}

func TestAnyActionableReflectsNeedsAttention(t *testing.T) {
	require.True(t, AnyActionable(sampleRepos()))
	require.False(t, AnyActionable(sampleRepos()[:1]))
}

func TestAgentBriefSkipsIdleRepos(t *testing.T) {
	var buf bytes.Buffer
	AgentBrief(&buf, sampleRepos(), time.Now())
	out := buf.String()
	require.Contains(t, out, "dirty")
	require.NotContains(t, out, "**clean**")
	require.Contains(t, out, "1 repo(s) need no action")
}

func TestAgentJSONReportsActionableCount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, AgentJSON(&buf, sampleRepos(), time.Now()))

	var parsed agentReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Equal(t, 2, parsed.TotalRepos)
	require.Equal(t, 1, parsed.ActionableRepos)
	require.Len(t, parsed.Repos, 2)
}
