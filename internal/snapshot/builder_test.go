package snapshot

import (
	"testing"

	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/stretchr/testify/require"
)

func TestBuildOverviewCountsAttentionAndIssues(t *testing.T) {
	repoA := gitrepo.New("/repos/a")
	repoA.Status.UncommittedCount = 2
	repoB := gitrepo.New("/repos/b")
	repoB.Status.BehindCount = 1
	repos := []gitrepo.Repo{repoA, repoB}

	depRows := []DependencyHealth{{Repo: "a", IssueCount: 1}, {Repo: "b", IssueCount: 0}}
	envRows := []EnvAuditResult{{Repo: "a", TrackedSecretFiles: []string{".env"}}, {Repo: "b"}}
	mcpRows := []McpServerHealth{{ServerName: "x", Healthy: false}, {ServerName: "y", Healthy: true}}

	overview := buildOverview(repos, nil, []WorktreeRow{{}, {}}, []RepoProcess{{}}, depRows, envRows, mcpRows)

	require.Equal(t, 2, overview.TotalRepos)
	require.Equal(t, 2, overview.TotalWorktrees)
	require.Equal(t, 1, overview.RepoProcesses)
	require.Equal(t, 1, overview.DepIssues)
	require.Equal(t, 1, overview.EnvIssues)
	require.Equal(t, 1, overview.McpUnhealthy)
}

func TestBuildSystemAlertsOnlyFiresAboveThreshold(t *testing.T) {
	alerts := buildSystemAlerts(nil, nil, nil, nil)
	require.Empty(t, alerts)

	alerts = buildSystemAlerts(
		[]DependencyHealth{{Repo: "a", IssueCount: 2}},
		[]EnvAuditResult{{Repo: "a", TrackedSecretFiles: []string{".env"}}},
		[]McpServerHealth{{ServerName: "x", Healthy: false}},
		[]ProviderUsage{{Provider: ProviderGemini, Configured: false}},
	)
	require.Len(t, alerts, 4)

	titles := map[string]bool{}
	for _, a := range alerts {
		titles[a.Title] = true
	}
	require.True(t, titles["Dependency hygiene issues detected"])
	require.True(t, titles["Tracked env files may contain secrets"])
	require.True(t, titles["MCP server health issues"])
	require.True(t, titles["AI provider not configured"])
}

func TestDedupeAlertsRemovesCompositeKeyDuplicates(t *testing.T) {
	alerts := []DashboardAlert{
		{Severity: "warn", Title: "t", Detail: "d", Repo: "r"},
		{Severity: "warn", Title: "t", Detail: "d", Repo: "r"},
		{Severity: "warn", Title: "t", Detail: "d", Repo: "other"},
	}
	out := dedupeAlerts(alerts)
	require.Len(t, out, 2)
}

func TestSortAlertsOrdersBySeverityThenActionThenTitle(t *testing.T) {
	alerts := []DashboardAlert{
		{Severity: "info", Title: "z"},
		{Severity: "critical", Title: "b"},
		{Severity: "critical", Title: "a"},
		{Severity: "high", Title: "c", Action: &ActionCommand{Label: "x"}},
		{Severity: "high", Title: "d"},
	}
	sortAlerts(alerts)

	require.Equal(t, "a", alerts[0].Title)
	require.Equal(t, "b", alerts[1].Title)
	require.Equal(t, "c", alerts[2].Title)
	require.Equal(t, "d", alerts[3].Title)
	require.Equal(t, "z", alerts[4].Title)
}

func TestProviderSortOrdersByRankThenCostDesc(t *testing.T) {
	providers := []ProviderUsage{
		{Provider: ProviderOpenAI, EstimatedCostUSD: 10},
		{Provider: ProviderClaude, EstimatedCostUSD: 1},
		{Provider: ProviderClaude, EstimatedCostUSD: 5},
		{Provider: ProviderGemini, EstimatedCostUSD: 2},
	}
	sortProviders(providers)

	require.Equal(t, ProviderClaude, providers[0].Provider)
	require.Equal(t, 5.0, providers[0].EstimatedCostUSD)
	require.Equal(t, ProviderClaude, providers[1].Provider)
	require.Equal(t, 1.0, providers[1].EstimatedCostUSD)
	require.Equal(t, ProviderGemini, providers[2].Provider)
	require.Equal(t, ProviderOpenAI, providers[3].Provider)
}
