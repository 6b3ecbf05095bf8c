package snapshot

import (
	"context"
	"sort"
	"time"

	"github.com/indranilbora/agentpulse/internal/collector/dependencies"
	"github.com/indranilbora/agentpulse/internal/collector/envaudit"
	"github.com/indranilbora/agentpulse/internal/collector/mcphealth"
	"github.com/indranilbora/agentpulse/internal/collector/processes"
	"github.com/indranilbora/agentpulse/internal/collector/providers"
	"github.com/indranilbora/agentpulse/internal/collector/worktrees"
	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/indranilbora/agentpulse/pkg/constants"
)

// Build runs every collector against repos and assembles the complete
// DashboardSnapshot: overview metrics, per-row alerts, system alerts,
// dedupe, and sort.
func Build(ctx context.Context, repos []gitrepo.Repo, now time.Time) DashboardSnapshot {
	repoRows := worktrees.CollectRepoRows(repos)
	worktreeRows := worktrees.CollectWorktrees(ctx, repos)
	processRows := processes.Collect(ctx, repos)
	depRows := dependencies.Collect(repos)
	envRows := envaudit.Collect(ctx, repos)
	mcpRows := mcphealth.Collect(repos)
	providerRows := providers.Collect(ctx, now)

	alerts := worktrees.CollectGitAlerts(repoRows, worktreeRows)
	alerts = append(alerts, buildSystemAlerts(depRows, envRows, mcpRows, providerRows)...)
	alerts = dedupeAlerts(alerts)
	sortAlerts(alerts)
	if len(alerts) > constants.MaxAlerts {
		alerts = alerts[:constants.MaxAlerts]
	}

	sortProviders(providerRows)

	return DashboardSnapshot{
		GeneratedAt:  now,
		Overview:     buildOverview(repos, repoRows, worktreeRows, processRows, depRows, envRows, mcpRows),
		Alerts:       alerts,
		Repos:        repoRows,
		Worktrees:    worktreeRows,
		Processes:    processRows,
		Dependencies: depRows,
		EnvAudit:     envRows,
		McpServers:   mcpRows,
		Providers:    providerRows,
	}
}

func buildOverview(
	repos []gitrepo.Repo,
	repoRows []RepoRow,
	worktreeRows []WorktreeRow,
	processRows []RepoProcess,
	depRows []DependencyHealth,
	envRows []EnvAuditResult,
	mcpRows []McpServerHealth,
) OverviewMetrics {
	overview := OverviewMetrics{
		TotalRepos:     len(repos),
		TotalWorktrees: len(worktreeRows),
		RepoProcesses:  len(processRows),
	}
	for _, r := range repos {
		if r.NeedsAttention() {
			overview.ActionableRepos++
		}
		if r.Status.UncommittedCount > 0 {
			overview.DirtyRepos++
		}
		if r.Status.UnpushedCount > 0 {
			overview.ReposAhead++
		}
		if r.Status.BehindCount > 0 {
			overview.ReposBehind++
		}
	}
	for _, e := range envRows {
		if len(e.MissingKeys) > 0 || len(e.TrackedSecretFiles) > 0 {
			overview.EnvIssues++
		}
	}
	for _, d := range depRows {
		if d.IssueCount > 0 {
			overview.DepIssues++
		}
	}
	for _, m := range mcpRows {
		if !m.Healthy {
			overview.McpUnhealthy++
		}
	}
	return overview
}

func buildSystemAlerts(depRows []DependencyHealth, envRows []EnvAuditResult, mcpRows []McpServerHealth, providerRows []ProviderUsage) []DashboardAlert {
	var alerts []DashboardAlert

	depIssues := 0
	for _, d := range depRows {
		if d.IssueCount > 0 {
			depIssues++
		}
	}
	if depIssues > 0 {
		alerts = append(alerts, DashboardAlert{
			Severity: "warn",
			Title:    "Dependency hygiene issues detected",
			Detail:   countNote(depIssues, "repo(s) with dependency issues"),
			Action:   &ActionCommand{Label: "open dependency view", Command: "echo 'Switch to Deps section in AgentPulse'"},
		})
	}

	envRisky := 0
	for _, e := range envRows {
		if len(e.TrackedSecretFiles) > 0 {
			envRisky++
		}
	}
	if envRisky > 0 {
		alerts = append(alerts, DashboardAlert{
			Severity: "high",
			Title:    "Tracked env files may contain secrets",
			Detail:   countNote(envRisky, "repo(s) have tracked sensitive env files"),
			Action:   &ActionCommand{Label: "review env audit", Command: "echo 'Switch to Env Audit section in AgentPulse'"},
		})
	}

	mcpBad := 0
	for _, m := range mcpRows {
		if !m.Healthy {
			mcpBad++
		}
	}
	if mcpBad > 0 {
		alerts = append(alerts, DashboardAlert{
			Severity: "warn",
			Title:    "MCP server health issues",
			Detail:   countNote(mcpBad, "MCP server(s) unhealthy"),
			Action:   &ActionCommand{Label: "inspect MCP", Command: "echo 'Switch to MCP Health section in AgentPulse'"},
		})
	}

	unconfigured := 0
	for _, p := range providerRows {
		if !p.Configured {
			unconfigured++
		}
	}
	if unconfigured > 0 {
		alerts = append(alerts, DashboardAlert{
			Severity: "info",
			Title:    "AI provider not configured",
			Detail:   countNote(unconfigured, "provider(s) missing config"),
		})
	}

	return alerts
}

func countNote(n int, suffix string) string {
	return itoa(n) + " " + suffix
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// dedupeAlerts removes duplicates by the composite key
// (severity|title|detail|repo), keeping the first occurrence.
func dedupeAlerts(alerts []DashboardAlert) []DashboardAlert {
	seen := make(map[string]struct{}, len(alerts))
	out := make([]DashboardAlert, 0, len(alerts))
	for _, a := range alerts {
		key := a.Severity + "|" + a.Title + "|" + a.Detail + "|" + a.Repo
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

func severityRank(severity string) int {
	switch severity {
	case "critical":
		return 4
	case "high":
		return 3
	case "warn":
		return 2
	case "info":
		return 1
	default:
		return 0
	}
}

// sortAlerts orders by (severity desc, has_action desc, title asc).
func sortAlerts(alerts []DashboardAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if severityRank(a.Severity) != severityRank(b.Severity) {
			return severityRank(a.Severity) > severityRank(b.Severity)
		}
		if (a.Action != nil) != (b.Action != nil) {
			return a.Action != nil
		}
		return a.Title < b.Title
	})
}

// sortProviders orders by provider rank asc then estimated cost desc
//.
func sortProviders(providers []ProviderUsage) {
	sort.SliceStable(providers, func(i, j int) bool {
		a, b := providers[i], providers[j]
		if a.Provider.Rank() != b.Provider.Rank() {
			return a.Provider.Rank() < b.Provider.Rank()
		}
		return a.EstimatedCostUSD > b.EstimatedCostUSD
	})
}
