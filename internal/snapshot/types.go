// Package snapshot assembles the per-refresh DashboardSnapshot from the
// monitor's repo list and the collector outputs, and computes the system
// alerts that summarize all of it.
package snapshot

import (
	"time"

	"github.com/indranilbora/agentpulse/internal/action"
)

// Section identifies one of the eight dashboard views.
type Section int

const (
	SectionHome Section = iota
	SectionRepos
	SectionWorktrees
	SectionProcesses
	SectionDependencies
	SectionEnvAudit
	SectionMcpHealth
	SectionAiCosts
)

// AllSections returns the eight sections in display order.
func AllSections() []Section {
	return []Section{
		SectionHome, SectionRepos, SectionWorktrees, SectionProcesses,
		SectionDependencies, SectionEnvAudit, SectionMcpHealth, SectionAiCosts,
	}
}

// Category groups sections for the left-hand navigation.
func (s Section) Category() string {
	switch s {
	case SectionHome:
		return "OVERVIEW"
	case SectionRepos, SectionWorktrees:
		return "WORKSPACE"
	case SectionProcesses, SectionDependencies, SectionEnvAudit:
		return "MONITOR"
	default:
		return "INTEGRATIONS"
	}
}

// Title is the section's display name.
func (s Section) Title() string {
	switch s {
	case SectionHome:
		return "Home"
	case SectionRepos:
		return "Repos"
	case SectionWorktrees:
		return "Worktrees"
	case SectionProcesses:
		return "Processes"
	case SectionDependencies:
		return "Deps"
	case SectionEnvAudit:
		return "Env Audit"
	case SectionMcpHealth:
		return "MCP Health"
	default:
		return "AI Costs"
	}
}

// ActionCommand is the serializable label+preview pair attached to most
// rows and alerts.
type ActionCommand struct {
	Label   string `json:"label"`
	Command string `json:"command"`
}

// DashboardAlert is a single system-level finding surfaced on the Home
// section.
type DashboardAlert struct {
	Severity string         `json:"severity"`
	Title    string         `json:"title"`
	Detail   string         `json:"detail"`
	Repo     string         `json:"repo,omitempty"`
	Action   *ActionCommand `json:"action,omitempty"`
}

// RepoRow is one line of the Repos section. Kind is the typed action behind
// Action's preview string, used by the UI to dispatch the "x" confirmation
// flow; it is excluded from JSON since action.Kind's own
// externally-tagged marshaling is used instead where a typed action needs
// to cross the wire.
type RepoRow struct {
	Name           string         `json:"name"`
	Path           string         `json:"path"`
	Branch         string         `json:"branch"`
	Dirty          int            `json:"dirty"`
	Ahead          int            `json:"ahead"`
	Behind         int            `json:"behind"`
	Stash          int            `json:"stash"`
	Recommendation string         `json:"recommendation"`
	Action         *ActionCommand `json:"action,omitempty"`
	Kind           action.Kind    `json:"-"`
}

// WorktreeRow is one line of the Worktrees section.
type WorktreeRow struct {
	Repo     string         `json:"repo"`
	Path     string         `json:"path"`
	Branch   string         `json:"branch"`
	Detached bool           `json:"detached"`
	Bare     bool           `json:"bare"`
	Action   *ActionCommand `json:"action,omitempty"`
}

// RepoProcess is one running process attributed to a repo directory.
type RepoProcess struct {
	Repo    string         `json:"repo"`
	PID     int            `json:"pid"`
	Elapsed string         `json:"elapsed"`
	Command string         `json:"command"`
	Action  *ActionCommand `json:"action,omitempty"`
}

// DependencyHealth is one repo's manifest/lockfile ecosystem summary.
type DependencyHealth struct {
	Repo        string         `json:"repo"`
	Path        string         `json:"path"`
	Ecosystems  []string       `json:"ecosystems"`
	IssueCount  int            `json:"issue_count"`
	Issues      []string       `json:"issues"`
	Action      *ActionCommand `json:"action,omitempty"`
}

// EnvAuditResult is one repo's env-file/secret audit.
type EnvAuditResult struct {
	Repo                string         `json:"repo"`
	Path                string         `json:"path"`
	EnvFiles            []string       `json:"env_files"`
	MissingKeys         []string       `json:"missing_keys"`
	ExtraKeys           []string       `json:"extra_keys"`
	TrackedSecretFiles  []string       `json:"tracked_secret_files"`
	Action              *ActionCommand `json:"action,omitempty"`
}

// McpServerHealth is one MCP server's configuration/health probe result.
type McpServerHealth struct {
	Source     string         `json:"source"`
	ServerName string         `json:"server_name"`
	Command    string         `json:"command"`
	Healthy    bool           `json:"healthy"`
	Detail     string         `json:"detail"`
	Action     *ActionCommand `json:"action,omitempty"`
}

// ProviderKind identifies one AI provider tracked for usage/cost.
type ProviderKind string

const (
	ProviderClaude ProviderKind = "claude"
	ProviderGemini ProviderKind = "gemini"
	ProviderOpenAI ProviderKind = "openai"
)

// Rank orders providers for display: Claude, Gemini, OpenAI.
func (p ProviderKind) Rank() int {
	switch p {
	case ProviderClaude:
		return 0
	case ProviderGemini:
		return 1
	default:
		return 2
	}
}

// ProviderUsage is one provider's aggregated local+live usage and cost.
type ProviderUsage struct {
	Provider           ProviderKind `json:"provider"`
	Configured         bool         `json:"configured"`
	ConfigSources      []string     `json:"config_sources"`
	Sessions           int          `json:"sessions"`
	TotalInputTokens   uint64       `json:"total_input_tokens"`
	TotalOutputTokens  uint64       `json:"total_output_tokens"`
	EstimatedCostUSD   float64      `json:"estimated_cost_usd"`
	Notes              []string     `json:"notes"`
}

// OverviewMetrics summarizes the workspace for the Home section.
type OverviewMetrics struct {
	TotalRepos      int `json:"total_repos"`
	ActionableRepos int `json:"actionable_repos"`
	DirtyRepos      int `json:"dirty_repos"`
	ReposAhead      int `json:"repos_ahead"`
	ReposBehind     int `json:"repos_behind"`
	TotalWorktrees  int `json:"total_worktrees"`
	RepoProcesses   int `json:"repo_processes"`
	EnvIssues       int `json:"env_issues"`
	DepIssues       int `json:"dep_issues"`
	McpUnhealthy    int `json:"mcp_unhealthy"`
}

// DashboardSnapshot is the complete, serializable state of one refresh
//.
type DashboardSnapshot struct {
	GeneratedAt  time.Time          `json:"generated_at"`
	Overview     OverviewMetrics    `json:"overview"`
	Alerts       []DashboardAlert   `json:"alerts"`
	Repos        []RepoRow          `json:"repos"`
	Worktrees    []WorktreeRow      `json:"worktrees"`
	Processes    []RepoProcess      `json:"processes"`
	Dependencies []DependencyHealth `json:"dependencies"`
	EnvAudit     []EnvAuditResult   `json:"env_audit"`
	McpServers   []McpServerHealth  `json:"mcp_servers"`
	Providers    []ProviderUsage    `json:"providers"`
}

// TotalEstimatedCostUSD sums EstimatedCostUSD across all tracked providers.
func (d DashboardSnapshot) TotalEstimatedCostUSD() float64 {
	total := 0.0
	for _, p := range d.Providers {
		total += p.EstimatedCostUSD
	}
	return total
}
