// Package constants centralizes named values shared across the scanner,
// collectors, recommender, and executor, following a semantic-type-alias
// pattern: each alias distinguishes a primitive's meaning from others that
// happen to share its underlying type.
package constants

import "fmt"

// CLIName is the binary's name as shown in --help and the welcome banner.
const CLIName CommandPrefix = "agentpulse"

// CommandPrefix represents a CLI command prefix used in user-facing output.
type CommandPrefix string

// String returns the string representation of the command prefix.
func (c CommandPrefix) String() string { return string(c) }

// IsValid returns true if the command prefix is non-empty.
func (c CommandPrefix) IsValid() bool { return len(c) > 0 }

// Seconds represents a duration expressed in whole seconds, used throughout
// config and env-var parsing (refresh interval, cache TTL, HTTP timeouts).
type Seconds int

// String returns the string representation of the duration.
func (s Seconds) String() string { return fmt.Sprintf("%ds", int(s)) }

// IsValid returns true if the duration is non-negative.
func (s Seconds) IsValid() bool { return s >= 0 }

// ScanDepth represents the maximum directory descent depth for the scanner.
type ScanDepth int

// IsValid returns true if the depth is non-negative.
func (d ScanDepth) IsValid() bool { return d >= 0 }

// RepoPath represents an absolute filesystem path known to be a repository
// root, distinguishing it at the type level from arbitrary directory paths.
type RepoPath string

// String returns the string representation of the repo path.
func (p RepoPath) String() string { return string(p) }

// IsValid returns true if the repo path is non-empty.
func (p RepoPath) IsValid() bool { return len(p) > 0 }

// EnvVarName represents the name (not value) of an environment variable
// this program reads, used to keep provider-credential lookups centralized.
type EnvVarName string

func (e EnvVarName) String() string { return string(e) }

// Default timing constants.
const (
	DefaultRefreshInterval Seconds = 60
	MinCacheTTL            Seconds = 6
	MaxCacheTTL            Seconds = 30
	GitProbeTimeout        Seconds = 5
	ProviderConnectTimeout Seconds = 4
	DefaultProviderTimeout Seconds = 8
	DefaultProviderCacheTTL Seconds = 60
	DefaultProviderMaxPages        = 6
)

// DefaultScanDepth is the default bounded-DFS descent limit.
const DefaultScanDepth ScanDepth = 3

// MaxInFlightProbes bounds concurrent git probe tasks per scan batch.
const MaxInFlightProbes = 20

// MaxRepoProcessRows caps the repo-scoped process collector's output.
const MaxRepoProcessRows = 200

// MaxProcessCommandLength truncates a process's command string for display.
const MaxProcessCommandLength = 160

// MaxAlerts caps the number of alerts surfaced in a snapshot.
const MaxAlerts = 120

// MaxProviderWalkDepth bounds directory walks when discovering provider usage
// log files under a provider's home-dir roots.
const MaxProviderWalkDepth = 3

// MaxProviderFileSize caps the size of a usage/cost log file considered for
// scanning: 5 MiB.
const MaxProviderFileSize = 5 * 1024 * 1024

// NotificationTTL is how long a UI notification remains visible.
const NotificationTTL Seconds = 4

// ConfigDirName is the directory under the OS config root holding agentpulse's
// own config file and MCP config.
const ConfigDirName = "agentpulse"

// ConfigFileName is the TOML config file's basename.
const ConfigFileName = "config.toml"

// SkipDirs is the fixed set of directory basenames the scanner never
// descends into, regardless of depth.
var SkipDirs = []string{
	"node_modules", ".build", "Pods", "DerivedData", "vendor", "venv",
	"dist", "build", ".next", "target", "__pycache__", ".gradle", ".cache",
}

// Environment variable names: provider credentials and settings read by the
// provider-usage collector, AGENTPULSE_VERBOSE (read by main), and EDITOR.
const (
	EnvEditor                     EnvVarName = "EDITOR"
	EnvAnthropicAdminAPIKey       EnvVarName = "ANTHROPIC_ADMIN_API_KEY"
	EnvAnthropicAPIKey            EnvVarName = "ANTHROPIC_API_KEY"
	EnvOpenAIAdminKey             EnvVarName = "OPENAI_ADMIN_KEY"
	EnvOpenAIAPIKey               EnvVarName = "OPENAI_API_KEY"
	EnvGeminiAPIKey               EnvVarName = "GEMINI_API_KEY"
	EnvGoogleAPIKey               EnvVarName = "GOOGLE_API_KEY"
	EnvGeminiBQTable              EnvVarName = "AGENTPULSE_GEMINI_BQ_TABLE"
	EnvGeminiBQServiceFilter      EnvVarName = "AGENTPULSE_GEMINI_BQ_SERVICE_FILTER"
	EnvProviderCacheSecs          EnvVarName = "AGENTPULSE_PROVIDER_CACHE_SECS"
	EnvProviderMaxPages           EnvVarName = "AGENTPULSE_PROVIDER_MAX_PAGES"
	EnvProviderTimeoutSecs        EnvVarName = "AGENTPULSE_PROVIDER_TIMEOUT_SECS"
	EnvCostLookbackDays           EnvVarName = "AGENTPULSE_COST_LOOKBACK_DAYS"
	EnvVerbose                    EnvVarName = "AGENTPULSE_VERBOSE"
)

// Heuristic price-per-million-tokens fallback, USD (input, output), used when
// no live or local-log cost figure is available.
var HeuristicPricePerMillion = map[string][2]float64{
	"claude": {3, 15},
	"gemini": {1.25, 5},
	"openai": {5, 15},
}
