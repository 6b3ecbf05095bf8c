package providers

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/indranilbora/agentpulse/internal/snapshot"
	"github.com/indranilbora/agentpulse/pkg/constants"
)

// homeRoots lists the home-directory locations each provider's CLI/IDE
// tooling is known to write local usage logs under.
var homeRoots = map[snapshot.ProviderKind][]string{
	snapshot.ProviderClaude: {"~/.claude", "~/.config/claude"},
	snapshot.ProviderGemini: {"~/.gemini", "~/.config/gemini"},
	snapshot.ProviderOpenAI: {"~/.codex", "~/.config/openai"},
}

var envKeys = map[snapshot.ProviderKind][]string{
	snapshot.ProviderClaude: {string(constants.EnvAnthropicAdminAPIKey), string(constants.EnvAnthropicAPIKey)},
	snapshot.ProviderGemini: {string(constants.EnvGeminiAPIKey), string(constants.EnvGoogleAPIKey)},
	snapshot.ProviderOpenAI: {string(constants.EnvOpenAIAdminKey), string(constants.EnvOpenAIAPIKey)},
}

// liveCacheEntry memoizes a provider's live-API result per (provider,
// window) with a wall-clock TTL.
type liveCacheEntry struct {
	fetchedAt time.Time
	result    liveResult
}

var (
	liveCacheMu sync.Mutex
	liveCache   = map[string]liveCacheEntry{}
)

// Collect reports usage and estimated cost for Claude, Gemini, and OpenAI,
// overlaying live API data over local-log totals where available
//.
func Collect(ctx context.Context, now time.Time) []snapshot.ProviderUsage {
	lookbackDays := envInt(constants.EnvCostLookbackDays, 0)
	maxPages := envInt(constants.EnvProviderMaxPages, int(constants.DefaultProviderMaxPages))
	cacheTTL := time.Duration(envInt(constants.EnvProviderCacheSecs, int(constants.DefaultProviderCacheTTL))) * time.Second
	win := reportingWindow(now, lookbackDays)

	kinds := []snapshot.ProviderKind{snapshot.ProviderClaude, snapshot.ProviderGemini, snapshot.ProviderOpenAI}
	out := make([]snapshot.ProviderUsage, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, collectProvider(ctx, kind, win, maxPages, cacheTTL, now))
	}
	return out
}

func collectProvider(ctx context.Context, kind snapshot.ProviderKind, win window, maxPages int, cacheTTL time.Duration, now time.Time) snapshot.ProviderUsage {
	configured := isConfigured(kind)

	totals := scanHomeRoots(homeRoots[kind])
	var notes []string

	switch kind {
	case snapshot.ProviderClaude:
		mergeClaudeStatsCache(&totals)
	case snapshot.ProviderOpenAI:
		mergeCodexSessions(&totals)
	}

	usage := snapshot.ProviderUsage{
		Provider:          kind,
		Configured:        configured,
		ConfigSources:     totals.Sources,
		Sessions:          totals.Sessions,
		TotalInputTokens:  totals.InputTokens,
		TotalOutputTokens: totals.OutputTokens,
	}

	dataSource := "heuristic"
	if totals.Sessions > 0 || totals.InputTokens > 0 || totals.OutputTokens > 0 {
		dataSource = "local_logs"
	}

	if live, ok := liveOverlay(ctx, kind, win, maxPages, cacheTTL, now); ok {
		usage.Sessions = live.Sessions
		usage.TotalInputTokens = live.InputTokens
		usage.TotalOutputTokens = live.OutputTokens
		usage.EstimatedCostUSD = live.CostUSD
		dataSource = "live"
	} else if totals.HasExplicit {
		usage.EstimatedCostUSD = totals.ExplicitCost
	} else {
		usage.EstimatedCostUSD = heuristicCost(kind, usage.TotalInputTokens, usage.TotalOutputTokens)
	}

	notes = append(notes, "data_source="+dataSource)
	usage.Notes = notes
	return usage
}

func liveOverlay(ctx context.Context, kind snapshot.ProviderKind, win window, maxPages int, cacheTTL time.Duration, now time.Time) (liveResult, bool) {
	key := string(kind) + "|" + win.Start.Format(time.RFC3339) + "|" + win.End.Format(time.RFC3339)

	liveCacheMu.Lock()
	if entry, ok := liveCache[key]; ok && now.Sub(entry.fetchedAt) < cacheTTL {
		liveCacheMu.Unlock()
		return entry.result, entry.result.OK
	}
	liveCacheMu.Unlock()

	var result liveResult
	switch kind {
	case snapshot.ProviderClaude:
		key := firstNonEmptyEnv(string(constants.EnvAnthropicAdminAPIKey), string(constants.EnvAnthropicAPIKey))
		if key != "" {
			result = fetchAnthropicLive(ctx, key, win, maxPages)
		}
	case snapshot.ProviderOpenAI:
		key := firstNonEmptyEnv(string(constants.EnvOpenAIAdminKey), string(constants.EnvOpenAIAPIKey))
		if key != "" {
			result = fetchOpenAILive(ctx, key, win, maxPages)
		}
	case snapshot.ProviderGemini:
		table := os.Getenv(string(constants.EnvGeminiBQTable))
		if table != "" {
			result = fetchGeminiLive(ctx, table, os.Getenv(string(constants.EnvGeminiBQServiceFilter)))
		}
	}

	liveCacheMu.Lock()
	liveCache[key] = liveCacheEntry{fetchedAt: now, result: result}
	liveCacheMu.Unlock()

	return result, result.OK
}

func isConfigured(kind snapshot.ProviderKind) bool {
	for _, key := range envKeys[kind] {
		if os.Getenv(key) != "" {
			return true
		}
	}
	for _, root := range homeRoots[kind] {
		if info, err := os.Stat(expandHome(root)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func heuristicCost(kind snapshot.ProviderKind, inputTokens, outputTokens uint64) float64 {
	prices, ok := constants.HeuristicPricePerMillion[string(kind)]
	if !ok {
		return 0
	}
	inCost := float64(inputTokens) / 1_000_000 * prices[0]
	outCost := float64(outputTokens) / 1_000_000 * prices[1]
	return inCost + outCost
}

func firstNonEmptyEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envInt(name constants.EnvVarName, fallback int) int {
	raw := os.Getenv(string(name))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
