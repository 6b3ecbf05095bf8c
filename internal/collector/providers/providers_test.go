package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestClassifyKeyMatchesInputAndOutputTokenPatterns(t *testing.T) {
	var totals localTotals
	classifyKey("total_input_tokens", gjson.Parse(`100`), &totals)
	classifyKey("completion_tokens", gjson.Parse(`40`), &totals)
	classifyKey("cost", gjson.Parse(`1.5`), &totals)

	require.Equal(t, uint64(100), totals.InputTokens)
	require.Equal(t, uint64(40), totals.OutputTokens)
	require.Equal(t, 1.5, totals.ExplicitCost)
	require.True(t, totals.HasExplicit)
}

func TestHeuristicCostUsesPerMillionPricing(t *testing.T) {
	cost := heuristicCost("claude", 1_000_000, 1_000_000)
	require.InDelta(t, 18.0, cost, 0.0001)
}

func TestIsValidBigQueryTableRequiresThreeParts(t *testing.T) {
	require.True(t, isValidBigQueryTable("my-project.billing.export"))
	require.False(t, isValidBigQueryTable("missing-parts"))
	require.False(t, isValidBigQueryTable("semi;colon.injection.attempt"))
}

func TestReportingWindowDefaultsToFirstOfMonth(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	win := reportingWindow(now, 0)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), win.Start)
}

func TestReportingWindowUsesLookbackWhenSet(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	win := reportingWindow(now, 7)
	require.Equal(t, now.AddDate(0, 0, -7), win.Start)
}

