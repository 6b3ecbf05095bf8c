package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/indranilbora/agentpulse/pkg/constants"
	"github.com/indranilbora/agentpulse/pkg/logger"
)

var liveLog = logger.New("collector:providers:live")

// liveResult is the authoritative figure set returned by a provider's live
// API, overlaid on top of local-log totals when available.
type liveResult struct {
	Sessions     int
	InputTokens  uint64
	OutputTokens uint64
	CostUSD      float64
	OK           bool
}

// httpClient returns a client for one provider's live lookups, with a
// connect timeout of constants.ProviderConnectTimeout and a total request
// timeout of AGENTPULSE_PROVIDER_TIMEOUT_SECS (default
// constants.DefaultProviderTimeout), so a slow/unreachable provider never
// blocks a scan.
func httpClient() *http.Client {
	total := envInt(constants.EnvProviderTimeoutSecs, int(constants.DefaultProviderTimeout))
	dialer := &net.Dialer{Timeout: time.Duration(constants.ProviderConnectTimeout) * time.Second}
	return &http.Client{
		Timeout:   time.Duration(total) * time.Second,
		Transport: &http.Transport{Proxy: http.ProxyFromEnvironment, DialContext: dialer.DialContext},
	}
}

type window struct {
	Start time.Time
	End   time.Time
}

func reportingWindow(now time.Time, lookbackDays int) window {
	if lookbackDays > 0 {
		return window{Start: now.AddDate(0, 0, -lookbackDays), End: now}
	}
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return window{Start: firstOfMonth, End: now}
}

// fetchOpenAILive walks /v1/organization/usage/completions and
// /v1/organization/costs, paging until has_more=false or the page cap is
// reached.
func fetchOpenAILive(ctx context.Context, apiKey string, win window, maxPages int) liveResult {
	client := httpClient()
	var out liveResult

	usagePages, err := pageOpenAI(ctx, client, apiKey, "https://api.openai.com/v1/organization/usage/completions", win, maxPages)
	if err != nil {
		liveLog.Printf("openai usage fetch failed: %v", err)
		return liveResult{}
	}
	for _, page := range usagePages {
		data, _ := page["data"].([]any)
		out.Sessions += len(data)
	}

	costPages, err := pageOpenAI(ctx, client, apiKey, "https://api.openai.com/v1/organization/costs", win, maxPages)
	if err != nil {
		liveLog.Printf("openai cost fetch failed: %v", err)
	}

	input, output, cost := decodeOpenAIBodies(usagePages, costPages)
	out.InputTokens = input
	out.OutputTokens = output
	out.CostUSD = cost
	out.OK = true
	return out
}

// rawPage is a decoded JSON page body kept generic so both usage and cost
// endpoints can share the same paging loop.
type rawPage map[string]any

func pageOpenAI(ctx context.Context, client *http.Client, apiKey, url string, win window, maxPages int) ([]rawPage, error) {
	var pages []rawPage
	after := ""

	for i := 0; i < maxPages; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)
		q := req.URL.Query()
		q.Set("start_time", fmt.Sprintf("%d", win.Start.Unix()))
		q.Set("end_time", fmt.Sprintf("%d", win.End.Unix()))
		if after != "" {
			q.Set("after", after)
		}
		req.URL.RawQuery = q.Encode()

		resp, err := client.Do(req)
		if err != nil {
			return pages, err
		}
		var body rawPage
		decodeErr := json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if decodeErr != nil {
			return pages, decodeErr
		}
		pages = append(pages, body)

		hasMore, _ := body["has_more"].(bool)
		if !hasMore {
			break
		}
		nextAfter, _ := body["next_page"].(string)
		if nextAfter == "" {
			break
		}
		after = nextAfter
	}
	return pages, nil
}

func decodeOpenAIBodies(usagePages, costPages []rawPage) (input, output uint64, cost float64) {
	for _, page := range usagePages {
		data, _ := page["data"].([]any)
		for _, row := range data {
			obj, ok := row.(map[string]any)
			if !ok {
				continue
			}
			input += toUint64(obj["input_tokens"])
			output += toUint64(obj["output_tokens"])
		}
	}
	for _, page := range costPages {
		data, _ := page["data"].([]any)
		for _, row := range data {
			obj, ok := row.(map[string]any)
			if !ok {
				continue
			}
			cost += toFloat64(obj["amount"])
		}
	}
	return
}

// fetchAnthropicLive walks /v1/organizations/usage_report/messages and
// /v1/organizations/cost_report; cost is reported in cents and divided by
// 100.
func fetchAnthropicLive(ctx context.Context, apiKey string, win window, maxPages int) liveResult {
	client := httpClient()

	usagePages, err := pageOpenAI(ctx, client, apiKey, "https://api.anthropic.com/v1/organizations/usage_report/messages", win, maxPages)
	if err != nil {
		liveLog.Printf("anthropic usage fetch failed: %v", err)
		return liveResult{}
	}
	costPages, err := pageOpenAI(ctx, client, apiKey, "https://api.anthropic.com/v1/organizations/cost_report", win, maxPages)
	if err != nil {
		liveLog.Printf("anthropic cost fetch failed: %v", err)
	}

	input, output, costCents := decodeOpenAIBodies(usagePages, costPages)
	sessions := 0
	for _, page := range usagePages {
		data, _ := page["data"].([]any)
		sessions += len(data)
	}

	return liveResult{
		Sessions:     sessions,
		InputTokens:  input,
		OutputTokens: output,
		CostUSD:      costCents / 100,
		OK:           true,
	}
}

var bigQueryTablePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// fetchGeminiLive runs `bq query` against a billing-export table named by
// AGENTPULSE_GEMINI_BQ_TABLE. The table identifier is gated by a strict
// regex before use; the service filter is placed in a quoted string literal
// with backslashes and single quotes escaped. The query reaches bq as one
// argv element, never through a shell.
func fetchGeminiLive(ctx context.Context, table, serviceFilter string) liveResult {
	if !isValidBigQueryTable(table) {
		liveLog.Printf("rejecting malformed BigQuery table identifier")
		return liveResult{}
	}

	escapedFilter := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(serviceFilter)
	query := fmt.Sprintf(
		"SELECT SUM(usage.amount) AS input_tokens, SUM(cost) AS cost FROM `%s` WHERE service.description LIKE '%%%s%%'",
		table, escapedFilter,
	)

	cmd := exec.CommandContext(ctx, "bq", "query", "--format=json", "--use_legacy_sql=false", query)
	out, err := cmd.Output()
	if err != nil {
		liveLog.Printf("bq query failed: %v", err)
		return liveResult{}
	}

	var rows []map[string]any
	if err := json.Unmarshal(out, &rows); err != nil || len(rows) == 0 {
		return liveResult{}
	}

	return liveResult{
		InputTokens: toUint64(rows[0]["input_tokens"]),
		CostUSD:     toFloat64(rows[0]["cost"]),
		OK:          true,
	}
}

func isValidBigQueryTable(table string) bool {
	if table == "" || !bigQueryTablePattern.MatchString(table) {
		return false
	}
	parts := 0
	start := 0
	for i, r := range table {
		if r == '.' {
			parts++
			start = i + 1
		}
	}
	_ = start
	return parts == 2
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case float64:
		return uint64(n)
	case string:
		var f float64
		fmt.Sscanf(n, "%f", &f)
		return uint64(f)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		var f float64
		fmt.Sscanf(n, "%f", &f)
		return f
	default:
		return 0
	}
}
