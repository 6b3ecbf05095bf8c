package providers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// mergeClaudeStatsCache folds ~/.claude/stats-cache.json into totals by
// taking the max of the generic scan's figures against the structured
// source, since stats-cache.json is a superset of what the generic walk
// may have already counted from other Claude log files.
func mergeClaudeStatsCache(totals *localTotals) {
	path := expandHome("~/.claude/stats-cache.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if !gjson.ValidBytes(data) {
		return
	}

	var scratch localTotals
	accumulateValue(gjson.ParseBytes(data), &scratch)

	if scratch.InputTokens > totals.InputTokens {
		totals.InputTokens = scratch.InputTokens
	}
	if scratch.OutputTokens > totals.OutputTokens {
		totals.OutputTokens = scratch.OutputTokens
	}
	if scratch.HasExplicit && scratch.ExplicitCost > totals.ExplicitCost {
		totals.ExplicitCost = scratch.ExplicitCost
		totals.HasExplicit = true
	}
	totals.Sources = append(totals.Sources, path)
}

// mergeCodexSessions adds the last token_count entry per file under
// ~/.codex/sessions/**.jsonl to totals (summed across files, since each
// session file is disjoint). The result is reported against
// OpenAI by the caller.
func mergeCodexSessions(totals *localTotals) {
	root := expandHome("~/.codex/sessions")
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return
	}

	var matched bool
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".jsonl") {
			return nil
		}
		if lastTokenCount(path, totals) {
			matched = true
		}
		return nil
	})
	if matched {
		totals.Sources = append(totals.Sources, root)
	}
}

func lastTokenCount(path string, totals *localTotals) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var lastInput, lastOutput uint64
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !gjson.Valid(line) {
			continue
		}
		tc := gjson.Get(line, "token_count")
		if !tc.Exists() {
			continue
		}
		found = true
		lastInput = uint64(tc.Get("input_tokens").Int())
		lastOutput = uint64(tc.Get("output_tokens").Int())
	}
	if !found {
		return false
	}
	totals.InputTokens += lastInput
	totals.OutputTokens += lastOutput
	return true
}
