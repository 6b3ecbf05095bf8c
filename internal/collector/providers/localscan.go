// Package providers tracks per-provider AI usage and estimated cost,
// combining local log scanning with an optional live-API overlay
//.
package providers

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/indranilbora/agentpulse/pkg/constants"
	"github.com/indranilbora/agentpulse/pkg/logger"
	"github.com/tidwall/gjson"
)

var log = logger.New("collector:providers")

// localTotals accumulates token/cost/session figures scanned from local
// provider log files, before any live-API overlay is applied.
type localTotals struct {
	Sessions     int
	InputTokens  uint64
	OutputTokens uint64
	ExplicitCost float64
	HasExplicit  bool
	Sources      []string
}

var fileNameMarkers = []string{"usage", "session", "cost", "billing", "events"}
var fileExtensions = map[string]bool{".json": true, ".jsonl": true, ".log": true, ".csv": true}

// scanHomeRoots walks each root (bounded depth) collecting matching files
// and accumulates totals via the generic recursive JSON scan.
func scanHomeRoots(roots []string) localTotals {
	var totals localTotals

	for _, root := range roots {
		expanded := expandHome(root)
		info, err := os.Stat(expanded)
		if err != nil || !info.IsDir() {
			continue
		}
		totals.Sources = append(totals.Sources, expanded)

		_ = filepath.WalkDir(expanded, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			rel, _ := filepath.Rel(expanded, path)
			depth := strings.Count(rel, string(filepath.Separator))
			if d.IsDir() {
				if depth > constants.MaxProviderWalkDepth {
					return filepath.SkipDir
				}
				return nil
			}
			if depth > constants.MaxProviderWalkDepth {
				return nil
			}
			if !matchesFileName(d.Name()) {
				return nil
			}
			info, err := d.Info()
			if err != nil || info.Size() > constants.MaxProviderFileSize {
				return nil
			}
			scanFile(path, &totals)
			return nil
		})
	}

	return totals
}

func matchesFileName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if !fileExtensions[ext] {
		return false
	}
	lower := strings.ToLower(name)
	for _, marker := range fileNameMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// scanFile tries a whole-file JSON parse first, falling back to
// line-by-line JSONL. Each successfully parsed top-level value
// is one "encountered object" and increments Sessions by 1 (the chosen
// convention for the spec's unresolved session-counting ambiguity).
func scanFile(path string, totals *localTotals) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("reading %s: %v", path, err)
		return
	}

	if gjson.ValidBytes(data) {
		result := gjson.ParseBytes(data)
		accumulateValue(result, totals)
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !gjson.Valid(line) {
			continue
		}
		accumulateValue(gjson.Parse(line), totals)
	}
}

func accumulateValue(value gjson.Result, totals *localTotals) {
	totals.Sessions++
	walkJSON(value, totals)
}

// walkJSON recursively scans a parsed JSON value, matching key name
// patterns against common token/cost field conventions.
func walkJSON(value gjson.Result, totals *localTotals) {
	if value.IsObject() {
		value.ForEach(func(key, v gjson.Result) bool {
			classifyKey(key.String(), v, totals)
			walkJSON(v, totals)
			return true
		})
		return
	}
	if value.IsArray() {
		value.ForEach(func(_, v gjson.Result) bool {
			walkJSON(v, totals)
			return true
		})
	}
}

func classifyKey(key string, value gjson.Result, totals *localTotals) {
	lower := strings.ToLower(key)

	switch {
	case strings.Contains(lower, "input") && strings.Contains(lower, "token"):
		totals.InputTokens += uint64(value.Int())
	case (strings.Contains(lower, "output") || strings.Contains(lower, "completion")) && strings.Contains(lower, "token"):
		totals.OutputTokens += uint64(value.Int())
	}

	switch lower {
	case "cost", "usd", "amount", "total_cost", "estimated_cost_usd":
		totals.ExplicitCost += value.Float()
		totals.HasExplicit = true
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/"))
}
