// Package mcphealth unions global and per-repo MCP server configs and
// probes each entry's reachability.
package mcphealth

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/indranilbora/agentpulse/internal/snapshot"
	"github.com/indranilbora/agentpulse/pkg/logger"
)

var log = logger.New("collector:mcphealth")

var globalConfigPaths = []string{
	"~/.config/claude/claude_desktop_config.json",
	"~/.claude/claude_desktop_config.json",
	"~/.cursor/mcp.json",
	"~/.config/agentpulse/mcp.json",
}

var perRepoConfigPaths = []string{
	".mcp.json", "mcp.json", ".cursor/mcp.json", ".vscode/mcp.json",
}

type serverConfig struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
	URL     string   `json:"url"`
}

// Collect reads every configured MCP source and returns one health row per
// server entry discovered.
func Collect(repos []gitrepo.Repo) []snapshot.McpServerHealth {
	var rows []snapshot.McpServerHealth

	for _, path := range globalConfigPaths {
		rows = append(rows, collectFile(expandHome(path), "global")...)
	}

	for _, repo := range repos {
		for _, rel := range perRepoConfigPaths {
			rows = append(rows, collectFile(filepath.Join(repo.Path, rel), repo.Name)...)
		}
	}

	return rows
}

func collectFile(path, source string) []snapshot.McpServerHealth {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("parsing %s: %v", path, err)
		return nil
	}
	if !looksLikeMcpConfig(doc) {
		return nil
	}

	servers := mergeServerMaps(doc["mcpServers"], doc["servers"])

	var rows []snapshot.McpServerHealth
	for name, raw := range servers {
		cfg := decodeServerConfig(raw)
		command := formatCommand(cfg)
		healthy, detail := probeHealth(cfg)
		rows = append(rows, snapshot.McpServerHealth{
			Source:     source,
			ServerName: name,
			Command:    command,
			Healthy:    healthy,
			Detail:     detail,
		})
	}
	return rows
}

func mergeServerMaps(a, b any) map[string]any {
	out := map[string]any{}
	for _, m := range []any{a, b} {
		obj, ok := m.(map[string]any)
		if !ok {
			continue
		}
		for k, v := range obj {
			out[k] = v
		}
	}
	return out
}

func decodeServerConfig(raw any) serverConfig {
	var cfg serverConfig
	obj, ok := raw.(map[string]any)
	if !ok {
		return cfg
	}
	if v, ok := obj["command"].(string); ok {
		cfg.Command = v
	}
	if v, ok := obj["url"].(string); ok {
		cfg.URL = v
	}
	if list, ok := obj["args"].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				cfg.Args = append(cfg.Args, s)
			}
		}
	}
	return cfg
}

func formatCommand(cfg serverConfig) string {
	if cfg.Command != "" {
		if len(cfg.Args) == 0 {
			return cfg.Command
		}
		return cfg.Command + " " + strings.Join(cfg.Args, " ")
	}
	return cfg.URL
}

// probeHealth classifies an entry's reachability: a URL is always
// "healthy (remote)"; an absolute path is healthy iff it exists; a bare
// name is healthy iff resolvable in PATH.
func probeHealth(cfg serverConfig) (bool, string) {
	if cfg.URL != "" {
		return true, "healthy (remote)"
	}
	if cfg.Command == "" {
		return false, "no command or url configured"
	}
	if filepath.IsAbs(cfg.Command) {
		if _, err := os.Stat(cfg.Command); err == nil {
			return true, "binary exists on disk"
		}
		return false, "binary not found at " + cfg.Command
	}
	if _, err := exec.LookPath(cfg.Command); err == nil {
		return true, "resolvable in PATH"
	}
	return false, cfg.Command + " not found in PATH"
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
