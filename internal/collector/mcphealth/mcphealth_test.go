package mcphealth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/stretchr/testify/require"
)

func TestCollectFileParsesMcpServersAndProbesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers":{"github":{"command":"npx","args":["-y","@github/mcp"]}}}`), 0o644))

	rows := collectFile(path, "example")
	require.Len(t, rows, 1)
	require.Equal(t, "github", rows[0].ServerName)
	require.Equal(t, "npx -y @github/mcp", rows[0].Command)
}

func TestProbeHealthRemoteURLIsAlwaysHealthy(t *testing.T) {
	healthy, detail := probeHealth(serverConfig{URL: "https://example.com/mcp"})
	require.True(t, healthy)
	require.Equal(t, "healthy (remote)", detail)
}

func TestProbeHealthBareNameResolvesInPath(t *testing.T) {
	healthy, _ := probeHealth(serverConfig{Command: "git"})
	require.True(t, healthy)
}

func TestCollectUnionsGlobalAndPerRepoSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mcp.json"), []byte(`{"servers":{"local":{"url":"http://localhost:9"}}}`), 0o644))

	repo := gitrepo.New(dir)
	rows := Collect([]gitrepo.Repo{repo})

	found := false
	for _, r := range rows {
		if r.ServerName == "local" {
			found = true
		}
	}
	require.True(t, found)
}
