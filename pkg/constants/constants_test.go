//go:build !integration

package constants

import "testing"

func TestCommandPrefix(t *testing.T) {
	if CLIName.String() != "agentpulse" {
		t.Errorf("CLIName.String() = %q, want %q", CLIName.String(), "agentpulse")
	}
	if !CLIName.IsValid() {
		t.Error("CLIName should be valid")
	}
	var empty CommandPrefix
	if empty.IsValid() {
		t.Error("empty CommandPrefix should be invalid")
	}
}

func TestSeconds(t *testing.T) {
	if DefaultRefreshInterval.String() != "60s" {
		t.Errorf("DefaultRefreshInterval.String() = %q, want %q", DefaultRefreshInterval.String(), "60s")
	}
	if !DefaultRefreshInterval.IsValid() {
		t.Error("DefaultRefreshInterval should be valid")
	}
	if Seconds(-1).IsValid() {
		t.Error("negative Seconds should be invalid")
	}
}

func TestScanDepth(t *testing.T) {
	if !DefaultScanDepth.IsValid() {
		t.Error("DefaultScanDepth should be valid")
	}
	if ScanDepth(-1).IsValid() {
		t.Error("negative ScanDepth should be invalid")
	}
}

func TestRepoPath(t *testing.T) {
	p := RepoPath("/home/dev/project")
	if p.String() != "/home/dev/project" {
		t.Errorf("unexpected RepoPath.String(): %q", p.String())
	}
	if !p.IsValid() {
		t.Error("non-empty RepoPath should be valid")
	}
	var empty RepoPath
	if empty.IsValid() {
		t.Error("empty RepoPath should be invalid")
	}
}

func TestCacheTTLBounds(t *testing.T) {
	if MinCacheTTL > MaxCacheTTL {
		t.Error("MinCacheTTL must not exceed MaxCacheTTL")
	}
	if MinCacheTTL <= 0 {
		t.Error("MinCacheTTL must be positive")
	}
}

func TestSkipDirsContainsKnownNoise(t *testing.T) {
	want := []string{"node_modules", "vendor", ".cache", "target"}
	set := make(map[string]bool, len(SkipDirs))
	for _, d := range SkipDirs {
		set[d] = true
	}
	for _, w := range want {
		if !set[w] {
			t.Errorf("SkipDirs missing expected entry %q", w)
		}
	}
}

func TestHeuristicPricePerMillionHasAllProviders(t *testing.T) {
	for _, p := range []string{"claude", "gemini", "openai"} {
		if _, ok := HeuristicPricePerMillion[p]; !ok {
			t.Errorf("HeuristicPricePerMillion missing provider %q", p)
		}
	}
}
