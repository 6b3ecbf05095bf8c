// Package config loads and writes the TOML configuration file that
// controls which directories agentpulse scans and how it behaves.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/indranilbora/agentpulse/pkg/constants"
	"github.com/indranilbora/agentpulse/pkg/logger"
)

var configLog = logger.New("config")

// Config holds every recognized TOML key.
type Config struct {
	WatchDirectories []string `toml:"watch_directories"`
	RefreshIntervalSecs int   `toml:"refresh_interval_secs"`
	MaxScanDepth     int      `toml:"max_scan_depth"`
	Editor           string   `toml:"editor,omitempty"`
	ShowClean        bool     `toml:"show_clean"`
	IgnoredRepos     []string `toml:"ignored_repos"`
	WatchMode        bool     `toml:"watch_mode"`

	// MissingDirectories is populated by Load when a configured
	// watch_directories entry does not exist on disk; it is never
	// serialized back to the config file.
	MissingDirectories []string `toml:"-"`
}

// Default returns the built-in default configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	dirs := []string{}
	for _, d := range []string{"Developer", "Projects", "repos"} {
		if home != "" {
			dirs = append(dirs, filepath.Join(home, d))
		}
	}
	return Config{
		WatchDirectories:    dirs,
		RefreshIntervalSecs: int(constants.DefaultRefreshInterval),
		MaxScanDepth:        int(constants.DefaultScanDepth),
		ShowClean:           true,
		IgnoredRepos:        []string{},
		WatchMode:           false,
	}
}

// DefaultPath returns the OS-appropriate config file path,
// agentpulse/config.toml under os.UserConfigDir (~/.config on Linux).
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, constants.ConfigDirName, constants.ConfigFileName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", constants.ConfigDirName, constants.ConfigFileName)
}

// Load reads the config file at path (or DefaultPath() if path is empty).
// If the file does not exist, a commented default config is written and the
// defaults are returned. Missing watch directories are recorded
// non-fatally in MissingDirectories rather than returned as an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		configLog.Printf("no config at %s, writing default", path)
		cfg := Default()
		if werr := writeDefault(path); werr != nil {
			configLog.Printf("failed to write default config: %v", werr)
		}
		return expandAndCheck(cfg), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(raw), &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return expandAndCheck(cfg), nil
}

func expandAndCheck(cfg Config) Config {
	home, _ := os.UserHomeDir()
	expanded := make([]string, 0, len(cfg.WatchDirectories))
	var missing []string
	for _, d := range cfg.WatchDirectories {
		e := expandHome(d, home)
		expanded = append(expanded, e)
		if _, err := os.Stat(e); os.IsNotExist(err) {
			missing = append(missing, e)
		}
	}
	cfg.WatchDirectories = expanded
	cfg.MissingDirectories = missing

	if cfg.RefreshIntervalSecs <= 0 {
		cfg.RefreshIntervalSecs = int(constants.DefaultRefreshInterval)
	}
	if cfg.MaxScanDepth <= 0 {
		cfg.MaxScanDepth = int(constants.DefaultScanDepth)
	}
	return cfg
}

// expandHome expands a leading "~" or "$HOME" in path using home.
func expandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	if strings.HasPrefix(path, "$HOME/") {
		return filepath.Join(home, path[len("$HOME/"):])
	}
	if path == "$HOME" {
		return home
	}
	return path
}

// Save writes cfg to path as TOML, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigTOML()), 0o644)
}

func defaultConfigTOML() string {
	home, _ := os.UserHomeDir()
	var b strings.Builder
	b.WriteString("# agentpulse configuration\n")
	b.WriteString("# Directories to scan for git repositories (recursively, up to max_scan_depth).\n")
	fmt.Fprintf(&b, "watch_directories = [%q, %q, %q]\n",
		filepath.Join(home, "Developer"), filepath.Join(home, "Projects"), filepath.Join(home, "repos"))
	b.WriteString("\n# How often (seconds) to re-scan repositories in the background.\n")
	fmt.Fprintf(&b, "refresh_interval_secs = %d\n", constants.DefaultRefreshInterval)
	b.WriteString("\n# Maximum directory depth to descend while looking for .git roots.\n")
	fmt.Fprintf(&b, "max_scan_depth = %d\n", constants.DefaultScanDepth)
	b.WriteString("\n# Editor to open repos in (code, cursor, vim, ...). Leave unset to use $EDITOR.\n")
	b.WriteString("# editor = \"code\"\n")
	b.WriteString("\n# Show repos with no pending action in the dashboard.\n")
	b.WriteString("show_clean = true\n")
	b.WriteString("\n# Repo basenames to exclude from scanning.\n")
	b.WriteString("ignored_repos = []\n")
	b.WriteString("\n# Filesystem-event-driven refresh. Not yet implemented; has no runtime effect.\n")
	b.WriteString("watch_mode = false\n")
	return b.String()
}
