// Package setup implements the interactive first-run/--setup wizard that
// collects watch directories and writes the config file, following
// setup.rs's run_setup but using pkg/console's huh-based prompts in place
// of a raw stdin loop.
package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/indranilbora/agentpulse/internal/config"
	"github.com/indranilbora/agentpulse/pkg/console"
)

var suggestionDirs = []string{"Developer", "Projects", "repos", "code", "src", "work"}

// Run shows the wizard, seeded from existing (nil on first run), and saves
// the resulting config to configPath ("" for the default path). It returns
// the saved config.
func Run(existing *config.Config, configPath string) (config.Config, error) {
	console.PrintBanner()
	fmt.Fprintln(os.Stderr, "  AgentPulse will scan directories you choose for git repos.")
	fmt.Fprintln(os.Stderr)

	home, _ := os.UserHomeDir()

	var suggestions []string
	for _, d := range suggestionDirs {
		p := filepath.Join(home, d)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			suggestions = append(suggestions, p)
		}
	}

	var current []string
	if existing != nil {
		current = existing.WatchDirectories
	}

	chosen, err := pickDirectories(current, suggestions)
	if err != nil {
		return config.Config{}, fmt.Errorf("setup wizard: %w", err)
	}

	cfg := config.Default()
	if existing != nil {
		cfg = *existing
	}
	cfg.WatchDirectories = dedupe(chosen)
	cfg.MissingDirectories = missing(cfg.WatchDirectories)

	if err := config.Save(configPath, cfg); err != nil {
		return config.Config{}, fmt.Errorf("saving config: %w", err)
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	fmt.Fprintf(os.Stderr, "\n  Saved to %s\n", path)
	fmt.Fprintln(os.Stderr, "  Tip: run `agentpulse --setup` anytime to change these.")
	fmt.Fprintln(os.Stderr)

	return cfg, nil
}

// pickDirectories drives the multi-select + free-text flow: suggestions
// detected on disk are offered as checkboxes, and the user may add further
// paths by hand. Declining every prompt on a reconfigure keeps the existing
// list; declining on first run falls back to config.Default()'s directories.
func pickDirectories(current, suggestions []string) ([]string, error) {
	var picked []string

	if len(suggestions) > 0 {
		options := make([]console.SelectOption, len(suggestions))
		for i, dir := range suggestions {
			options[i] = console.SelectOption{Label: dir, Value: dir}
		}
		selected, err := console.PromptMultiSelect(
			"Select directories to watch",
			"Space to toggle, Enter to confirm",
			options, 0,
		)
		if err != nil {
			if len(current) > 0 {
				return current, nil
			}
		} else {
			picked = append(picked, selected...)
		}
	}

	extra, err := console.PromptInput(
		"Additional directory (optional)",
		"Full path, ~ and $HOME supported. Leave blank to finish.",
		"",
	)
	if err == nil && extra != "" {
		picked = append(picked, expandHome(extra, home()))
	}

	if len(picked) == 0 {
		if len(current) > 0 {
			return current, nil
		}
		return config.Default().WatchDirectories, nil
	}
	return picked, nil
}

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

func expandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" || path == "$HOME" {
		return home
	}
	if len(path) >= 2 && path[:2] == "~/" {
		return filepath.Join(home, path[2:])
	}
	if len(path) >= 6 && path[:6] == "$HOME/" {
		return filepath.Join(home, path[6:])
	}
	return path
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func missing(paths []string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
