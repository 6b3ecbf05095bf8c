package main

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/indranilbora/agentpulse/internal/config"
	"github.com/indranilbora/agentpulse/internal/gitrepo"
	"github.com/indranilbora/agentpulse/internal/monitor"
	"github.com/indranilbora/agentpulse/internal/report"
	"github.com/indranilbora/agentpulse/internal/setup"
	"github.com/indranilbora/agentpulse/internal/statuscache"
	"github.com/indranilbora/agentpulse/internal/ui"
	"github.com/indranilbora/agentpulse/pkg/console"
	"github.com/indranilbora/agentpulse/pkg/constants"
	"github.com/indranilbora/agentpulse/pkg/logger"
)

// version is set by GoReleaser at build time.
var version = "dev"

var (
	configPathFlag string
	dirsFlag       []string
	setupFlag      bool
	onceFlag       bool
	jsonFlag       bool
	agentBriefFlag bool
	agentJSONFlag  bool
	summaryFlag    bool
	verboseFlag    bool
)

var rootCmd = &cobra.Command{
	Use:     "agentpulse",
	Short:   "Monitor all your git repos and agent tooling from one dashboard",
	Version: version,
	Long: `AgentPulse watches the git repos and agent toolchain under your configured
directories and surfaces what needs attention next.

Common Tasks:
  agentpulse                    # Launch the interactive dashboard
  agentpulse --setup            # Reconfigure watch directories
  agentpulse --once             # Scan once, print a table, and exit
  agentpulse --once --json      # Same, as JSON
  agentpulse --summary          # One-line summary, exit 1 if anything needs attention
  agentpulse --agent-brief      # Markdown next-actions brief for an agent
  agentpulse --agent-json       # Structured next-actions report for an agent`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verboseFlag || os.Getenv(constants.EnvVerbose.String()) == "1")

		if err := checkGitInstalled(); err != nil {
			return err
		}

		exclusive := 0
		for _, set := range []bool{onceFlag, summaryFlag, agentBriefFlag, agentJSONFlag} {
			if set {
				exclusive++
			}
		}
		if exclusive > 1 {
			return fmt.Errorf("--once, --summary, --agent-brief, and --agent-json are mutually exclusive")
		}
		if jsonFlag && !onceFlag {
			return fmt.Errorf("--json requires --once")
		}

		isFirstRun := configPathFlag == "" && !configFileExists(config.DefaultPath())
		if configPathFlag != "" {
			isFirstRun = !configFileExists(configPathFlag)
		}

		var cfg config.Config
		var err error
		switch {
		case setupFlag || isFirstRun:
			if isFirstRun && !setupFlag {
				fmt.Fprintln(os.Stderr)
				fmt.Fprintln(os.Stderr, "  Welcome to AgentPulse!")
				fmt.Fprintln(os.Stderr, "  No config found — let's pick which directories to scan.")
			}
			existing, loadErr := config.Load(configPathFlag)
			var existingPtr *config.Config
			if loadErr == nil {
				existingPtr = &existing
			}
			cfg, err = setup.Run(existingPtr, configPathFlag)
		default:
			cfg, err = config.Load(configPathFlag)
		}
		if err != nil {
			return err
		}

		if len(dirsFlag) > 0 {
			cfg.WatchDirectories = dirsFlag
		}

		if setupFlag && exclusive == 0 {
			return nil
		}

		switch {
		case summaryFlag:
			repos := scanOnce(cmd, cfg)
			report.Summary(os.Stdout, repos)
			if report.AnyActionable(repos) {
				os.Exit(1)
			}
			return nil

		case onceFlag:
			repos := scanOnce(cmd, cfg)
			if jsonFlag {
				if err := report.JSON(os.Stdout, repos); err != nil {
					return err
				}
			} else {
				report.Table(os.Stdout, repos)
			}
			if report.AnyActionable(repos) {
				os.Exit(1)
			}
			return nil

		case agentBriefFlag:
			repos := scanOnce(cmd, cfg)
			report.AgentBrief(os.Stdout, repos, time.Now())
			if report.AnyActionable(repos) {
				os.Exit(1)
			}
			return nil

		case agentJSONFlag:
			repos := scanOnce(cmd, cfg)
			if err := report.AgentJSON(os.Stdout, repos, time.Now()); err != nil {
				return err
			}
			if report.AnyActionable(repos) {
				os.Exit(1)
			}
			return nil
		}

		return runTUI(cmd, cfg)
	},
}

func configFileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func scanOnce(cmd *cobra.Command, cfg config.Config) []gitrepo.Repo {
	cache := statuscache.New()
	return monitor.ScanAll(cmd.Context(), monitor.Options{
		WatchDirectories: cfg.WatchDirectories,
		IgnoredRepos:     cfg.IgnoredRepos,
		MaxScanDepth:     cfg.MaxScanDepth,
		RefreshInterval:  time.Duration(cfg.RefreshIntervalSecs) * time.Second,
	}, cache)
}

// runTUI launches the interactive dashboard, automatically re-launching
// after setup if the user presses "s", following main.rs's run_tui loop.
func runTUI(cmd *cobra.Command, cfg config.Config) error {
	for {
		reconfigure, err := ui.Run(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if !reconfigure {
			return nil
		}
		existing := cfg
		cfg, err = setup.Run(&existing, configPathFlag)
		if err != nil {
			return err
		}
	}
}

func checkGitInstalled() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is not installed or not in PATH\nPlease install git and try again")
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to config file (default: agentpulse/config.toml in the user config directory, ~/.config on Linux)")
	rootCmd.PersistentFlags().StringArrayVar(&dirsFlag, "dir", nil, "Directory to scan (repeatable; replaces config watch_directories)")
	rootCmd.PersistentFlags().BoolVar(&setupFlag, "setup", false, "Run the interactive setup wizard to configure watch directories")
	rootCmd.PersistentFlags().BoolVar(&onceFlag, "once", false, "Scan once, print results, and exit (no interactive dashboard)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output --once results as JSON")
	rootCmd.PersistentFlags().BoolVar(&agentBriefFlag, "agent-brief", false, "Print a Markdown next-actions brief and exit")
	rootCmd.PersistentFlags().BoolVar(&agentJSONFlag, "agent-json", false, "Print a structured next-actions report as JSON and exit")
	rootCmd.PersistentFlags().BoolVar(&summaryFlag, "summary", false, "Print a one-line summary and exit (exit 1 if anything needs attention)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output showing detailed information")

	rootCmd.SetOut(os.Stderr)
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s version {{.Version}}\n", "agentpulse"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
