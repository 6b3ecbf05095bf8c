// Package ui renders the interactive dashboard with Bubble Tea, driving the
// appstate.App state machine from key events and periodic rescans, following
// ui/mod.rs's event loop and pkg/console/spinner.go's tea.NewProgram usage,
// generalized from ratatui's immediate-mode widgets to Bubble Tea's
// Elm-architecture Model.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/indranilbora/agentpulse/internal/action"
	"github.com/indranilbora/agentpulse/internal/appstate"
	"github.com/indranilbora/agentpulse/internal/config"
	"github.com/indranilbora/agentpulse/internal/executor"
	"github.com/indranilbora/agentpulse/internal/monitor"
	"github.com/indranilbora/agentpulse/internal/snapshot"
	"github.com/indranilbora/agentpulse/internal/statuscache"
	"github.com/indranilbora/agentpulse/pkg/styles"
)

// Run starts the interactive dashboard for cfg and blocks until the user
// quits or asks to reconfigure. It returns (reconfigure, error).
func Run(ctx context.Context, cfg config.Config) (bool, error) {
	m := newModel(ctx, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return false, err
	}
	fm := final.(model)
	return fm.app.ShouldReconfigure, nil
}

type scanDoneMsg struct {
	snap snapshot.DashboardSnapshot
}

type tickMsg time.Time

type actionDoneMsg struct {
	result executor.Result
}

type model struct {
	ctx   context.Context
	app   *appstate.App
	cache statuscache.Cache
	cfg   config.Config
}

func newModel(ctx context.Context, cfg config.Config) model {
	return model{
		ctx:   ctx,
		app:   appstate.New(cfg),
		cache: statuscache.New(),
		cfg:   cfg,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.scanCmd(), tickCmd())
}

func (m model) scanCmd() tea.Cmd {
	return func() tea.Msg {
		repos := monitor.ScanAll(m.ctx, monitor.Options{
			WatchDirectories: m.cfg.WatchDirectories,
			IgnoredRepos:     m.cfg.IgnoredRepos,
			MaxScanDepth:     m.cfg.MaxScanDepth,
			RefreshInterval:  time.Duration(m.cfg.RefreshIntervalSecs) * time.Second,
		}, m.cache)
		return scanDoneMsg{snap: snapshot.Build(m.ctx, repos, time.Now())}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, nil

	case scanDoneMsg:
		m.app.ApplySnapshot(msg.snap)
		return m, scheduleRescan(m.cfg)

	case tickMsg:
		m.app.Tick()
		return m, tickCmd()

	case actionDoneMsg:
		m.app.Notify(msg.result.Notification)
		if msg.result.Completion.HasRepoPath {
			m.cache.Invalidate(msg.result.Completion.AffectedRepoPath)
		}
		return m, m.scanCmd()

	case rescanTriggerMsg:
		return m, m.scanCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func scheduleRescan(cfg config.Config) tea.Cmd {
	interval := time.Duration(cfg.RefreshIntervalSecs) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return rescanTriggerMsg{} })
}

type rescanTriggerMsg struct{}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.app.Mode {
	case appstate.ModeSearch:
		return m.handleSearchKey(msg)
	case appstate.ModeCommit:
		return m.handleCommitKey(msg)
	case appstate.ModeHelp:
		if msg.String() == "esc" || msg.String() == "?" {
			m.app.Mode = appstate.ModeNormal
		}
		return m, nil
	case appstate.ModeConfirmAction:
		return m.handleConfirmKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.app.ShouldQuit = true
		return m, tea.Quit
	case "s":
		m.app.ShouldQuit = true
		m.app.ShouldReconfigure = true
		return m, tea.Quit
	case "?":
		m.app.Mode = appstate.ModeHelp
	case "/":
		m.app.Mode = appstate.ModeSearch
	case "up", "k":
		m.app.MoveRow(-1)
	case "down", "j":
		m.app.MoveRow(1)
	case "left", "h":
		m.app.MoveSection(-1)
	case "right", "l", "tab":
		m.app.MoveSection(1)
	case "x":
		if kind := m.app.SelectedActionKind(); kind != nil {
			m.app.RequestAction(kind)
		}
	case "c":
		if m.app.CurrentSection() == snapshot.SectionRepos {
			m.app.CommitText = ""
			m.app.Mode = appstate.ModeCommit
		}
	}
	return m, nil
}

func (m model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.app.Mode = appstate.ModeNormal
	case tea.KeyBackspace:
		if len(m.app.FilterText) > 0 {
			m.app.FilterText = m.app.FilterText[:len(m.app.FilterText)-1]
		}
	case tea.KeyRunes:
		m.app.FilterText += string(msg.Runes)
	}
	return m, nil
}

func (m model) handleCommitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.app.CommitText = ""
		m.app.Mode = appstate.ModeNormal
	case tea.KeyEnter:
		message := m.app.CommitText
		m.app.CommitText = ""
		m.app.Mode = appstate.ModeNormal
		if message == "" {
			return m, nil
		}
		rows := m.app.FilteredRepos()
		row := m.app.SelectedRow()
		if row >= len(rows) {
			return m, nil
		}
		kind := action.GitAddCommit{RepoPath: rows[row].Path, Message: message}
		return m, func() tea.Msg {
			return actionDoneMsg{result: executor.Run(m.ctx, kind)}
		}
	case tea.KeyBackspace:
		if len(m.app.CommitText) > 0 {
			m.app.CommitText = m.app.CommitText[:len(m.app.CommitText)-1]
		}
	case tea.KeyRunes:
		m.app.CommitText += string(msg.Runes)
	}
	return m, nil
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y":
		kind := m.app.ConfirmAction()
		if kind == nil {
			return m, nil
		}
		return m, func() tea.Msg {
			return actionDoneMsg{result: executor.Run(m.ctx, kind)}
		}
	case "esc", "n":
		m.app.CancelAction()
	}
	return m, nil
}

func (m model) View() string {
	if m.app.Mode == appstate.ModeHelp {
		return renderHelp()
	}

	var b strings.Builder
	b.WriteString(renderSidebar(m.app))
	b.WriteString("\n")
	b.WriteString(renderBody(m.app))
	b.WriteString("\n")
	b.WriteString(renderFooter(m.app))
	return b.String()
}

func renderSidebar(app *appstate.App) string {
	var parts []string
	for i, s := range snapshot.AllSections() {
		label := s.Title()
		if i == sectionIndex(app) {
			label = styles.Highlight.Render("[" + label + "]")
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func sectionIndex(app *appstate.App) int {
	for i, s := range snapshot.AllSections() {
		if s == app.CurrentSection() {
			return i
		}
	}
	return 0
}

func renderBody(app *appstate.App) string {
	if app.IsScanning {
		return styles.Progress.Render("scanning...")
	}

	var b strings.Builder
	switch app.CurrentSection() {
	case snapshot.SectionHome:
		fmt.Fprintf(&b, "%d repos | %d actionable | %d dirty | %d ahead | %d behind\n",
			app.Snapshot.Overview.TotalRepos, app.Snapshot.Overview.ActionableRepos,
			app.Snapshot.Overview.DirtyRepos, app.Snapshot.Overview.ReposAhead, app.Snapshot.Overview.ReposBehind)
		for i, alert := range app.Snapshot.Alerts {
			line := fmt.Sprintf("[%s] %s — %s", alert.Severity, alert.Title, alert.Detail)
			b.WriteString(renderRow(line, i == app.SelectedRow()))
			b.WriteString("\n")
		}
	case snapshot.SectionRepos:
		for i, row := range app.FilteredRepos() {
			line := fmt.Sprintf("%-20s %-16s dirty=%d ahead=%d behind=%d  %s", row.Name, row.Branch, row.Dirty, row.Ahead, row.Behind, row.Recommendation)
			b.WriteString(renderRow(line, i == app.SelectedRow()))
			b.WriteString("\n")
		}
	case snapshot.SectionWorktrees:
		for i, row := range app.Snapshot.Worktrees {
			line := fmt.Sprintf("%-20s %-40s %s", row.Repo, row.Path, row.Branch)
			b.WriteString(renderRow(line, i == app.SelectedRow()))
			b.WriteString("\n")
		}
	case snapshot.SectionProcesses:
		for i, row := range app.Snapshot.Processes {
			line := fmt.Sprintf("%-20s %-8d %-10s %s", row.Repo, row.PID, row.Elapsed, row.Command)
			b.WriteString(renderRow(line, i == app.SelectedRow()))
			b.WriteString("\n")
		}
	case snapshot.SectionDependencies:
		for i, row := range app.Snapshot.Dependencies {
			line := fmt.Sprintf("%-20s %-20s issues=%d", row.Repo, strings.Join(row.Ecosystems, ","), row.IssueCount)
			b.WriteString(renderRow(line, i == app.SelectedRow()))
			b.WriteString("\n")
		}
	case snapshot.SectionEnvAudit:
		for i, row := range app.Snapshot.EnvAudit {
			line := fmt.Sprintf("%-20s tracked_secrets=%v missing=%v", row.Repo, row.TrackedSecretFiles, row.MissingKeys)
			b.WriteString(renderRow(line, i == app.SelectedRow()))
			b.WriteString("\n")
		}
	case snapshot.SectionMcpHealth:
		for i, row := range app.Snapshot.McpServers {
			status := "unhealthy"
			if row.Healthy {
				status = "healthy"
			}
			line := fmt.Sprintf("%-20s %-20s %s — %s", row.ServerName, row.Command, status, row.Detail)
			b.WriteString(renderRow(line, i == app.SelectedRow()))
			b.WriteString("\n")
		}
	case snapshot.SectionAiCosts:
		for i, row := range app.Snapshot.Providers {
			line := fmt.Sprintf("%-10s configured=%-6v sessions=%-6d cost=$%.2f", row.Provider, row.Configured, row.Sessions, row.EstimatedCostUSD)
			b.WriteString(renderRow(line, i == app.SelectedRow()))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderRow(line string, selected bool) string {
	if selected {
		return styles.Highlight.Render("> " + line)
	}
	return "  " + line
}

func renderFooter(app *appstate.App) string {
	var mode string
	switch app.Mode {
	case appstate.ModeSearch:
		mode = "SEARCH: " + app.FilterText
	case appstate.ModeCommit:
		mode = "COMMIT: " + app.CommitText
	case appstate.ModeConfirmAction:
		if kind := app.PendingAction(); kind != nil {
			mode = styles.Warning.Render("confirm: " + kind.Preview() + " (y/Enter confirm, n/Esc cancel)")
		}
	default:
		mode = "j/k move  h/l section  x action  / search  c commit  s reconfigure  q quit  ? help"
	}
	notif := app.NotificationText()
	if notif != "" {
		return styles.Success.Render(notif) + "\n" + mode
	}
	return mode
}

func renderHelp() string {
	lines := []string{
		"AgentPulse — Help",
		"",
		"  j/k, up/down     move row",
		"  h/l, left/right  move section",
		"  /                search (Esc/Enter to exit)",
		"  c                commit message entry (Repos section)",
		"  x                stage the selected row's action for confirmation",
		"  Enter/y          confirm staged action",
		"  Esc/n            cancel staged action",
		"  s                reconfigure watch directories",
		"  q                quit",
		"  ?                toggle this help",
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}
