// Package appstate holds the interactive dashboard's state machine: section
// and row navigation, filter/search/commit text entry, pending-action
// confirmation, and notification TTL, following app.rs's App/AppMode but
// generalized from its 4-mode Normal/Search/Help/Commit set to a richer
// Normal/Search/Help/Commit/ConfirmAction set.
package appstate

import (
	"strings"
	"time"

	"github.com/indranilbora/agentpulse/internal/action"
	"github.com/indranilbora/agentpulse/internal/config"
	"github.com/indranilbora/agentpulse/internal/snapshot"
	"github.com/indranilbora/agentpulse/pkg/constants"
)

// Mode is the app's current input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeHelp
	ModeCommit
	ModeConfirmAction
)

// notification is a transient status message shown in the footer until it
// expires.
type notification struct {
	message  string
	issuedAt time.Time
}

// App is the complete UI state for one dashboard session.
type App struct {
	Config Config

	Snapshot    snapshot.DashboardSnapshot
	sectionIdx  int
	rowIdx      map[snapshot.Section]int
	FilterText  string
	CommitText  string
	Mode        Mode

	LastScan      *time.Time
	IsScanning    bool
	ShouldQuit    bool
	ShouldReconfigure bool

	pendingAction     action.Kind
	pendingActionRepo string

	notif *notification
}

// Config is an alias of config.Config; the app state reads only a few of
// its fields (show_clean, etc).
type Config = config.Config

// New returns a fresh App for cfg, starting on the Home section in
// scanning state, matching the original's App::new.
func New(cfg Config) *App {
	return &App{
		Config:     cfg,
		sectionIdx: 0,
		rowIdx:     make(map[snapshot.Section]int),
		Mode:       ModeNormal,
		IsScanning: true,
	}
}

// CurrentSection returns the active section.
func (a *App) CurrentSection() snapshot.Section {
	return snapshot.AllSections()[a.sectionIdx]
}

// MoveSection advances the active section by delta, wrapping cyclically
//.
func (a *App) MoveSection(delta int) {
	sections := snapshot.AllSections()
	n := len(sections)
	a.sectionIdx = ((a.sectionIdx+delta)%n + n) % n
}

// rowCount returns how many rows the active section currently has.
func (a *App) rowCount() int {
	switch a.CurrentSection() {
	case snapshot.SectionHome:
		return len(a.Snapshot.Alerts)
	case snapshot.SectionRepos:
		return len(a.filteredRepoRows())
	case snapshot.SectionWorktrees:
		return len(a.Snapshot.Worktrees)
	case snapshot.SectionProcesses:
		return len(a.Snapshot.Processes)
	case snapshot.SectionDependencies:
		return len(a.Snapshot.Dependencies)
	case snapshot.SectionEnvAudit:
		return len(a.Snapshot.EnvAudit)
	case snapshot.SectionMcpHealth:
		return len(a.Snapshot.McpServers)
	default:
		return len(a.Snapshot.Providers)
	}
}

// FilteredRepos returns the Repos section rows after the show_clean and
// free-text filters are applied, for rendering; SelectedRow indexes into
// this same slice when the active section is Repos.
func (a *App) FilteredRepos() []snapshot.RepoRow {
	return a.filteredRepoRows()
}

// filteredRepoRows returns the Repos section rows after the show_clean and
// free-text filters are applied, following app.rs's filtered_repos.
func (a *App) filteredRepoRows() []snapshot.RepoRow {
	rows := make([]snapshot.RepoRow, 0, len(a.Snapshot.Repos))
	needle := strings.ToLower(a.FilterText)
	for _, row := range a.Snapshot.Repos {
		if !a.Config.ShowClean && row.Dirty == 0 && row.Ahead == 0 && row.Behind == 0 {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(row.Name), needle) &&
			!strings.Contains(strings.ToLower(row.Branch), needle) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// SelectedRow returns the current row index within the active section,
// clamped to its bounds.
func (a *App) SelectedRow() int {
	idx := a.rowIdx[a.CurrentSection()]
	count := a.rowCount()
	if count == 0 {
		return 0
	}
	if idx >= count {
		return count - 1
	}
	return idx
}

// MoveRow advances the selected row by delta within the active section,
// wrapping modularly.
func (a *App) MoveRow(delta int) {
	count := a.rowCount()
	if count == 0 {
		return
	}
	cur := a.SelectedRow()
	a.rowIdx[a.CurrentSection()] = ((cur+delta)%count + count) % count
}

// ClampSelection resets a section's row index to stay within bounds, e.g.
// after a rescan shrinks the row count.
func (a *App) ClampSelection() {
	for _, section := range snapshot.AllSections() {
		count := a.rowCountFor(section)
		if count == 0 {
			a.rowIdx[section] = 0
		} else if a.rowIdx[section] >= count {
			a.rowIdx[section] = count - 1
		}
	}
}

func (a *App) rowCountFor(section snapshot.Section) int {
	prev := a.sectionIdx
	for i, s := range snapshot.AllSections() {
		if s == section {
			a.sectionIdx = i
			break
		}
	}
	n := a.rowCount()
	a.sectionIdx = prev
	return n
}

// SelectedActionKind returns the typed action.Kind behind the currently
// selected row, when the active section's row model carries one (only the
// Repos section does today; other sections' actions are idempotent
// previews dispatched informationally, not staged for confirmation).
func (a *App) SelectedActionKind() action.Kind {
	if a.CurrentSection() != snapshot.SectionRepos {
		return nil
	}
	rows := a.filteredRepoRows()
	row := a.SelectedRow()
	if row >= len(rows) {
		return nil
	}
	return rows[row].Kind
}

// SelectedAction returns the ActionCommand attached to the currently
// selected row, if any.
func (a *App) SelectedAction() *snapshot.ActionCommand {
	row := a.SelectedRow()
	switch a.CurrentSection() {
	case snapshot.SectionHome:
		if row < len(a.Snapshot.Alerts) {
			return a.Snapshot.Alerts[row].Action
		}
	case snapshot.SectionRepos:
		rows := a.filteredRepoRows()
		if row < len(rows) {
			return rows[row].Action
		}
	case snapshot.SectionWorktrees:
		if row < len(a.Snapshot.Worktrees) {
			return a.Snapshot.Worktrees[row].Action
		}
	case snapshot.SectionProcesses:
		if row < len(a.Snapshot.Processes) {
			return a.Snapshot.Processes[row].Action
		}
	case snapshot.SectionDependencies:
		if row < len(a.Snapshot.Dependencies) {
			return a.Snapshot.Dependencies[row].Action
		}
	case snapshot.SectionEnvAudit:
		if row < len(a.Snapshot.EnvAudit) {
			return a.Snapshot.EnvAudit[row].Action
		}
	case snapshot.SectionMcpHealth:
		if row < len(a.Snapshot.McpServers) {
			return a.Snapshot.McpServers[row].Action
		}
	}
	return nil
}

// RequestAction stages kind for confirmation, switching to ConfirmAction
// mode; bound to the "x" key.
func (a *App) RequestAction(kind action.Kind) {
	a.pendingAction = kind
	if path, ok := kind.AffectedRepoPath(); ok {
		a.pendingActionRepo = path
	} else {
		a.pendingActionRepo = ""
	}
	a.Mode = ModeConfirmAction
}

// PendingAction returns the action awaiting confirmation, if any.
func (a *App) PendingAction() action.Kind {
	return a.pendingAction
}

// ConfirmAction clears the pending action and returns it for the caller to
// dispatch to the executor; bound to Enter/y.
func (a *App) ConfirmAction() action.Kind {
	kind := a.pendingAction
	a.pendingAction = nil
	a.pendingActionRepo = ""
	a.Mode = ModeNormal
	return kind
}

// CancelAction clears the pending action without dispatching it; bound to
// Esc/n.
func (a *App) CancelAction() {
	a.pendingAction = nil
	a.pendingActionRepo = ""
	a.Mode = ModeNormal
}

// Notify sets a transient status message, shown until NotificationTTL
// elapses.
func (a *App) Notify(message string) {
	a.notif = &notification{message: message, issuedAt: time.Now()}
}

// NotificationText returns the current notification's message, or "" if
// none is active.
func (a *App) NotificationText() string {
	if a.notif == nil {
		return ""
	}
	return a.notif.message
}

// Tick clears an expired notification; called once per UI tick.
func (a *App) Tick() {
	if a.notif == nil {
		return
	}
	if time.Since(a.notif.issuedAt) > time.Duration(constants.NotificationTTL)*time.Second {
		a.notif = nil
	}
}

// ApplySnapshot replaces the dashboard snapshot and clamps row selection to
// its new bounds, then marks scanning complete.
func (a *App) ApplySnapshot(snap snapshot.DashboardSnapshot) {
	a.Snapshot = snap
	a.IsScanning = false
	now := snap.GeneratedAt
	a.LastScan = &now
	a.ClampSelection()
}
