package appstate

import (
	"testing"
	"time"

	"github.com/indranilbora/agentpulse/internal/action"
	"github.com/indranilbora/agentpulse/internal/config"
	"github.com/indranilbora/agentpulse/internal/snapshot"
	"github.com/stretchr/testify/require"
)

func testApp() *App {
	cfg := config.Default()
	cfg.ShowClean = true
	app := New(cfg)
	app.Snapshot = snapshot.DashboardSnapshot{
		Repos: []snapshot.RepoRow{
			{Name: "alpha", Branch: "main"},
			{Name: "beta", Branch: "main", Dirty: 2, Action: &snapshot.ActionCommand{Label: "status"}},
		},
		Alerts: []snapshot.DashboardAlert{{Title: "one"}, {Title: "two"}},
	}
	return app
}

func TestMoveSectionWrapsCyclically(t *testing.T) {
	app := testApp()
	n := len(snapshot.AllSections())
	app.MoveSection(-1)
	require.Equal(t, snapshot.AllSections()[n-1], app.CurrentSection())
	app.MoveSection(1)
	require.Equal(t, snapshot.AllSections()[0], app.CurrentSection())
}

func TestMoveRowWrapsWithinSection(t *testing.T) {
	app := testApp()
	app.MoveRow(-1)
	require.Equal(t, 1, app.SelectedRow())
	app.MoveRow(1)
	require.Equal(t, 0, app.SelectedRow())
}

func TestFilteredRepoRowsAppliesTextFilter(t *testing.T) {
	app := testApp()
	app.FilterText = "bet"
	rows := app.filteredRepoRows()
	require.Len(t, rows, 1)
	require.Equal(t, "beta", rows[0].Name)
}

func TestFilteredRepoRowsHidesCleanWhenShowCleanFalse(t *testing.T) {
	app := testApp()
	app.Config.ShowClean = false
	rows := app.filteredRepoRows()
	require.Len(t, rows, 1)
	require.Equal(t, "beta", rows[0].Name)
}

func TestRequestConfirmCancelActionFlow(t *testing.T) {
	app := testApp()
	kind := action.GitStatus{RepoPath: "/repo"}
	app.RequestAction(kind)
	require.Equal(t, ModeConfirmAction, app.Mode)
	require.Equal(t, kind, app.PendingAction())

	confirmed := app.ConfirmAction()
	require.Equal(t, kind, confirmed)
	require.Nil(t, app.PendingAction())
	require.Equal(t, ModeNormal, app.Mode)
}

func TestCancelActionClearsPendingWithoutReturningIt(t *testing.T) {
	app := testApp()
	app.RequestAction(action.GitStatus{RepoPath: "/repo"})
	app.CancelAction()
	require.Nil(t, app.PendingAction())
	require.Equal(t, ModeNormal, app.Mode)
}

func TestNotifyAndTickExpiresAfterTTL(t *testing.T) {
	app := testApp()
	app.Notify("hello")
	require.Equal(t, "hello", app.NotificationText())

	app.notif.issuedAt = time.Now().Add(-5 * time.Second)
	app.Tick()
	require.Equal(t, "", app.NotificationText())
}

func TestApplySnapshotClampsSelection(t *testing.T) {
	app := testApp()
	app.MoveSection(0)
	app.rowIdx[snapshot.SectionHome] = 5
	app.ApplySnapshot(snapshot.DashboardSnapshot{
		Alerts:      []snapshot.DashboardAlert{{Title: "only"}},
		GeneratedAt: time.Now(),
	})
	require.False(t, app.IsScanning)
	require.NotNil(t, app.LastScan)
	require.Equal(t, 0, app.rowIdx[snapshot.SectionHome])
}
