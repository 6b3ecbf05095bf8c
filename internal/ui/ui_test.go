package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/indranilbora/agentpulse/internal/action"
	"github.com/indranilbora/agentpulse/internal/appstate"
	"github.com/indranilbora/agentpulse/internal/config"
	"github.com/indranilbora/agentpulse/internal/executor"
	"github.com/indranilbora/agentpulse/internal/snapshot"
	"github.com/indranilbora/agentpulse/internal/statuscache"
)

func testModel() model {
	cfg := config.Default()
	m := newModel(context.Background(), cfg)
	m.app.Snapshot = snapshot.DashboardSnapshot{
		Repos: []snapshot.RepoRow{
			{Name: "alpha", Branch: "main", Path: "/repos/alpha", Kind: action.GitStatus{RepoPath: "/repos/alpha"}},
			{Name: "beta", Branch: "main", Dirty: 2, Path: "/repos/beta", Kind: action.GitPush{RepoPath: "/repos/beta"}},
		},
	}
	m.app.IsScanning = false
	return m
}

func TestHandleNormalKeyMovesRowAndSection(t *testing.T) {
	m := testModel()
	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	nm := next.(model)
	require.Equal(t, snapshot.SectionRepos, nm.app.CurrentSection())

	next, _ = nm.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	nm = next.(model)
	require.Equal(t, 1, nm.app.SelectedRow())
}

func TestHandleNormalKeySlashEntersSearchMode(t *testing.T) {
	m := testModel()
	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	nm := next.(model)
	require.Equal(t, appstate.ModeSearch, nm.app.Mode)
}

func TestHandleNormalKeyQSetsQuit(t *testing.T) {
	m := testModel()
	next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	nm := next.(model)
	require.True(t, nm.app.ShouldQuit)
	require.NotNil(t, cmd)
}

func TestHandleSearchKeyAppendsAndExits(t *testing.T) {
	m := testModel()
	m.app.Mode = appstate.ModeSearch
	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	nm := next.(model)
	require.Equal(t, "a", nm.app.FilterText)

	next, _ = nm.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	nm = next.(model)
	require.Equal(t, appstate.ModeNormal, nm.app.Mode)
}

func TestHandleConfirmKeyCancelClearsPendingAction(t *testing.T) {
	m := testModel()
	m.app.MoveSection(1) // Repos section
	m.app.RequestAction(m.app.FilteredRepos()[0].Kind)
	require.Equal(t, appstate.ModeConfirmAction, m.app.Mode)

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	nm := next.(model)
	require.Equal(t, appstate.ModeNormal, nm.app.Mode)
	require.Nil(t, nm.app.PendingAction())
}

func TestUpdateRescanTriggerSchedulesScan(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(rescanTriggerMsg{})
	require.NotNil(t, cmd)
}

func TestUpdateActionDoneNotifiesAndInvalidatesCache(t *testing.T) {
	m := testModel()
	m.cache["/repos/alpha"] = statuscache.Entry{}
	_, cmd := m.Update(actionDoneMsg{result: executor.Result{
		Notification: "done",
		Completion:   executor.Completion{AffectedRepoPath: "/repos/alpha", HasRepoPath: true},
	}})
	require.NotNil(t, cmd)
	require.Equal(t, "done", m.app.NotificationText())
	_, cached := m.cache["/repos/alpha"]
	require.False(t, cached)
}
