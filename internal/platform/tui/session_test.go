package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

func newTestSession(t *testing.T) SessionModel {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return NewSessionModel(testConfig(), Options{
		Store:  newTestStore(t),
		Pilot:  "sally",
		Logger: log.New(io.Discard),
	})
}

func send(m SessionModel, msg tea.Msg) SessionModel {
	next, _ := m.Update(msg)
	return next.(SessionModel)
}

func TestSessionMenuLists(t *testing.T) {
	m := newTestSession(t)
	view := m.View()
	for _, title := range []string{"Lunar Lander", "Classic"} {
		if !strings.Contains(view, title) {
			t.Errorf("menu missing %q", title)
		}
	}
}

func TestSessionSelectStartsFlight(t *testing.T) {
	m := newTestSession(t)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.active != screenFlight {
		t.Fatalf("active = %d, expected flight", m.active)
	}
	if m.flight.opts.Flight != 1 || !m.flight.opts.AllowBack {
		t.Errorf("flight opts = %+v", m.flight.opts)
	}

	m = send(m, TickMsg{Flight: 1})
	m = send(m, runeKey('p'))
	m = send(m, TickMsg{Flight: 1})
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.active != screenMenu {
		t.Errorf("active = %d, expected menu after back from pause", m.active)
	}
}

func TestSessionScoreboardRoundTrip(t *testing.T) {
	m := newTestSession(t)

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.active != screenScoreboard {
		t.Fatalf("active = %d, expected scoreboard", m.active)
	}
	if !strings.Contains(m.View(), "LEADERBOARD") {
		t.Error("scoreboard title missing")
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.active != screenMenu {
		t.Errorf("active = %d, expected menu", m.active)
	}
}

func TestSessionQuit(t *testing.T) {
	m := newTestSession(t)
	next, cmd := m.Update(runeKey('q'))
	if !next.(SessionModel).quitting || cmd == nil {
		t.Error("q should quit the session")
	}
}
