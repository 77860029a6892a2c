package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/registry"
	"github.com/vovakirdan/tui-lander/internal/storage"
)

// screen identifies the active view of a session.
type screen int

const (
	screenMenu screen = iota
	screenFlight
	screenScoreboard
)

// SessionModel manages the full session flow: menu -> flight -> menu, with the
// leaderboard reachable from the menu. Local play and SSH sessions share it.
type SessionModel struct {
	config   core.RuntimeConfig
	opts     Options
	active   screen
	menu     MenuModel
	flight   Model
	board    ScoreboardModel
	flights  int
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg core.RuntimeConfig, opts Options) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	opts.AllowBack = true

	return SessionModel{
		config: cfg,
		opts:   opts,
		menu:   NewMenuModel(cfg.ScreenW, cfg.ScreenH),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.active {
	case screenFlight:
		return m.updateFlight(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.active = screenScoreboard
		m.board = NewScoreboardModel(m.opts.Store, m.config.ScreenW, m.config.ScreenH)
		return m, m.board.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		game, err := registry.Create(selected.GameID)
		if err != nil {
			m.opts.Logger.Error("create game", "game", selected.GameID, "err", err)
			m.menu = NewMenuModel(m.config.ScreenW, m.config.ScreenH)
			return m, nil
		}

		m.flights++
		opts := m.opts
		opts.Flight = m.flights
		m.flight = NewModel(game, m.config, opts)
		m.active = screenFlight
		m.opts.Logger.Info("flight started", "pilot", opts.Pilot, "mode", modeTitle(game.ID()))
		return m, m.flight.Init()
	}

	return m, cmd
}

// updateFlight handles updates when flying.
func (m SessionModel) updateFlight(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.flight.Update(msg)
	if flight, ok := newModel.(Model); ok {
		m.flight = flight
	}

	if m.flight.Quitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.flight.BackToMenu() {
		m.backToMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates on the leaderboard.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.board.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.board = board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.board.IsGoingBack() {
		m.backToMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

func (m *SessionModel) backToMenu() {
	m.active = screenMenu
	m.menu = NewMenuModel(m.config.ScreenW, m.config.ScreenH)
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.active {
	case screenFlight:
		return m.flight.View()
	case screenScoreboard:
		return m.board.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu-driven session in the local terminal.
func RunSession(cfg core.RuntimeConfig, opts Options) error {
	p := tea.NewProgram(NewSessionModel(cfg, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// OpenSessionStore opens the in-memory attempt store, logging instead of
// failing so play continues without a leaderboard.
func OpenSessionStore(logger *log.Logger) *storage.Store {
	store, err := storage.OpenMemory()
	if err != nil {
		logger.Warn("could not open attempt store", "error", err)
		return nil
	}
	return store
}
