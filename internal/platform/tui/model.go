package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/games/lander/sim"
	"github.com/vovakirdan/tui-lander/internal/registry"
	"github.com/vovakirdan/tui-lander/internal/storage"
	"github.com/vovakirdan/tui-lander/internal/verify"
)

// submitTimeout bounds one validator round trip.
const submitTimeout = 5 * time.Second

// Remote pairs a validator client with the signed configuration it issued.
type Remote struct {
	Client *verify.Client
	Config verify.ConfigResponse
}

// Options configures a flight model.
type Options struct {
	Store  *storage.Store
	Pilot  string
	Logger *log.Logger
	// Remote, when set, makes the game fly the server-issued parameters and
	// submits every touchdown for validation.
	Remote *Remote
	// AllowBack enables the back-to-menu key.
	AllowBack bool
	// Flight identifies this model's tick chain within one program.
	Flight int
}

// eventSource is implemented by games that publish simulation events.
type eventSource interface {
	Subscribe(l sim.Listener)
}

// paramsSetter is implemented by games that accept externally issued parameters.
type paramsSetter interface {
	SetParams(p sim.Params)
}

// journal buffers touchdown events between ticks.
type journal struct {
	events []sim.Event
}

func (j *journal) record(e sim.Event) {
	if e.Kind == sim.EventLanded || e.Kind == sim.EventCrashed {
		j.events = append(j.events, e)
	}
}

func (j *journal) drain() []sim.Event {
	out := j.events
	j.events = nil
	return out
}

// verifiedMsg carries the validator's answer for one recorded attempt.
type verifiedMsg struct {
	attemptID int64
	err       error
}

// Model is the Bubble Tea model for flying one game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	opts       Options
	keys       KeyMap
	help       help.Model
	journal    *journal
	inputFrame core.InputFrame
	gameState  core.GameState

	width, height int

	bestLevel int
	status    string
	statusErr bool

	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Pilot == "" {
		opts.Pilot = "pilot"
	}

	keys := DefaultKeyMap()
	keys.Back.SetEnabled(opts.AllowBack)

	m := Model{
		game:       game,
		config:     cfg,
		opts:       opts,
		keys:       keys,
		help:       help.New(),
		journal:    &journal{},
		inputFrame: core.NewInputFrame(),
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
	}

	if opts.Remote != nil {
		if ps, ok := game.(paramsSetter); ok {
			ps.SetParams(opts.Remote.Config.Params)
			m.config.TickRate = remoteTickRate(opts.Logger, opts.Remote.Config.Params, cfg.TickRate)
		}
	}
	if src, ok := game.(eventSource); ok {
		j := m.journal
		logger := opts.Logger
		gameID := game.ID()
		src.Subscribe(func(e sim.Event) {
			j.record(e)
			logEvent(logger, gameID, e)
		})
	}

	m.config.ScreenH = m.playfieldHeight()
	m.screen = core.NewScreen(m.config.ScreenW, m.config.ScreenH)
	if opts.Store != nil {
		if best, err := opts.Store.BestLevel(game.ID()); err == nil {
			m.bestLevel = best
		}
	}
	return m
}

// remoteTickRate matches the tick cadence to the integration step the
// validator issued, so simulated time keeps pace with the wall clock.
func remoteTickRate(logger *log.Logger, p sim.Params, local int) int {
	if p.TimeStep <= 0 {
		return local
	}
	rate := max(int(math.Round(1/p.TimeStep)), 1)
	if rate != local {
		logger.Warn("tick rate follows the validator time step",
			"fps", local,
			"time_step", p.TimeStep,
			"tick_rate", rate,
		)
	}
	return rate
}

// logEvent writes one simulation event to the structured log.
func logEvent(logger *log.Logger, gameID string, e sim.Event) {
	switch e.Kind {
	case sim.EventLanded, sim.EventCrashed:
		logger.Info("touchdown",
			"game", gameID,
			"level", e.Level,
			"outcome", e.Outcome,
			"vertical", e.Impact.Vertical,
			"horizontal", e.Impact.Horizontal,
			"fuel", e.Fuel,
		)
	case sim.EventAnomaly:
		logger.Warn("sensor anomaly", "game", gameID, "level", e.Level, "reason", e.Reason)
	default:
		logger.Debug("flight event", "game", gameID, "event", e.Kind, "level", e.Level)
	}
}

// footerHeight is the number of rows below the playfield.
func (m Model) footerHeight() int {
	return 1 + lipgloss.Height(m.help.View(m.keys))
}

func (m Model) playfieldHeight() int {
	return core.Max(m.height-m.footerHeight(), 1)
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	// Game is a pointer, so the reset survives the value receiver.
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate, m.opts.Flight)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg.Width, msg.Height)

	case TickMsg:
		if msg.Flight != m.opts.Flight {
			return m, nil
		}
		return m.handleTick()

	case verifiedMsg:
		return m.handleVerified(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.handleResize(m.width, m.height)
	case key.Matches(msg, m.keys.Back) && (m.gameState.GameOver || m.gameState.Paused):
		m.backToMenu = true
		return m, nil
	}

	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleResize re-lays out the playfield without restarting the attempt.
func (m Model) handleResize(width, height int) (tea.Model, tea.Cmd) {
	m.width, m.height = width, height
	m.help.Width = width
	m.config.ScreenW = width
	m.config.ScreenH = m.playfieldHeight()
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)
	m.game.Resize(m.config.ScreenW, m.config.ScreenH)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	cmds := []tea.Cmd{tickCmd(m.config.TickRate, m.opts.Flight)}
	for _, e := range m.journal.drain() {
		if cmd := m.recordTouchdown(e); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// recordTouchdown stores a finished attempt and, with a remote validator,
// returns the command submitting it.
func (m *Model) recordTouchdown(e sim.Event) tea.Cmd {
	outcome := storage.OutcomeCrash
	if e.Kind == sim.EventLanded {
		outcome = storage.OutcomeSuccess
		if e.Level > m.bestLevel {
			m.bestLevel = e.Level
		}
	}

	var id int64
	if m.opts.Store != nil {
		var err error
		id, err = m.opts.Store.RecordAttempt(storage.Attempt{
			GameID:          m.game.ID(),
			Pilot:           m.opts.Pilot,
			Level:           e.Level,
			Outcome:         outcome,
			VerticalSpeed:   e.Impact.Vertical,
			HorizontalSpeed: e.Impact.Horizontal,
			Altitude:        e.Altitude,
			Fuel:            e.Fuel,
		})
		if err != nil {
			m.opts.Logger.Error("record attempt", "err", err)
		}
	}

	if m.opts.Remote == nil {
		return nil
	}
	m.setStatus("verifying...", false)
	return submitCmd(m.opts.Remote, id, verify.NewResult(e.Altitude, e.Impact.Vertical))
}

// submitCmd posts a result to the validator off the UI loop.
func submitCmd(remote *Remote, attemptID int64, result verify.Result) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		err := remote.Client.Submit(ctx, remote.Config.Token, result)
		return verifiedMsg{attemptID: attemptID, err: err}
	}
}

// handleVerified applies the validator's verdict to the stored attempt.
func (m Model) handleVerified(msg verifiedMsg) (tea.Model, tea.Cmd) {
	var rej *verify.Rejection
	switch {
	case msg.err == nil:
		m.markVerified(msg.attemptID, true, "")
		m.setStatus("verified", false)
	case errors.As(msg.err, &rej):
		m.markVerified(msg.attemptID, false, rej.Reason)
		m.setStatus("rejected: "+rej.Reason, true)
	default:
		m.opts.Logger.Warn("validator unreachable", "err", msg.err)
		m.setStatus("validator unreachable", true)
	}
	return m, nil
}

func (m *Model) markVerified(id int64, accepted bool, reason string) {
	if m.opts.Store == nil || id == 0 {
		return
	}
	if err := m.opts.Store.MarkVerified(id, accepted, reason); err != nil {
		m.opts.Logger.Error("mark verified", "id", id, "err", err)
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderScreen(m.screen),
		m.statusLine(),
		m.help.View(m.keys),
	)
}

// statusLine shows the pilot, the session best and the last verification result.
func (m Model) statusLine() string {
	line := statusStyle.Render(fmt.Sprintf(" %s | %s | best level %d", m.game.Title(), m.opts.Pilot, m.bestLevel))
	if m.status == "" {
		return line
	}
	style := statusOKStyle
	if m.statusErr {
		style = statusBadStyle
	}
	return line + statusStyle.Render(" | ") + style.Render(m.status)
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}

// BackToMenu reports whether the user asked to return to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run flies a single game until the user quits.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
