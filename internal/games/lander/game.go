// Package lander implements the lunar lander game modes on top of the sim package.
// The game maps platform actions to thruster commands and draws the simulation
// into a core.Screen.
package lander

import (
	"math/rand"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/games/lander/sim"
	"github.com/vovakirdan/tui-lander/internal/registry"
)

// Layout constants
const (
	HUDRows    = 2 // stats line plus separator/notice line
	MinScreenW = 30
	MinScreenH = 12
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParseDifficulty(preset)
	if err != nil {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// Game implements the lander game logic.
type Game struct {
	massAware bool

	// Server-issued parameters replace the local config when set.
	override *sim.Params

	cfg     config.LanderConfig
	fixed   bool // gravity and fuel do not scale with level
	params  sim.Params
	runtime core.RuntimeConfig
	ctrl    *sim.Controller

	// Remaining ticks each thruster stays commanded after a key press.
	hold      [3]int
	holdTicks int

	paused    bool
	landings  int
	notice    string
	lastDiag  sim.Diagnostic
	listeners []sim.Listener

	screenTooSmall bool
}

// New creates a lander game. massAware selects the canonical mass-aware craft;
// false gives constant thrust effectiveness.
func New(massAware bool) *Game {
	return &Game{massAware: massAware}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.massAware {
		return "lander"
	}
	return "lander_classic"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.massAware {
		return "Lunar Lander"
	}
	return "Lunar Lander (Classic)"
}

// Description returns a one-line summary for listings.
func (g *Game) Description() string {
	if g.massAware {
		return "thrust grows as fuel burns off; land on the flat pad"
	}
	return "constant thrust effectiveness; land on the flat pad"
}

// SetParams makes the game use the given parameters instead of the local config,
// e.g. a server-issued signed configuration. Takes effect on the next Reset.
func (g *Game) SetParams(p sim.Params) {
	g.override = &p
}

// Subscribe registers a listener for simulation events.
// Listeners survive Reset.
func (g *Game) Subscribe(l sim.Listener) {
	g.listeners = append(g.listeners, l)
	if g.ctrl != nil {
		g.ctrl.Subscribe(l)
	}
}

// Reset starts a fresh session at level 1.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	// Load game config
	cfg, err := config.LoadLander(configPath)
	if err != nil {
		cfg = config.DefaultLanderConfig()
	}

	// Apply difficulty preset if set
	if difficultyPreset != "" {
		config.ApplyLanderPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg
	g.fixed = g.override == nil && config.IsFixedPreset(difficultyPreset)

	g.params = cfg.Params(runtime.TimeStep())
	if g.override != nil {
		g.params = *g.override
	}
	// The mode picks the craft model; server parameters never change it.
	g.params.MassAware = g.massAware

	g.holdTicks = cfg.Controls.HoldTicks
	if g.holdTicks < 1 {
		g.holdTicks = 1
	}
	g.hold = [3]int{}
	g.paused = false
	g.landings = 0
	g.notice = ""
	g.lastDiag = sim.Diagnostic{}

	g.ctrl = sim.NewController(g.params, rand.New(rand.NewSource(runtime.Seed)), g.viewport())
	g.ctrl.Subscribe(g.onEvent)
	for _, l := range g.listeners {
		g.ctrl.Subscribe(l)
	}
	g.checkScreen()
	g.ctrl.Restart()
}

// Resize adapts the viewport to new screen dimensions without restarting.
func (g *Game) Resize(width, height int) {
	g.runtime.ScreenW = width
	g.runtime.ScreenH = height
	g.checkScreen()
	if g.ctrl != nil {
		g.ctrl.SetViewport(g.viewport())
	}
}

func (g *Game) checkScreen() {
	g.screenTooSmall = g.runtime.ScreenW < MinScreenW || g.runtime.ScreenH < MinScreenH
}

// viewport is the playfield below the HUD.
func (g *Game) viewport() sim.Viewport {
	return sim.Viewport{
		Width:  float64(core.Max(g.runtime.ScreenW, 1)),
		Height: float64(core.Max(g.runtime.ScreenH-HUDRows, 1)),
	}
}

// onEvent keeps the HUD notice and landing count in sync with the controller.
func (g *Game) onEvent(e sim.Event) {
	switch e.Kind {
	case sim.EventStarted:
		g.notice = ""
	case sim.EventFuelExhausted:
		g.notice = "FUEL EXHAUSTED"
	case sim.EventAnomaly:
		g.notice = "SENSOR ANOMALY: " + e.Reason
	case sim.EventLanded:
		g.landings++
	}
}

// thrusterActions maps platform actions to thrusters.
var thrusterActions = [3]struct {
	action   core.Action
	thruster sim.Thruster
}{
	{core.ActionThrustUp, sim.ThrusterUp},
	{core.ActionThrustLeft, sim.ThrusterLeft},
	{core.ActionThrustRight, sim.ThrusterRight},
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.ctrl == nil || g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	// Handle restart: next attempt at the current level
	if in.Has(core.ActionRestart) && g.ctrl.GameOver() {
		g.hold = [3]int{}
		g.ctrl.Restart()
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) && !g.ctrl.GameOver() {
		g.paused = !g.paused
	}

	// Don't update if paused or the attempt is over
	if g.paused || g.ctrl.GameOver() {
		return core.StepResult{State: g.State()}
	}

	// Terminals report presses only, so each press holds the thruster for a few ticks.
	for i, ta := range thrusterActions {
		if in.Has(ta.action) {
			g.hold[i] = g.holdTicks
		}
		if g.hold[i] > 0 {
			g.ctrl.StartThruster(ta.thruster)
		} else {
			g.ctrl.StopThruster(ta.thruster)
		}
	}

	g.lastDiag = g.ctrl.Tick(g.params.TimeStep)

	for i := range g.hold {
		if g.hold[i] > 0 {
			g.hold[i]--
		}
	}

	return core.StepResult{State: g.State(), Ended: g.ctrl.GameOver()}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.ctrl == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.landings,
		Level:    g.ctrl.Level(),
		GameOver: g.ctrl.GameOver(),
		Crashed:  g.ctrl.Crashed(),
		Paused:   g.paused,
	}
}

// Controller exposes the simulation for read-only inspection.
func (g *Game) Controller() *sim.Controller {
	return g.ctrl
}

// Params returns the parameters the current session runs with.
func (g *Game) Params() sim.Params {
	return g.params
}

// LastDiagnostic returns the diagnostic of the most recent tick.
func (g *Game) LastDiagnostic() sim.Diagnostic {
	return g.lastDiag
}

// Register the games with the registry
func init() {
	registry.Register("lander", func() registry.Game {
		return New(true)
	})
	registry.Register("lander_classic", func() registry.Game {
		return New(false)
	})
}
