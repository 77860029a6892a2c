package lander

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/games/lander/sim"
	"github.com/vovakirdan/tui-lander/internal/registry"
)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 10,
		Seed:     12345,
	}
}

func newTestGame(t *testing.T, massAware bool) *Game {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	g := New(massAware)
	g.Reset(testRuntime())
	return g
}

// runUntilOver steps with the given input until the attempt ends.
func runUntilOver(g *Game, in core.InputFrame, limit int) int {
	for i := 0; i < limit; i++ {
		if res := g.Step(in); res.Ended {
			return i + 1
		}
	}
	return -1
}

func TestRegistryModes(t *testing.T) {
	for _, id := range []string{"lander", "lander_classic"} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q): %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID = %q, expected %q", g.ID(), id)
		}
		if g.Description() == "" {
			t.Errorf("%s: empty description", id)
		}
	}
}

func TestGameReset(t *testing.T) {
	g := newTestGame(t, true)

	state := g.State()
	if state.Level != 1 || state.GameOver || state.Paused || state.Score != 0 {
		t.Errorf("unexpected initial state: %+v", state)
	}
	if g.Controller().Phase() != sim.PhaseInProgress {
		t.Errorf("Phase = %s, expected in progress", g.Controller().Phase())
	}
	if !g.Params().MassAware {
		t.Error("lander mode should be mass-aware")
	}
	if g.Params().TimeStep != 0.1 {
		t.Errorf("TimeStep = %f, expected 0.1 at 10 Hz", g.Params().TimeStep)
	}
	view := g.Controller().Viewport()
	if view.Width != 80 || view.Height != 24-HUDRows {
		t.Errorf("viewport = %+v, expected 80x%d", view, 24-HUDRows)
	}
}

func TestClassicModeIsNotMassAware(t *testing.T) {
	g := newTestGame(t, false)
	if g.Params().MassAware {
		t.Error("classic mode should not be mass-aware")
	}
}

func TestGameDeterminism(t *testing.T) {
	inputs := make([]core.InputFrame, 300)
	for i := range inputs {
		inputs[i] = core.NewInputFrame()
		switch {
		case i%4 == 0:
			inputs[i].Set(core.ActionThrustUp)
		case i%7 == 0:
			inputs[i].Set(core.ActionThrustLeft)
		}
	}

	run := func() (sim.Craft, sim.Outcome) {
		g := newTestGame(t, true)
		for _, in := range inputs {
			if g.Step(in).Ended {
				break
			}
		}
		return *g.Controller().Craft(), g.Controller().Outcome()
	}

	c1, o1 := run()
	c2, o2 := run()

	if c1.Altitude != c2.Altitude || c1.Fuel != c2.Fuel || c1.HorizontalPosition != c2.HorizontalPosition {
		t.Errorf("Determinism failed: %+v vs %+v", c1, c2)
	}
	if o1 != o2 {
		t.Errorf("Determinism failed: outcomes %s vs %s", o1, o2)
	}
}

func TestFreeFallCrashes(t *testing.T) {
	g := newTestGame(t, true)

	ticks := runUntilOver(g, core.NewInputFrame(), 10000)
	if ticks < 0 {
		t.Fatal("free fall never reached the ground")
	}

	state := g.State()
	if !state.GameOver || !state.Crashed {
		t.Errorf("free fall should crash, state = %+v", state)
	}
	if state.Level != 1 {
		t.Errorf("Level = %d, crash should not advance", state.Level)
	}
}

func TestThrustHoldWindow(t *testing.T) {
	g := newTestGame(t, true)
	craft := g.Controller().Craft()

	press := core.NewInputFrame()
	press.Set(core.ActionThrustUp)
	idle := core.NewInputFrame()

	g.Step(press)
	if !craft.Firing(sim.ThrusterUp) {
		t.Fatal("thruster should fire on the pressed tick")
	}

	for i := 1; i < g.holdTicks; i++ {
		g.Step(idle)
		if !craft.Firing(sim.ThrusterUp) {
			t.Fatalf("thruster should still be held on idle tick %d", i)
		}
	}

	g.Step(idle)
	if craft.Firing(sim.ThrusterUp) {
		t.Error("thruster should release after the hold window")
	}
}

func TestThrustBurnsFuel(t *testing.T) {
	g := newTestGame(t, true)
	start := g.Controller().Craft().Fuel

	in := core.NewInputFrame()
	in.Set(core.ActionThrustUp)
	in.Set(core.ActionThrustRight)
	g.Step(in)

	want := start - 2*g.Params().TimeStep
	if got := g.Controller().Craft().Fuel; got > want+1e-9 || got < want-1e-9 {
		t.Errorf("Fuel = %f, expected %f after one tick of two thrusters", got, want)
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(t, true)

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)

	if !g.State().Paused {
		t.Fatal("game should be paused")
	}

	alt := g.Controller().Craft().Altitude
	for i := 0; i < 10; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.Controller().Craft().Altitude != alt {
		t.Error("paused game should not advance")
	}

	g.Step(pause)
	if g.State().Paused {
		t.Error("second pause should resume")
	}
}

func TestRestartOnlyAfterTouchdown(t *testing.T) {
	g := newTestGame(t, true)

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)

	g.Step(core.NewInputFrame())
	alt := g.Controller().Craft().Altitude
	g.Step(restart)
	if g.Controller().Craft().Altitude == sim.MaxAltitude && alt != sim.MaxAltitude {
		t.Error("restart mid-flight should be ignored")
	}

	if runUntilOver(g, core.NewInputFrame(), 10000) < 0 {
		t.Fatal("attempt never ended")
	}
	g.Step(restart)

	if g.State().GameOver {
		t.Error("restart after touchdown should begin a new attempt")
	}
	if g.Controller().Craft().Altitude != sim.MaxAltitude {
		t.Errorf("Altitude = %f, expected a fresh craft", g.Controller().Craft().Altitude)
	}
}

func TestListenersSurviveReset(t *testing.T) {
	g := New(true)
	t.Setenv("HOME", t.TempDir())

	var kinds []sim.EventKind
	g.Subscribe(func(e sim.Event) { kinds = append(kinds, e.Kind) })

	g.Reset(testRuntime())
	g.Reset(testRuntime())

	if len(kinds) != 2 || kinds[0] != sim.EventStarted || kinds[1] != sim.EventStarted {
		t.Errorf("expected one started event per Reset, got %v", kinds)
	}
}

func TestSetParamsOverride(t *testing.T) {
	p := sim.DefaultParams()
	p.BaseFuel = 33
	p.MinFuel = 10

	tests := []struct {
		name      string
		massAware bool
		issued    bool
	}{
		{"mass-aware mode, classic params", true, false},
		{"classic mode, mass-aware params", false, true},
		{"classic mode, classic params", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			issued := p
			issued.MassAware = tc.issued

			g := New(tc.massAware)
			g.SetParams(issued)
			t.Setenv("HOME", t.TempDir())
			g.Reset(testRuntime())

			if g.Controller().Craft().Fuel != 33 {
				t.Errorf("Fuel = %f, expected server-issued 33", g.Controller().Craft().Fuel)
			}
			want := issued
			want.MassAware = tc.massAware
			if g.Params() != want {
				t.Errorf("Params = %+v, expected %+v", g.Params(), want)
			}
		})
	}
}

func TestResizeKeepsSession(t *testing.T) {
	g := newTestGame(t, true)
	for i := 0; i < 5; i++ {
		g.Step(core.NewInputFrame())
	}
	alt := g.Controller().Craft().Altitude

	g.Resize(100, 30)

	if g.Controller().Craft().Altitude != alt {
		t.Error("resize should not restart the attempt")
	}
	if v := g.Controller().Viewport(); v.Width != 100 || v.Height != 30-HUDRows {
		t.Errorf("viewport = %+v after resize", v)
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t, true)
	screen := core.NewScreen(80, 24)

	g.Render(screen)

	hud := strings.Split(screen.String(), "\n")[0]
	for _, label := range []string{"ALT", "VS", "FUEL", "LVL"} {
		if !strings.Contains(hud, label) {
			t.Errorf("HUD %q missing %s", hud, label)
		}
	}
	// Craft starts centered at maximum altitude, just under the HUD.
	if screen.Get(40, HUDRows) != CraftChar {
		t.Errorf("cell (40, %d) = %q, expected the craft", HUDRows, screen.Get(40, HUDRows))
	}
	if !strings.ContainsRune(screen.String(), PadChar) {
		t.Error("landing pad not rendered")
	}
	if screen.Get(0, 23) != GroundChar {
		t.Errorf("bottom-left cell = %q, expected ground", screen.Get(0, 23))
	}
}

func TestRenderOutcomeBox(t *testing.T) {
	g := newTestGame(t, true)
	runUntilOver(g, core.NewInputFrame(), 10000)

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	if !strings.Contains(screen.String(), "Crashed") {
		t.Error("crash message should be rendered")
	}
	if !strings.ContainsRune(screen.String(), WreckChar) {
		t.Error("wreck should be rendered")
	}
}

func TestRenderWindowTooSmall(t *testing.T) {
	g := New(true)
	t.Setenv("HOME", t.TempDir())
	rt := testRuntime()
	rt.ScreenW, rt.ScreenH = 20, 8
	g.Reset(rt)

	screen := core.NewScreen(20, 8)
	g.Render(screen)

	if !strings.Contains(screen.String(), "too small") {
		t.Error("small window should show a hint")
	}
	if res := g.Step(core.NewInputFrame()); res.Ended {
		t.Error("small window should not advance the simulation")
	}
}

func TestFixedPresetTag(t *testing.T) {
	SetDifficultyPreset("fixed")
	t.Cleanup(func() { SetDifficultyPreset("") })

	hudNotice := func(g *Game) string {
		screen := core.NewScreen(80, 24)
		g.Render(screen)
		return strings.Split(screen.String(), "\n")[1]
	}

	g := newTestGame(t, true)
	if !strings.Contains(hudNotice(g), strings.TrimSpace(FixedTag)) {
		t.Error("fixed preset should be tagged in the HUD")
	}

	// Server-issued parameters decide scaling, so the local preset is not shown.
	remote := New(true)
	remote.SetParams(sim.DefaultParams())
	remote.Reset(testRuntime())
	if strings.Contains(hudNotice(remote), strings.TrimSpace(FixedTag)) {
		t.Error("server-issued parameters should not carry the local preset tag")
	}

	SetDifficultyPreset("hard")
	if strings.Contains(hudNotice(newTestGame(t, true)), strings.TrimSpace(FixedTag)) {
		t.Error("scaling presets should not be tagged")
	}
}

func TestFuelFraction(t *testing.T) {
	tests := []struct {
		fuel, start, expected float64
	}{
		{50, 100, 0.5},
		{0, 100, 0},
		{120, 100, 1},
		{-1, 100, 0},
		{10, 0, 0},
	}
	for _, tc := range tests {
		if got := fuelFraction(tc.fuel, tc.start); got != tc.expected {
			t.Errorf("fuelFraction(%v, %v) = %v, expected %v", tc.fuel, tc.start, got, tc.expected)
		}
	}
}
