package lander

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/games/lander/sim"
)

// Visual characters for rendering
const (
	GroundChar  = '█'
	PadChar     = '▀'
	CraftChar   = 'A'
	WreckChar   = 'X'
	MainFlame   = 'v'
	SideFlame   = '-'
	BorderHoriz = '─'
)

// FixedTag marks a session whose difficulty does not scale with level.
const FixedTag = " FIXED "

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.ctrl == nil {
		return
	}

	if g.screenTooSmall {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", MinScreenW, MinScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	g.renderHUD(dst)
	g.renderTerrain(dst)
	g.renderCraft(dst)
	g.renderOverlay(dst)
}

// renderHUD draws flight instruments on row 0 and notices on row 1.
func (g *Game) renderHUD(dst *core.Screen) {
	craft := g.ctrl.Craft()
	p := g.ctrl.Params()

	x := 1
	x = drawGauge(dst, x, "ALT", fmt.Sprintf("%5.1f", craft.Altitude), core.ColorHUD)

	vsColor := core.ColorHUD
	if math.Abs(craft.VerticalVelocity) > p.MaxLandingVertical {
		vsColor = core.ColorDanger
	}
	x = drawGauge(dst, x, "VS", fmt.Sprintf("%+5.2f", craft.VerticalVelocity), vsColor)

	hsColor := core.ColorHUD
	if math.Abs(craft.HorizontalVelocity) > p.MaxLandingHorizontal {
		hsColor = core.ColorDanger
	}
	x = drawGauge(dst, x, "HS", fmt.Sprintf("%+5.2f", craft.HorizontalVelocity), hsColor)

	fuelColor := core.ColorHUD
	switch left := fuelFraction(craft.Fuel, g.ctrl.StartFuel()); {
	case left <= 0:
		fuelColor = core.ColorDanger
	case left < 0.2:
		fuelColor = core.ColorWarning
	}
	x = drawGauge(dst, x, "FUEL", fmt.Sprintf("%5.1f", craft.Fuel), fuelColor)

	x = drawGauge(dst, x, "LVL", fmt.Sprintf("%d", g.attemptLevel()), core.ColorHUD)
	x = drawGauge(dst, x, "G", fmt.Sprintf("%.2f", g.ctrl.Gravity()), core.ColorHUD)
	if craft.MassAware() {
		drawGauge(dst, x, "THR", fmt.Sprintf("x%.2f", craft.ThrustRatio()), core.ColorHUD)
	}

	dst.DrawHLine(0, 1, dst.Width(), BorderHoriz)
	switch {
	case craft.Anomaly():
		dst.DrawTextColored(1, 1, " ANOMALY ", core.ColorDanger)
		if g.notice != "" {
			dst.DrawTextColored(11, 1, " "+g.notice+" ", core.ColorWarning)
		}
	case g.notice != "":
		dst.DrawTextColored(1, 1, " "+g.notice+" ", core.ColorWarning)
	}
	if g.fixed {
		dst.DrawTextColored(dst.Width()-len(FixedTag)-1, 1, FixedTag, core.ColorHUD)
	}
}

// fuelFraction is the share of the attempt's starting fuel left, in [0, 1].
func fuelFraction(fuel, start float64) float64 {
	if start <= 0 {
		return 0
	}
	return core.ClampF(fuel/start, 0, 1)
}

// drawGauge writes "LABEL value" and returns the next free column.
func drawGauge(dst *core.Screen, x int, label, value string, c core.Color) int {
	dst.DrawText(x, 0, label)
	x += len(label) + 1
	dst.DrawTextColored(x, 0, value, c)
	return x + len(value) + 2
}

// attemptLevel is the level being flown; after a landing the controller
// already points at the next one.
func (g *Game) attemptLevel() int {
	if g.ctrl.Outcome() == sim.OutcomeSuccess {
		return g.ctrl.Level() - 1
	}
	return g.ctrl.Level()
}

// renderTerrain fills each column from the sampled surface down.
func (g *Game) renderTerrain(dst *core.Screen) {
	sampler := g.ctrl.Sampler()
	view := g.ctrl.Viewport()
	rows := int(view.Height)
	padX0, padX1 := sampler.SafeZoneSpan()

	for col := range dst.Width() {
		center := float64(col) + 0.5
		top := core.Clamp(core.GridIndex(sampler.HeightAt(center)), 0, rows-1)

		onPad := center >= padX0 && center <= padX1
		if onPad {
			dst.SetColored(col, HUDRows+top, PadChar, core.ColorPad)
			dst.DrawVLine(col, HUDRows+top+1, rows-top-1, GroundChar, core.ColorTerrain)
		} else {
			dst.DrawVLine(col, HUDRows+top, rows-top, GroundChar, core.ColorTerrain)
		}
	}
}

// renderCraft draws the craft just above its contact point, plus active flames.
func (g *Game) renderCraft(dst *core.Screen) {
	px, py := g.ctrl.CraftPixel()
	rows := int(g.ctrl.Viewport().Height)

	col := core.Clamp(core.GridIndex(px), 0, dst.Width()-1)
	row := HUDRows + core.Clamp(core.GridIndex(py)-1, 0, rows-1)

	if g.ctrl.Crashed() {
		dst.SetColored(col, row, WreckChar, core.ColorDebris)
		return
	}
	dst.SetColored(col, row, CraftChar, core.ColorCraft)

	if g.ctrl.GameOver() {
		return
	}
	craft := g.ctrl.Craft()
	if craft.Firing(sim.ThrusterUp) {
		setIfEmpty(dst, col, row+1, MainFlame, core.ColorFlame)
	}
	// Exhaust leaves on the side opposite to the push.
	if craft.Firing(sim.ThrusterLeft) {
		setIfEmpty(dst, col+1, row, SideFlame, core.ColorFlame)
	}
	if craft.Firing(sim.ThrusterRight) {
		setIfEmpty(dst, col-1, row, SideFlame, core.ColorFlame)
	}
}

func setIfEmpty(dst *core.Screen, x, y int, r rune, c core.Color) {
	if dst.Get(x, y) == ' ' {
		dst.SetColored(x, y, r, c)
	}
}

// renderOverlay draws pause and outcome boxes.
func (g *Game) renderOverlay(dst *core.Screen) {
	switch {
	case g.paused:
		drawCenteredBox(dst, "PAUSED", "Press P to resume", core.ColorWarning)

	case g.ctrl.Outcome() == sim.OutcomeSuccess:
		drawCenteredBox(dst, g.ctrl.Message(), "Press R for the next level", core.ColorSuccess)

	case g.ctrl.Outcome() == sim.OutcomeCrash:
		drawCenteredBox(dst, g.ctrl.Message(), "Press R to retry", core.ColorDanger)
	}
}

// drawCenteredBox draws a centered message box with a colored title.
func drawCenteredBox(dst *core.Screen, title, subtitle string, c core.Color) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Min(core.Max(len(title), len(subtitle))+4, w)
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	// Draw box background
	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	// Draw text
	titleX := core.Max(boxX+(boxW-len(title))/2, boxX+1)
	dst.DrawTextColored(titleX, boxY+1, title, c)

	subtitleX := core.Max(boxX+(boxW-len(subtitle))/2, boxX+1)
	dst.DrawText(subtitleX, boxY+3, subtitle)
}
