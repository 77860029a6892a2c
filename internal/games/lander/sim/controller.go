package sim

import (
	"fmt"
	"math"
)

// Phase is the attempt state machine's state.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseEnded
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseInProgress:
		return "in progress"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Outcome is the judgment of a finished attempt.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeCrash
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeCrash:
		return "crash"
	default:
		return "none"
	}
}

// Impact holds the velocities captured at touchdown.
type Impact struct {
	Vertical   float64
	Horizontal float64
	Position   float64
}

// Judge classifies a touchdown. Both speed limits and the zone bounds are
// inclusive. A non-finite speed never passes a limit.
func Judge(p Params, zone SafeZone, impact Impact) (Outcome, string) {
	switch {
	case !(math.Abs(impact.Vertical) <= p.MaxLandingVertical):
		return OutcomeCrash, fmt.Sprintf("Crashed: descent too fast (%.2f > %.2f)", math.Abs(impact.Vertical), p.MaxLandingVertical)
	case !(math.Abs(impact.Horizontal) <= p.MaxLandingHorizontal):
		return OutcomeCrash, fmt.Sprintf("Crashed: drifting too fast (%.2f > %.2f)", math.Abs(impact.Horizontal), p.MaxLandingHorizontal)
	case !zone.Contains(impact.Position):
		return OutcomeCrash, "Crashed: missed the landing zone"
	}
	return OutcomeSuccess, "Landed safely!"
}

// Controller owns one playing session: the craft, the current terrain and the
// level progression. All mutating calls are synchronous.
type Controller struct {
	params  Params
	craft   *Craft
	terrain Terrain
	rng     RandSource
	view    Viewport

	phase     Phase
	outcome   Outcome
	level     int
	gravity   float64
	startFuel float64
	impact    Impact
	message   string

	listeners []Listener
}

// NewController creates a controller in PhaseNotStarted at level 1.
func NewController(p Params, rng RandSource, view Viewport) *Controller {
	if p.MaxAltitude <= 0 {
		p.MaxAltitude = MaxAltitude
	}
	return &Controller{
		params: p,
		craft:  NewCraft(p),
		rng:    rng,
		view:   view,
		level:  1,
	}
}

// Subscribe registers a listener for state-change events.
func (c *Controller) Subscribe(l Listener) {
	c.listeners = append(c.listeners, l)
}

func (c *Controller) emit(e Event) {
	for _, l := range c.listeners {
		l(e)
	}
}

// Restart begins a new attempt at the current level.
func (c *Controller) Restart() {
	c.startFuel = c.params.StartFuel(c.level)
	c.gravity = c.params.Gravity(c.level)
	c.craft.Reset(c.startFuel)
	c.terrain = GenerateTerrain(c.rng, c.params.TerrainSegments, c.params.MaxHorizontalRange)
	c.outcome = OutcomeNone
	c.impact = Impact{}
	c.message = ""
	c.phase = PhaseInProgress

	c.emit(Event{Kind: EventStarted, Level: c.level})
}

// StartThruster commands a thruster on; it takes effect on the next tick.
func (c *Controller) StartThruster(t Thruster) {
	c.craft.StartThruster(t)
}

// StopThruster commands a thruster off; it takes effect on the next tick.
func (c *Controller) StopThruster(t Thruster) {
	c.craft.StopThruster(t)
}

// Tick advances the attempt by dt. Does nothing unless an attempt is in progress.
func (c *Controller) Tick(dt float64) Diagnostic {
	if c.phase != PhaseInProgress {
		return Diagnostic{}
	}

	hadFuel := c.craft.Fuel > 0
	diag := c.craft.Update(dt, c.gravity, c.params.MainThrust, c.params.SideThrust)

	if hadFuel && c.craft.Fuel == 0 {
		c.emit(Event{Kind: EventFuelExhausted, Level: c.level})
	}
	if !diag.OK() {
		c.emit(Event{Kind: EventAnomaly, Level: c.level, Reason: diag.Reason})
	}

	x, y := c.CraftPixel()
	surfaceY := c.Sampler().HeightAt(x)
	if y >= surfaceY {
		c.touchdown(surfaceY)
	}
	return diag
}

// touchdown finalizes the attempt at the given surface pixel Y.
func (c *Controller) touchdown(surfaceY float64) {
	c.impact = Impact{
		Vertical:   c.craft.VerticalVelocity,
		Horizontal: c.craft.HorizontalVelocity,
		Position:   c.craft.HorizontalPosition,
	}

	if c.view.Height > 0 {
		c.craft.Altitude = (c.view.Height - surfaceY) / c.view.Height * c.params.MaxAltitude
	}
	c.craft.VerticalVelocity = 0
	c.craft.HorizontalVelocity = 0

	c.outcome, c.message = Judge(c.params, c.terrain.Safe, c.impact)
	landedLevel := c.level
	c.phase = PhaseEnded

	kind := EventCrashed
	if c.outcome == OutcomeSuccess {
		c.level++
		c.message = fmt.Sprintf("%s Level %d next.", c.message, c.level)
		kind = EventLanded
	}

	c.emit(Event{
		Kind:     kind,
		Level:    landedLevel,
		Outcome:  c.outcome,
		Impact:   c.impact,
		Altitude: c.craft.Altitude,
		Fuel:     c.craft.Fuel,
		Reason:   c.message,
	})
}

// CraftPixel returns the craft's position projected onto the viewport.
func (c *Controller) CraftPixel() (x, y float64) {
	x = c.Sampler().ToPixelX(c.craft.HorizontalPosition)
	y = c.view.Height - c.craft.Altitude/c.params.MaxAltitude*c.view.Height
	return x, y
}

// Sampler returns a terrain sampler for the current viewport.
func (c *Controller) Sampler() Sampler {
	return NewSampler(&c.terrain, c.view)
}

// SetViewport changes the projection surface, e.g. after a terminal resize.
func (c *Controller) SetViewport(v Viewport) {
	c.view = v
}

// Viewport returns the current projection surface.
func (c *Controller) Viewport() Viewport {
	return c.view
}

// Craft returns the live craft. Callers outside the controller must treat it as read-only.
func (c *Controller) Craft() *Craft {
	return c.craft
}

// Terrain returns the current terrain.
func (c *Controller) Terrain() *Terrain {
	return &c.terrain
}

// Params returns the gameplay parameters.
func (c *Controller) Params() Params {
	return c.params
}

func (c *Controller) Phase() Phase       { return c.phase }
func (c *Controller) Outcome() Outcome   { return c.outcome }
func (c *Controller) Level() int         { return c.level }
func (c *Controller) Gravity() float64   { return c.gravity }
func (c *Controller) StartFuel() float64 { return c.startFuel }
func (c *Controller) Impact() Impact     { return c.impact }
func (c *Controller) Message() string    { return c.message }

// GameOver reports whether the current attempt has ended.
func (c *Controller) GameOver() bool {
	return c.phase == PhaseEnded
}

// Crashed reports whether the last attempt ended in a crash.
func (c *Controller) Crashed() bool {
	return c.phase == PhaseEnded && c.outcome == OutcomeCrash
}
