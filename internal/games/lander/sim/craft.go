package sim

import "math"

// Thruster identifies one of the craft's three engines.
type Thruster int

const (
	ThrusterUp Thruster = iota
	ThrusterLeft
	ThrusterRight

	thrusterCount
)

// String returns a human-readable name for the thruster.
func (t Thruster) String() string {
	switch t {
	case ThrusterUp:
		return "up"
	case ThrusterLeft:
		return "left"
	case ThrusterRight:
		return "right"
	default:
		return "unknown"
	}
}

// DiagnosticKind tags the result of a single integration step.
type DiagnosticKind int

const (
	DiagnosticOK DiagnosticKind = iota
	DiagnosticAnomaly
)

// Diagnostic reports whether an update had to clamp non-finite or
// out-of-range state.
type Diagnostic struct {
	Kind   DiagnosticKind
	Reason string
}

// OK reports whether the step completed without an anomaly.
func (d Diagnostic) OK() bool {
	return d.Kind == DiagnosticOK
}

// Anomaly reasons.
const (
	ReasonAltitudeNonFinite  = "altitude is not finite"
	ReasonAltitudeRange      = "altitude out of range"
	ReasonVelocityNonFinite  = "vertical velocity is not finite"
	ReasonVelocityOutOfBound = "vertical velocity exceeds sanity bound"
)

// Craft is the lander's physical state. Positive VerticalVelocity means the
// craft is descending.
type Craft struct {
	Altitude           float64
	VerticalVelocity   float64
	HorizontalPosition float64
	HorizontalVelocity float64
	Fuel               float64

	DryMass  float64
	FullMass float64
	Mass     float64

	maxAltitude        float64
	maxHorizontalRange float64
	massAware          bool
	thrusters          [thrusterCount]bool
	anomaly            bool
}

// NewCraft creates a craft for the given parameters. Call Reset before use.
func NewCraft(p Params) *Craft {
	maxAlt := p.MaxAltitude
	if maxAlt <= 0 {
		maxAlt = MaxAltitude
	}
	return &Craft{
		DryMass:            p.DryMass,
		maxAltitude:        maxAlt,
		maxHorizontalRange: p.MaxHorizontalRange,
		massAware:          p.MassAware,
	}
}

// Reset places the craft at the top of the range, centered, with the given fuel.
func (c *Craft) Reset(fuel float64) {
	if fuel < 0 {
		fuel = 0
	}
	c.Altitude = c.maxAltitude
	c.VerticalVelocity = 0
	c.HorizontalPosition = c.maxHorizontalRange / 2
	c.HorizontalVelocity = 0
	c.Fuel = fuel
	c.FullMass = c.DryMass + fuel
	c.Mass = c.FullMass
	c.thrusters = [thrusterCount]bool{}
	c.anomaly = false
}

// MaxAltitude returns the top of the craft's vertical range.
func (c *Craft) MaxAltitude() float64 {
	return c.maxAltitude
}

// MaxHorizontalRange returns the width of the playable span.
func (c *Craft) MaxHorizontalRange() float64 {
	return c.maxHorizontalRange
}

// MassAware reports whether thrust effectiveness scales with remaining mass.
func (c *Craft) MassAware() bool {
	return c.massAware
}

// StartThruster commands a thruster on. Ignored while the tank is empty.
func (c *Craft) StartThruster(t Thruster) {
	if t < 0 || t >= thrusterCount || c.Fuel <= 0 {
		return
	}
	c.thrusters[t] = true
}

// StopThruster commands a thruster off.
func (c *Craft) StopThruster(t Thruster) {
	if t < 0 || t >= thrusterCount {
		return
	}
	c.thrusters[t] = false
}

// Firing reports whether a thruster is currently active.
func (c *Craft) Firing(t Thruster) bool {
	if t < 0 || t >= thrusterCount {
		return false
	}
	return c.thrusters[t]
}

// ActiveThrusters returns how many thrusters are firing.
func (c *Craft) ActiveThrusters() int {
	n := 0
	for _, on := range c.thrusters {
		if on {
			n++
		}
	}
	return n
}

// ThrustRatio returns FullMass/Mass for the mass-aware variant, 1 otherwise.
func (c *Craft) ThrustRatio() float64 {
	if !c.massAware || c.Mass <= 0 {
		return 1
	}
	return c.FullMass / c.Mass
}

// Anomaly reports whether any update since the last Reset had to clamp state.
func (c *Craft) Anomaly() bool {
	return c.anomaly
}

// Update advances the craft by dt using semi-implicit Euler integration.
func (c *Craft) Update(dt, gravity, mainAccel, sideAccel float64) Diagnostic {
	ratio := c.ThrustRatio()

	accelY := gravity
	if c.thrusters[ThrusterUp] && c.Fuel > 0 {
		accelY -= mainAccel * ratio
	}
	accelX := 0.0
	if c.thrusters[ThrusterLeft] && c.Fuel > 0 {
		accelX -= sideAccel * ratio
	}
	if c.thrusters[ThrusterRight] && c.Fuel > 0 {
		accelX += sideAccel * ratio
	}

	// Thrust already applied this step stays applied even if the tank empties now.
	if active := c.ActiveThrusters(); active > 0 && c.Fuel > 0 {
		c.Fuel -= float64(active) * dt
		if c.Fuel <= 0 {
			c.Fuel = 0
			c.thrusters = [thrusterCount]bool{}
		}
		c.Mass = c.DryMass + c.Fuel
	}

	c.VerticalVelocity += accelY * dt
	c.HorizontalVelocity += accelX * dt
	c.Altitude -= c.VerticalVelocity * dt
	c.HorizontalPosition += c.HorizontalVelocity * dt

	if c.HorizontalPosition <= 0 {
		c.HorizontalPosition = 0
		c.HorizontalVelocity = 0
	} else if c.HorizontalPosition >= c.maxHorizontalRange {
		c.HorizontalPosition = c.maxHorizontalRange
		c.HorizontalVelocity = 0
	}

	if !c.massAware {
		return Diagnostic{}
	}
	return c.checkAnomaly()
}

// checkAnomaly clamps non-finite or out-of-range vertical state and sets the
// sticky anomaly flag.
func (c *Craft) checkAnomaly() Diagnostic {
	reason := ""

	switch {
	case math.IsNaN(c.Altitude) || math.IsInf(c.Altitude, 0):
		reason = ReasonAltitudeNonFinite
	case c.Altitude < 0 || c.Altitude > c.maxAltitude:
		reason = ReasonAltitudeRange
	}

	velocityBad := false
	switch {
	case math.IsNaN(c.VerticalVelocity) || math.IsInf(c.VerticalVelocity, 0):
		velocityBad = true
		if reason == "" {
			reason = ReasonVelocityNonFinite
		}
	case math.Abs(c.VerticalVelocity) > MaxSanitySpeed:
		velocityBad = true
		if reason == "" {
			reason = ReasonVelocityOutOfBound
		}
	}

	if reason == "" {
		return Diagnostic{}
	}

	c.anomaly = true
	if math.IsNaN(c.Altitude) {
		c.Altitude = 0
	}
	c.Altitude = math.Max(0, math.Min(c.maxAltitude, c.Altitude))
	if velocityBad {
		c.VerticalVelocity = 0
	}
	return Diagnostic{Kind: DiagnosticAnomaly, Reason: reason}
}
