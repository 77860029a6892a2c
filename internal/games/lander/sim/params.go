// Package sim implements the lander simulation: craft integration, procedural
// terrain, terrain sampling and the attempt state machine.
// It has no dependencies on the platform, rendering or input layers.
package sim

// Fixed physical constants shared by the simulation and the result validator.
const (
	// MaxAltitude is the top of the playable vertical range.
	MaxAltitude = 100.0

	// MaxSanitySpeed bounds |VerticalVelocity| before the anomaly check trips.
	MaxSanitySpeed = 1000.0

	// Terrain height fractions (share of the viewport height).
	TerrainMinHeight = 0.1
	TerrainMaxHeight = 0.4
	SafeZoneCap      = 0.2

	// MinSegments guarantees at least one interior segment for the safe zone.
	MinSegments = 3

	// DefaultTimeStep matches a 10 Hz tick source.
	DefaultTimeStep = 0.1
)

// Params are the gameplay parameters of a lander session.
// Field order defines the canonical JSON encoding that gets signed, so fields
// must never be reordered without rotating issued tokens.
type Params struct {
	MaxAltitude          float64 `json:"maxAltitude"`
	MaxHorizontalRange   float64 `json:"maxHorizontalRange"`
	BaseGravity          float64 `json:"baseGravity"`
	GravityPerLevel      float64 `json:"gravityPerLevel"`
	MainThrust           float64 `json:"mainThrust"`
	SideThrust           float64 `json:"sideThrust"`
	DryMass              float64 `json:"dryMass"`
	MassAware            bool    `json:"massAware"`
	BaseFuel             float64 `json:"baseFuel"`
	FuelPerLevel         float64 `json:"fuelPerLevel"`
	MinFuel              float64 `json:"minFuel"`
	MaxLandingVertical   float64 `json:"maxLandingVerticalSpeed"`
	MaxLandingHorizontal float64 `json:"maxLandingHorizontalSpeed"`
	TerrainSegments      int     `json:"terrainSegments"`
	TimeStep             float64 `json:"timeStep"`
}

// DefaultParams returns the canonical gameplay parameters.
func DefaultParams() Params {
	return Params{
		MaxAltitude:          MaxAltitude,
		MaxHorizontalRange:   100.0,
		BaseGravity:          1.62,
		GravityPerLevel:      0.1,
		MainThrust:           3.0,
		SideThrust:           1.0,
		DryMass:              100.0,
		MassAware:            true,
		BaseFuel:             100.0,
		FuelPerLevel:         10.0,
		MinFuel:              20.0,
		MaxLandingVertical:   2.0,
		MaxLandingHorizontal: 2.0,
		TerrainSegments:      10,
		TimeStep:             DefaultTimeStep,
	}
}

// StartFuel returns the starting fuel for a level (levels are 1-based).
func (p Params) StartFuel(level int) float64 {
	if level < 1 {
		level = 1
	}
	fuel := p.BaseFuel - p.FuelPerLevel*float64(level-1)
	if fuel < p.MinFuel {
		return p.MinFuel
	}
	return fuel
}

// Gravity returns the gravity for a level (levels are 1-based).
func (p Params) Gravity(level int) float64 {
	if level < 1 {
		level = 1
	}
	return p.BaseGravity + p.GravityPerLevel*float64(level-1)
}
