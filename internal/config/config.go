// Package config provides YAML-based lander configuration loading and
// difficulty presets.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-lander/internal/games/lander/sim"
)

// LanderConfig contains all configuration for the lander game.
type LanderConfig struct {
	Physics  LanderPhysics  `yaml:"physics"`
	Fuel     LanderFuel     `yaml:"fuel"`
	Landing  LanderLanding  `yaml:"landing"`
	Terrain  LanderTerrain  `yaml:"terrain"`
	Controls LanderControls `yaml:"controls"`
}

// LanderPhysics defines gravity, thrust and mass parameters.
type LanderPhysics struct {
	BaseGravity        float64 `yaml:"base_gravity"`
	GravityPerLevel    float64 `yaml:"gravity_per_level"`
	MainThrust         float64 `yaml:"main_thrust"`
	SideThrust         float64 `yaml:"side_thrust"`
	DryMass            float64 `yaml:"dry_mass"`
	MassAware          bool    `yaml:"mass_aware"`
	MaxHorizontalRange float64 `yaml:"max_horizontal_range"`
}

// LanderFuel defines the per-level fuel budget.
type LanderFuel struct {
	Base     float64 `yaml:"base"`
	PerLevel float64 `yaml:"per_level"` // subtracted for each level past the first
	Min      float64 `yaml:"min"`
}

// LanderLanding defines touchdown thresholds (inclusive).
type LanderLanding struct {
	MaxVerticalSpeed   float64 `yaml:"max_vertical_speed"`
	MaxHorizontalSpeed float64 `yaml:"max_horizontal_speed"`
}

// LanderTerrain defines terrain generation parameters.
type LanderTerrain struct {
	Segments int `yaml:"segments"`
}

// LanderControls defines input handling parameters.
type LanderControls struct {
	HoldTicks int `yaml:"hold_ticks"` // ticks a key press keeps a thruster on
}

// Validate reports the first invalid setting.
func (c LanderConfig) Validate() error {
	var errs []error
	if c.Physics.MaxHorizontalRange <= 0 {
		errs = append(errs, fmt.Errorf("physics.max_horizontal_range must be positive, got %v", c.Physics.MaxHorizontalRange))
	}
	if c.Physics.DryMass <= 0 {
		errs = append(errs, fmt.Errorf("physics.dry_mass must be positive, got %v", c.Physics.DryMass))
	}
	if c.Physics.MainThrust < 0 || c.Physics.SideThrust < 0 {
		errs = append(errs, errors.New("physics thrust must not be negative"))
	}
	if c.Fuel.Base < 0 || c.Fuel.Min < 0 || c.Fuel.PerLevel < 0 {
		errs = append(errs, errors.New("fuel values must not be negative"))
	}
	if c.Landing.MaxVerticalSpeed <= 0 || c.Landing.MaxHorizontalSpeed <= 0 {
		errs = append(errs, errors.New("landing speed limits must be positive"))
	}
	if c.Terrain.Segments < sim.MinSegments {
		errs = append(errs, fmt.Errorf("terrain.segments must be at least %d, got %d", sim.MinSegments, c.Terrain.Segments))
	}
	if c.Controls.HoldTicks < 1 {
		errs = append(errs, fmt.Errorf("controls.hold_ticks must be at least 1, got %d", c.Controls.HoldTicks))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Params converts the configuration into simulation parameters.
// timeStep is the fixed integration step of the tick source.
func (c LanderConfig) Params(timeStep float64) sim.Params {
	if timeStep <= 0 {
		timeStep = sim.DefaultTimeStep
	}
	return sim.Params{
		MaxAltitude:          sim.MaxAltitude,
		MaxHorizontalRange:   c.Physics.MaxHorizontalRange,
		BaseGravity:          c.Physics.BaseGravity,
		GravityPerLevel:      c.Physics.GravityPerLevel,
		MainThrust:           c.Physics.MainThrust,
		SideThrust:           c.Physics.SideThrust,
		DryMass:              c.Physics.DryMass,
		MassAware:            c.Physics.MassAware,
		BaseFuel:             c.Fuel.Base,
		FuelPerLevel:         c.Fuel.PerLevel,
		MinFuel:              c.Fuel.Min,
		MaxLandingVertical:   c.Landing.MaxVerticalSpeed,
		MaxLandingHorizontal: c.Landing.MaxHorizontalSpeed,
		TerrainSegments:      c.Terrain.Segments,
		TimeStep:             timeStep,
	}
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficulty validates a preset name. An empty name means normal.
func ParseDifficulty(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// IsFixedPreset returns true if the preset disables level scaling.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
