package config

import (
	_ "embed"
)

//go:embed defaults/lander.yaml
var defaultLanderYAML []byte

// DefaultLanderConfig returns the default lander configuration.
func DefaultLanderConfig() LanderConfig {
	return LanderConfig{
		Physics: LanderPhysics{
			BaseGravity:        1.62,
			GravityPerLevel:    0.1,
			MainThrust:         3.0,
			SideThrust:         1.0,
			DryMass:            100,
			MassAware:          true,
			MaxHorizontalRange: 100,
		},
		Fuel: LanderFuel{
			Base:     100,
			PerLevel: 10,
			Min:      20,
		},
		Landing: LanderLanding{
			MaxVerticalSpeed:   2.0,
			MaxHorizontalSpeed: 2.0,
		},
		Terrain: LanderTerrain{
			Segments: 10,
		},
		Controls: LanderControls{
			HoldTicks: 3,
		},
	}
}
