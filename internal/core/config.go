package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 10)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 10,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TimeStep returns the simulated seconds advanced by one tick.
func (c RuntimeConfig) TimeStep() float64 {
	if c.TickRate <= 0 {
		return 0.1
	}
	return 1.0 / float64(c.TickRate)
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Successful landings so far
	Level    int  // Level of the current attempt
	GameOver bool // Whether the current attempt has ended
	Crashed  bool // Whether the attempt ended in a crash
	Paused   bool // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState

	// Ended is set on the tick an attempt finishes.
	Ended bool
}
