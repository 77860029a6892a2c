package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lander/internal/platform/tui"
	"github.com/vovakirdan/tui-lander/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Fly a mode",
	Long: `Start flying the given mode (default: lander).

Controls:
  Up/W/Space  - Main engine
  Left/A      - Push left
  Right/D     - Push right
  P           - Pause
  R           - Next attempt (after touchdown)
  ?           - More keys
  Q/Ctrl+C    - Quit

Terminals report key presses only, so each press keeps a thruster firing for a
few ticks; hold the key to keep it burning.

Difficulty options:
  easy   - More fuel, gentler gravity growth, softer landing limit
  normal - Config values as written
  hard   - Less fuel, steeper gravity growth, stricter landing limit
  fixed  - Every level plays like level 1

Examples:
  lander play
  lander play lander_classic
  lander play --difficulty hard --seed 42
  lander play --config ./my-lander.yaml
  lander play --server http://localhost:8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := "lander"
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown mode %q; run 'lander list' to see available modes", gameID)
	}

	applyGameFlags()

	logger, closeLog, err := newLogger(io.Discard, "lander")
	if err != nil {
		return err
	}
	defer closeLog()

	remote, err := connectRemote(logger)
	if err != nil {
		return err
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("cannot create game: %w", err)
	}

	store := tui.OpenSessionStore(logger)
	if store != nil {
		defer store.Close()
	}

	return tui.Run(game, runtimeConfig(), tui.Options{
		Store:  store,
		Pilot:  localPilot(),
		Logger: logger,
		Remote: remote,
	})
}
