// lander is a lunar lander for the terminal, playable locally or over SSH,
// with an optional HTTP validator for reported landings.
//
// Usage:
//
//	lander                   - Start the menu to pick a mode
//	lander list              - List flight modes
//	lander play <mode>       - Fly a mode directly
//	lander serve             - Start SSH server for remote play
//	lander api               - Start the result validator
//
// Global flags:
//
//	--fps <rate>         - Simulation tick rate (default: 10)
//	--seed <value>       - RNG seed for reproducible terrain
//	--config <path>      - Custom lander config YAML
//	--difficulty <name>  - easy, normal, hard or fixed
//	--server <url>       - Fly server-issued params and submit each touchdown
//	--log-file <path>    - Write logs to a file
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/games/lander"
	"github.com/vovakirdan/tui-lander/internal/platform/tui"
	"github.com/vovakirdan/tui-lander/internal/verify"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagConfig     string
	flagDifficulty string
	flagServer     string
	flagLogFile    string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lander",
	Short: "Lunar Lander - land on the pad before the fuel runs out",
	Long: `Lunar Lander is a terminal game: fight gravity with the main engine and
side thrusters, and touch down gently on the flat landing pad.

Each landing advances the level: gravity grows and starting fuel shrinks.

Available commands:
  list     - Show flight modes
  play     - Fly a specific mode directly
  serve    - Start SSH server for remote play
  api      - Start the HTTP result validator

Examples:
  lander
  lander play lander_classic --difficulty easy
  lander serve --ssh :2222
  lander api --port 8080
  lander --server http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Simulation tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom lander config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Validator URL; fly its params and submit each touchdown")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (TUI logs are discarded otherwise)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}

// applyGameFlags hands --config and --difficulty to the lander package.
func applyGameFlags() {
	lander.SetConfigPath(flagConfig)
	lander.SetDifficultyPreset(flagDifficulty)
}

// newLogger builds a logger writing to --log-file, or to fallback when unset.
// The returned closer releases the file.
func newLogger(fallback io.Writer, prefix string) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	out := fallback
	closer := func() {}
	if flagLogFile != "" {
		f, openErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if openErr != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", openErr)
		}
		out = f
		closer = func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closer, nil
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// connectRemote fetches signed params from --server, or returns nil when unset.
func connectRemote(logger *log.Logger) (*tui.Remote, error) {
	if flagServer == "" {
		return nil, nil
	}

	client := verify.NewClient(flagServer)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, err := client.FetchConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot reach validator at %s: %w", flagServer, err)
	}
	logger.Info("flying server-issued params", "server", flagServer)
	return &tui.Remote{Client: client, Config: cfg}, nil
}

// localPilot names the local player after the OS user.
func localPilot() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "pilot"
}

func runMenu(_ *cobra.Command, _ []string) error {
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

	store := tui.OpenSessionStore(logger)
	if store != nil {
		defer store.Close()
	}

	return tui.RunSession(runtimeConfig(), tui.Options{
		Store:  store,
		Pilot:  localPilot(),
		Logger: logger,
		Remote: remote,
	})
}
