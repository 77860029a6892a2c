package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/verify"
)

// secretEnv names the environment variable holding the signing secret.
const secretEnv = "LANDER_SECRET"

var (
	flagAPIHost string
	flagAPIPort int
	flagSecret  string
	flagRate    float64
	flagBurst   int
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP result validator",
	Long: `Start an HTTP server that issues signed gameplay parameters and
validates reported landing results.

Routes:
  GET  /health    - Liveness check
  GET  /config    - Gameplay params plus their HMAC-SHA256 token
  POST /validate  - {"result": {"altitude", "verticalVelocity"}, "token"}

The params come from the lander config (--config, --difficulty). The signing
secret is read from --secret or $LANDER_SECRET; without either a random secret
is generated and tokens stop validating when the server restarts.

Examples:
  lander api
  lander api --port 9090 --rate 2 --burst 5
  LANDER_SECRET=s3cret lander api --difficulty hard`,
	Args: cobra.NoArgs,
	RunE: runAPI,
}

func init() {
	def := verify.DefaultServerConfig()
	apiCmd.Flags().StringVar(&flagAPIHost, "host", def.Host, "Listen host")
	apiCmd.Flags().IntVar(&flagAPIPort, "port", def.Port, "Listen port")
	apiCmd.Flags().StringVar(&flagSecret, "secret", "", "HMAC signing secret (default: $"+secretEnv+")")
	apiCmd.Flags().Float64Var(&flagRate, "rate", def.Options.RatePerSecond, "Requests per second allowed per client IP")
	apiCmd.Flags().IntVar(&flagBurst, "burst", def.Options.Burst, "Request burst allowed per client IP")
}

func runAPI(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(os.Stderr, "lander-api")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := config.LoadLander(flagConfig)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}
	config.ApplyLanderPreset(&cfg, preset)

	runtime := core.DefaultConfig()
	runtime.TickRate = flagFPS
	params := cfg.Params(runtime.TimeStep())

	secret := []byte(flagSecret)
	if len(secret) == 0 {
		secret = []byte(os.Getenv(secretEnv))
	}
	if len(secret) == 0 {
		secret, err = verify.GenerateSecret()
		if err != nil {
			return err
		}
		logger.Warn("no secret configured; generated an ephemeral one",
			"env", secretEnv, "fingerprint", hex.EncodeToString(secret[:4]))
	}

	signer, err := verify.NewSigner(secret)
	if err != nil {
		return err
	}

	srvCfg := verify.DefaultServerConfig()
	srvCfg.Host = flagAPIHost
	srvCfg.Port = flagAPIPort
	srvCfg.Options.RatePerSecond = flagRate
	srvCfg.Options.Burst = flagBurst
	srvCfg.Options.Logger = logger

	server, err := verify.NewServer(srvCfg, verify.NewValidator(signer, params))
	if err != nil {
		return err
	}
	return server.Start()
}
