package verify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

// ServerConfig contains configuration for the validator HTTP server.
type ServerConfig struct {
	Host    string
	Port    int
	Options HandlerOptions
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:    "0.0.0.0",
		Port:    8080,
		Options: DefaultHandlerOptions(),
	}
}

// Server serves the validator routes.
type Server struct {
	http   *http.Server
	logger *log.Logger
}

// NewServer creates a validator server.
func NewServer(cfg ServerConfig, v *Validator) (*Server, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "lander-api",
	})
	if cfg.Options.Logger == nil {
		cfg.Options.Logger = logger
	} else {
		logger = cfg.Options.Logger
	}

	router, err := NewRouter(v, cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("verify: build router: %w", err)
	}

	return &Server{
		http: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}, nil
}

// Start starts the server and blocks until shutdown.
func (s *Server) Start() error {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	s.logger.Info("Starting validator server", "addr", s.http.Addr)

	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			done <- nil
		}
	}()

	<-done
	s.logger.Info("Stopping validator server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("verify: shutdown: %w", err)
	}

	return nil
}
