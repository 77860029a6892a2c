package tui

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lander/internal/storage"
)

func TestSSHServerShutdownClosesStore(t *testing.T) {
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "host_key")
	cfg.Logger = log.New(io.Discard)

	srv, err := NewSSHServer(cfg)
	if err != nil {
		t.Fatalf("NewSSHServer: %v", err)
	}
	if srv.store == nil {
		t.Fatal("server should share a session store")
	}

	attempt := storage.Attempt{GameID: "lander", Pilot: "neil", Level: 1, Outcome: storage.OutcomeSuccess}
	if _, err := srv.store.RecordAttempt(attempt); err != nil {
		t.Fatalf("store should accept attempts while serving: %v", err)
	}

	if err := srv.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if _, err := srv.store.RecordAttempt(attempt); err == nil {
		t.Error("store should be closed once the server has shut down")
	}
}
