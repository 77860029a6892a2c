package verify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lander/internal/games/lander/sim"
)

// startTestServer spins up an httptest.Server with the validator routes.
func startTestServer(t *testing.T, opts HandlerOptions) (*httptest.Server, *Validator) {
	t.Helper()
	v := newTestValidator(t)
	opts.Logger = log.New(io.Discard)

	router, err := NewRouter(v, opts)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, v
}

func postValidate(t *testing.T, url, body string) (int, ValidateResponse) {
	t.Helper()
	resp, err := http.Post(url+"/validate", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /validate: %v", err)
	}
	defer resp.Body.Close()

	var out ValidateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

func TestGetConfig(t *testing.T) {
	srv, v := startTestServer(t, HandlerOptions{})

	resp, err := http.Get(srv.URL + "/config")
	if err != nil {
		t.Fatalf("GET /config: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, expected 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var cfg ConfigResponse
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Params != sim.DefaultParams() {
		t.Errorf("params = %+v, expected defaults", cfg.Params)
	}
	if cfg.Token != validToken(t, v) {
		t.Error("token should be the signature of the issued params")
	}
}

func TestPostValidate(t *testing.T) {
	srv, v := startTestServer(t, HandlerOptions{})
	token := validToken(t, v)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantOK     bool
		wantReason string
	}{
		{
			name:       "accepted",
			body:       `{"result":{"altitude":20,"verticalVelocity":1.5},"token":"` + token + `"}`,
			wantStatus: http.StatusOK,
			wantOK:     true,
		},
		{
			name:       "invalid token",
			body:       `{"result":{"altitude":20,"verticalVelocity":1.5},"token":"nope"}`,
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid token",
		},
		{
			name:       "invalid altitude",
			body:       `{"result":{"altitude":-1,"verticalVelocity":1.5},"token":"` + token + `"}`,
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid altitude",
		},
		{
			name:       "altitude as string",
			body:       `{"result":{"altitude":"20","verticalVelocity":1.5},"token":"` + token + `"}`,
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid altitude",
		},
		{
			name:       "velocity as string",
			body:       `{"result":{"altitude":20,"verticalVelocity":"fast"},"token":"` + token + `"}`,
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid vertical velocity",
		},
		{
			name:       "bad token with string altitude",
			body:       `{"result":{"altitude":"20","verticalVelocity":1.5},"token":"nope"}`,
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid token",
		},
		{
			name:       "bad token with result not an object",
			body:       `{"result":"garbage","token":"nope"}`,
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid token",
		},
		{
			name:       "token as number",
			body:       `{"result":{"altitude":20,"verticalVelocity":1.5},"token":42}`,
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid token",
		},
		{
			name:       "result not an object",
			body:       `{"result":[1,2],"token":"` + token + `"}`,
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid altitude",
		},
		{
			name:       "body not an object",
			body:       `[1,2,3]`,
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid request",
		},
		{
			name:       "missing result",
			body:       `{"token":"` + token + `"}`,
			wantStatus: http.StatusBadRequest,
			wantReason: "missing result",
		},
		{
			name:       "malformed json",
			body:       `{"result":`,
			wantStatus: http.StatusBadRequest,
			wantReason: "invalid request",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, out := postValidate(t, srv.URL, tc.body)
			if status != tc.wantStatus {
				t.Errorf("status = %d, expected %d", status, tc.wantStatus)
			}
			if out.OK != tc.wantOK {
				t.Errorf("ok = %v, expected %v", out.OK, tc.wantOK)
			}
			if out.Reason != tc.wantReason {
				t.Errorf("reason = %q, expected %q", out.Reason, tc.wantReason)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	srv, _ := startTestServer(t, HandlerOptions{})

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, expected 200", resp.StatusCode)
	}
}

func TestRateLimit(t *testing.T) {
	srv, _ := startTestServer(t, HandlerOptions{RatePerSecond: 0.001, Burst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/health")
		if err != nil {
			t.Fatalf("GET /health: %v", err)
		}
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, expected 429", codes[2])
	}
}

func TestClientRoundTrip(t *testing.T) {
	srv, _ := startTestServer(t, HandlerOptions{})
	client := NewClient(srv.URL + "/")
	ctx := context.Background()

	cfg, err := client.FetchConfig(ctx)
	if err != nil {
		t.Fatalf("FetchConfig: %v", err)
	}
	if cfg.Params != sim.DefaultParams() {
		t.Errorf("params = %+v", cfg.Params)
	}

	if err := client.Submit(ctx, cfg.Token, NewResult(20, 1.5)); err != nil {
		t.Errorf("Submit valid result: %v", err)
	}

	err = client.Submit(ctx, cfg.Token, NewResult(-1, 1.5))
	if !errors.Is(err, ErrInvalidAltitude) {
		t.Errorf("Submit negative altitude = %v, expected invalid altitude", err)
	}

	err = client.Submit(ctx, "forged", NewResult(20, 1.5))
	var rej *Rejection
	if !errors.As(err, &rej) || rej.Reason != "invalid token" {
		t.Errorf("Submit forged token = %v, expected invalid token rejection", err)
	}
}

func TestClientUnreachable(t *testing.T) {
	srv, _ := startTestServer(t, HandlerOptions{})
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).FetchConfig(context.Background())
	if err == nil {
		t.Fatal("expected an error for a closed server")
	}
	var rej *Rejection
	if errors.As(err, &rej) {
		t.Error("transport failures should not look like rejections")
	}
}
