package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to a validator server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL (e.g. "http://localhost:8080").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// FetchConfig retrieves the signed gameplay parameters.
func (c *Client) FetchConfig(ctx context.Context) (ConfigResponse, error) {
	var cfg ConfigResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/config", nil)
	if err != nil {
		return cfg, fmt.Errorf("verify: build config request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return cfg, fmt.Errorf("verify: fetch config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cfg, fmt.Errorf("verify: fetch config: unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("verify: decode config: %w", err)
	}
	if cfg.Token == "" {
		return cfg, fmt.Errorf("verify: config response has no token")
	}
	return cfg, nil
}

// Submit sends a result for validation. A rejected result is returned as a
// *Rejection error carrying the server's reason; transport failures are
// returned as other errors.
func (c *Client) Submit(ctx context.Context, token string, result Result) error {
	body, err := json.Marshal(Submission{Result: &result, Token: token})
	if err != nil {
		return fmt.Errorf("verify: encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("verify: build validate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("verify: submit result: %w", err)
	}
	defer resp.Body.Close()

	var out ValidateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("verify: decode validate response (%s): %w", resp.Status, err)
	}
	if out.OK {
		return nil
	}
	return lookupRejection(out.Reason)
}

// lookupRejection maps a server reason back to its sentinel so callers can use errors.Is.
func lookupRejection(reason string) *Rejection {
	for _, r := range []*Rejection{
		ErrInvalidToken, ErrMissingResult, ErrInvalidAltitude,
		ErrInvalidVerticalVelocity, ErrInvalidRequest, ErrRateLimited,
	} {
		if r.Reason == reason {
			return r
		}
	}
	return &Rejection{Reason: reason}
}
