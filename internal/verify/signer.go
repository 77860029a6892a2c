// Package verify signs gameplay parameters and validates submitted landing
// results at the network boundary.
package verify

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-lander/internal/games/lander/sim"
)

// SecretSize is the length of generated secrets in bytes.
const SecretSize = 32

// Signer issues HMAC-SHA256 tokens over the canonical parameter encoding.
type Signer struct {
	secret []byte
}

// NewSigner creates a signer. The secret must not be empty.
func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("verify: empty secret")
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Signer{secret: key}, nil
}

// Canonical returns the bytes that get signed: the JSON encoding of p with
// keys in sim.Params field order.
func Canonical(p sim.Params) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("verify: encode params: %w", err)
	}
	return data, nil
}

// Sign returns the hex-encoded HMAC-SHA256 of the canonical parameters.
func (s *Signer) Sign(p sim.Params) (string, error) {
	data, err := Canonical(p)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify reports whether token is the signature of p. Comparison is constant-time.
func (s *Signer) Verify(p sim.Params, token string) bool {
	expected, err := s.Sign(p)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(token))
}

// GenerateSecret returns SecretSize random bytes.
func GenerateSecret() ([]byte, error) {
	secret := make([]byte, SecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("verify: generate secret: %w", err)
	}
	return secret, nil
}
