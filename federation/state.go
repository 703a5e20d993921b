package federation

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StateManager handles OAuth state encoding and verification.
type StateManager interface {
	Encode(state *State) (string, error)
	Decode(token string) (*State, error)
}

// State contains the data carried by the OAuth state parameter. It is
// signed, not encrypted; nothing in here is secret, it only needs to
// survive the round trip through the provider untampered.
type State struct {
	Nonce       string `json:"n"`
	Provider    string `json:"p"`
	RedirectURL string `json:"r,omitempty"`
	IssuedAt    int64  `json:"iat"`
	ExpiresAt   int64  `json:"exp"`
}

// SignedStateManager signs state payloads with HMAC-SHA256.
type SignedStateManager struct {
	hmacKey []byte
	ttl     time.Duration
}

// NewSignedStateManager creates a new signed state manager.
func NewSignedStateManager(hmacKey []byte, ttl time.Duration) *SignedStateManager {
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &SignedStateManager{
		hmacKey: hmacKey,
		ttl:     ttl,
	}
}

// Encode signs the state and returns payload.signature, both
// URL-safe base64.
func (sm *SignedStateManager) Encode(state *State) (string, error) {
	if state == nil {
		return "", ErrInvalidState
	}

	if state.IssuedAt == 0 {
		state.IssuedAt = time.Now().Unix()
	}
	if state.ExpiresAt == 0 {
		state.ExpiresAt = time.Now().Add(sm.ttl).Unix()
	}

	if state.Nonce == "" {
		state.Nonce = generateNonce()
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state: %w", err)
	}

	mac := hmac.New(sha256.New, sm.hmacKey)
	mac.Write(payload)
	signature := mac.Sum(nil)

	return base64.RawURLEncoding.EncodeToString(payload) +
		"." +
		base64.RawURLEncoding.EncodeToString(signature), nil
}

// Decode verifies the signature and expiry, returning the state.
func (sm *SignedStateManager) Decode(token string) (*State, error) {
	payloadPart, signaturePart, found := strings.Cut(token, ".")
	if !found {
		return nil, ErrInvalidState
	}

	payload, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return nil, ErrInvalidState
	}

	signature, err := base64.RawURLEncoding.DecodeString(signaturePart)
	if err != nil {
		return nil, ErrInvalidState
	}

	mac := hmac.New(sha256.New, sm.hmacKey)
	mac.Write(payload)
	expectedMAC := mac.Sum(nil)

	if !hmac.Equal(signature, expectedMAC) {
		return nil, ErrInvalidState
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, ErrInvalidState
	}

	if time.Now().Unix() > state.ExpiresAt {
		return nil, ErrStateExpired
	}

	return &state, nil
}

func generateNonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
