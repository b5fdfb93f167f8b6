// Package statestore provides the short-lived key-value storage backing the
// OAuth connect flow: CSRF state tokens, PKCE verifiers, cached access tokens
// and the degraded-mode account mirror.
//
// Two implementations are provided: MemoryStore for tests and the in-process
// local mirror, and RedisStore for production deployments where callbacks may
// land on a different instance than the one that started the flow.
package statestore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound = errors.New("statestore: key not found")
)

// Store is a minimal key-value contract shared by all backends.
type Store interface {
	// Set stores a value. A zero ttl means the entry does not expire.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Consume atomically reads and deletes the value for key. Returns
	// ErrNotFound if the key is absent or was already consumed. Must be atomic
	// so concurrent callbacks cannot both validate the same one-time token.
	Consume(ctx context.Context, key string) (string, error)

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists all keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// GenerateState produces a cryptographically random CSRF state token:
// 32 bytes of entropy, hex-encoded. It is not a secret credential, only an
// unpredictability guarantee for the callback round-trip.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
