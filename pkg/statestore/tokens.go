package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

// TokenCache stores one access token per platform on top of a Store.
//
// Expired tokens are treated as absent by every reader and eagerly purged, so
// downstream code never observes a stale credential. Malformed entries are
// cleared rather than surfaced as errors.
type TokenCache struct {
	store Store
	now   func() time.Time
}

// TokenCacheOption configures a TokenCache.
type TokenCacheOption func(*TokenCache)

// WithClock overrides the time source, used by tests to simulate expiry.
func WithClock(now func() time.Time) TokenCacheOption {
	return func(c *TokenCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenCache creates a TokenCache backed by the given store.
func NewTokenCache(store Store, opts ...TokenCacheOption) *TokenCache {
	c := &TokenCache{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save serializes the token with a SavedAt stamp under the platform key.
func (c *TokenCache) Save(ctx context.Context, platform social.Platform, token social.AccessToken) error {
	token.SavedAt = c.now()

	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to serialize token: %w", err)
	}
	if err := c.store.Set(ctx, TokenKey(platform), string(raw), 0); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Get returns the cached token or nil when none is usable. An entry past its
// expiry or one that fails to parse is deleted as a side effect.
func (c *TokenCache) Get(ctx context.Context, platform social.Platform) (*social.AccessToken, error) {
	raw, err := c.store.Get(ctx, TokenKey(platform))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var token social.AccessToken
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		_ = c.store.Delete(ctx, TokenKey(platform))
		return nil, nil
	}
	if token.Expired(c.now()) {
		_ = c.store.Delete(ctx, TokenKey(platform))
		return nil, nil
	}
	return &token, nil
}

// Remove deletes the token and any leftover CSRF state for the platform.
func (c *TokenCache) Remove(ctx context.Context, platform social.Platform) error {
	if err := c.store.Delete(ctx, TokenKey(platform)); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	if err := c.store.Delete(ctx, StateKey(platform)); err != nil {
		return fmt.Errorf("failed to remove state: %w", err)
	}
	return nil
}
