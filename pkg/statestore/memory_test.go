package statestore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/publishkit/pkg/statestore"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set and get round-trip", func(t *testing.T) {
		t.Parallel()

		s := statestore.NewMemoryStore()
		require.NoError(t, s.Set(ctx, "k", "v", 0))

		v, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	})

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		t.Parallel()

		s := statestore.NewMemoryStore()
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, statestore.ErrNotFound)
	})

	t.Run("expired entry is treated as absent", func(t *testing.T) {
		t.Parallel()

		s := statestore.NewMemoryStore()
		require.NoError(t, s.Set(ctx, "k", "v", time.Nanosecond))
		time.Sleep(5 * time.Millisecond)

		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, statestore.ErrNotFound)
	})

	t.Run("consume is one-time", func(t *testing.T) {
		t.Parallel()

		s := statestore.NewMemoryStore()
		require.NoError(t, s.Set(ctx, "k", "v", 0))

		v, err := s.Consume(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)

		_, err = s.Consume(ctx, "k")
		assert.ErrorIs(t, err, statestore.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		t.Parallel()

		s := statestore.NewMemoryStore()
		require.NoError(t, s.Delete(ctx, "never-existed"))
	})

	t.Run("keys filters by prefix", func(t *testing.T) {
		t.Parallel()

		s := statestore.NewMemoryStore()
		require.NoError(t, s.Set(ctx, "social_account_twitter", "a", 0))
		require.NoError(t, s.Set(ctx, "social_account_facebook", "b", 0))
		require.NoError(t, s.Set(ctx, "twitter_token", "c", 0))

		keys, err := s.Keys(ctx, "social_account_")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"social_account_twitter", "social_account_facebook"}, keys)
	})
}

func TestGenerateState(t *testing.T) {
	t.Parallel()

	s1, err := statestore.GenerateState()
	require.NoError(t, err)
	s2, err := statestore.GenerateState()
	require.NoError(t, err)

	assert.Len(t, s1, 64) // 32 bytes hex-encoded
	assert.NotEqual(t, s1, s2)
	assert.Regexp(t, "^[0-9a-f]+$", s1)
}
