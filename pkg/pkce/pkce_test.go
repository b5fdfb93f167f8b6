package pkce_test

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/publishkit/pkg/pkce"
)

func TestGenerateVerifier(t *testing.T) {
	t.Parallel()

	t.Run("meets RFC 7636 length requirements", func(t *testing.T) {
		t.Parallel()

		v, err := pkce.GenerateVerifier()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(v), 43)
		assert.LessOrEqual(t, len(v), 128)
	})

	t.Run("is url-safe without padding", func(t *testing.T) {
		t.Parallel()

		v, err := pkce.GenerateVerifier()
		require.NoError(t, err)
		assert.False(t, strings.ContainsAny(v, "+/="))

		_, err = base64.RawURLEncoding.DecodeString(v)
		require.NoError(t, err)
	})

	t.Run("generates unique verifiers", func(t *testing.T) {
		t.Parallel()

		v1, err := pkce.GenerateVerifier()
		require.NoError(t, err)
		v2, err := pkce.GenerateVerifier()
		require.NoError(t, err)
		assert.NotEqual(t, v1, v2)
	})
}

func TestChallengeS256(t *testing.T) {
	t.Parallel()

	t.Run("deterministic for the same verifier", func(t *testing.T) {
		t.Parallel()

		v, err := pkce.GenerateVerifier()
		require.NoError(t, err)
		assert.Equal(t, pkce.ChallengeS256(v), pkce.ChallengeS256(v))
	})

	t.Run("matches manual derivation", func(t *testing.T) {
		t.Parallel()

		const verifier = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
		sum := sha256.Sum256([]byte(verifier))
		want := base64.RawURLEncoding.EncodeToString(sum[:])
		assert.Equal(t, want, pkce.ChallengeS256(verifier))
	})

	t.Run("different verifiers produce different challenges", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, pkce.ChallengeS256("verifier-a"), pkce.ChallengeS256("verifier-b"))
	})
}
