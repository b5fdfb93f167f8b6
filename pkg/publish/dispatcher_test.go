package publish

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/publishkit/pkg/social"
	"github.com/dmitrymomot/publishkit/pkg/statestore"
)

// fakeTokenSource returns canned tokens per platform.
type fakeTokenSource map[social.Platform]*social.AccessToken

func (f fakeTokenSource) Token(_ context.Context, p social.Platform) (*social.AccessToken, error) {
	return f[p], nil
}

// fakePublisher records calls and returns a canned result.
type fakePublisher struct {
	platform social.Platform
	result   social.PublishResult
	calls    int
	delay    time.Duration
}

func (f *fakePublisher) Platform() social.Platform { return f.platform }

func (f *fakePublisher) Publish(_ context.Context, _ string, _ social.Post) social.PublishResult {
	f.calls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.result
}

func token() *social.AccessToken {
	return &social.AccessToken{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}
}

func TestDispatcherPublish(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing token yields not connected without aborting the batch", func(t *testing.T) {
		t.Parallel()

		fb := &fakePublisher{
			platform: social.PlatformFacebook,
			result:   social.PublishResult{Platform: social.PlatformFacebook, Success: true, PostID: "1"},
		}
		tw := &fakePublisher{platform: social.PlatformTwitter}

		d := NewDispatcher(
			fakeTokenSource{social.PlatformFacebook: token()},
			[]Publisher{fb, tw},
		)

		results := d.Publish(ctx, social.Post{
			Content:   "hello",
			Platforms: []social.Platform{social.PlatformFacebook, social.PlatformTwitter},
		})

		require.Len(t, results, 2)
		assert.Equal(t, social.PlatformFacebook, results[0].Platform)
		assert.True(t, results[0].Success)
		assert.Equal(t, social.PlatformTwitter, results[1].Platform)
		assert.False(t, results[1].Success)
		assert.Contains(t, results[1].Error, "not connected")
		assert.Equal(t, 0, tw.calls)
	})

	t.Run("result order matches input order regardless of completion order", func(t *testing.T) {
		t.Parallel()

		slow := &fakePublisher{
			platform: social.PlatformFacebook,
			result:   social.PublishResult{Platform: social.PlatformFacebook, Success: true, PostID: "slow"},
			delay:    50 * time.Millisecond,
		}
		fast := &fakePublisher{
			platform: social.PlatformLinkedIn,
			result:   social.PublishResult{Platform: social.PlatformLinkedIn, Success: true, PostID: "fast"},
		}

		d := NewDispatcher(
			fakeTokenSource{social.PlatformFacebook: token(), social.PlatformLinkedIn: token()},
			[]Publisher{slow, fast},
		)

		results := d.Publish(ctx, social.Post{
			Content:   "ordering",
			Platforms: []social.Platform{social.PlatformFacebook, social.PlatformLinkedIn},
		})

		require.Len(t, results, 2)
		assert.Equal(t, "slow", results[0].PostID)
		assert.Equal(t, "fast", results[1].PostID)
	})

	t.Run("unsupported platform produces a failure result", func(t *testing.T) {
		t.Parallel()

		d := NewDispatcher(fakeTokenSource{}, nil)
		results := d.Publish(ctx, social.Post{Platforms: []social.Platform{"myspace"}})

		require.Len(t, results, 1)
		assert.False(t, results[0].Success)
		assert.NotEmpty(t, results[0].Error)
	})

	t.Run("panicking publisher becomes a failure result", func(t *testing.T) {
		t.Parallel()

		d := NewDispatcher(
			fakeTokenSource{social.PlatformTwitter: token()},
			[]Publisher{panickyPublisher{}},
		)
		results := d.Publish(ctx, social.Post{Platforms: []social.Platform{social.PlatformTwitter}})

		require.Len(t, results, 1)
		assert.False(t, results[0].Success)
		assert.Contains(t, results[0].Error, "panic")
	})

	t.Run("duplicate platforms are not deduplicated", func(t *testing.T) {
		t.Parallel()

		fb := &fakePublisher{
			platform: social.PlatformFacebook,
			result:   social.PublishResult{Platform: social.PlatformFacebook, Success: true},
		}
		d := NewDispatcher(fakeTokenSource{social.PlatformFacebook: token()}, []Publisher{fb},
			WithSequential())

		results := d.Publish(ctx, social.Post{
			Platforms: []social.Platform{social.PlatformFacebook, social.PlatformFacebook},
		})
		require.Len(t, results, 2)
		assert.Equal(t, 2, fb.calls)
	})

	t.Run("token source errors surface as failure results", func(t *testing.T) {
		t.Parallel()

		d := NewDispatcher(erroringTokenSource{}, []Publisher{&fakePublisher{platform: social.PlatformTwitter}})
		results := d.Publish(ctx, social.Post{Platforms: []social.Platform{social.PlatformTwitter}})

		require.Len(t, results, 1)
		assert.False(t, results[0].Success)
		assert.Contains(t, results[0].Error, "token lookup failed")
	})
}

type panickyPublisher struct{}

func (panickyPublisher) Platform() social.Platform { return social.PlatformTwitter }
func (panickyPublisher) Publish(context.Context, string, social.Post) social.PublishResult {
	panic("boom")
}

type erroringTokenSource struct{}

func (erroringTokenSource) Token(context.Context, social.Platform) (*social.AccessToken, error) {
	return nil, errors.New("backend down")
}

func TestCacheTokenSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := statestore.NewTokenCache(statestore.NewMemoryStore())
	require.NoError(t, cache.Save(ctx, social.PlatformTwitter, social.AccessToken{
		AccessToken: "cached",
		ExpiresAt:   time.Now().Add(time.Hour),
	}))

	src := CacheTokenSource{Cache: cache}

	tok, err := src.Token(ctx, social.PlatformTwitter)
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "cached", tok.AccessToken)

	tok, err = src.Token(ctx, social.PlatformFacebook)
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestDispatcherLongTweetFailsWithoutNetwork(t *testing.T) {
	t.Parallel()

	// Real twitter publisher pointed at a server that must never be reached.
	pub := NewTwitterPublisher(WithAPIBaseURL("http://127.0.0.1:1"))
	d := NewDispatcher(fakeTokenSource{social.PlatformTwitter: token()}, []Publisher{pub})

	results := d.Publish(context.Background(), social.Post{
		Content:   strings.Repeat("a", 281),
		Platforms: []social.Platform{social.PlatformTwitter},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "character limit")
}
