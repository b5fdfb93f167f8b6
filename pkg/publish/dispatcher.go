package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/dmitrymomot/publishkit/pkg/async"
	"github.com/dmitrymomot/publishkit/pkg/logger"
	"github.com/dmitrymomot/publishkit/pkg/social"
)

// Dispatcher fans a composed post out to its target platforms.
//
// Platforms are independent: a failure on one never cancels the others, and
// the result slice always matches the input platform order with exactly one
// entry per requested platform, duplicates included.
type Dispatcher struct {
	tokens     TokenSource
	publishers map[social.Platform]Publisher
	limiters   map[social.Platform]*rate.Limiter
	logger     *slog.Logger
	sequential bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger configures the dispatcher logger.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRateLimit throttles publish calls for one platform.
func WithRateLimit(p social.Platform, r rate.Limit, burst int) DispatcherOption {
	return func(d *Dispatcher) {
		d.limiters[p] = rate.NewLimiter(r, burst)
	}
}

// WithSequential processes platforms one at a time in input order instead of
// concurrently. Useful for callers that want deterministic interleaving of
// provider calls.
func WithSequential() DispatcherOption {
	return func(d *Dispatcher) {
		d.sequential = true
	}
}

// NewDispatcher builds a dispatcher over the given publishers.
func NewDispatcher(tokens TokenSource, publishers []Publisher, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		tokens:     tokens,
		publishers: make(map[social.Platform]Publisher, len(publishers)),
		limiters:   make(map[social.Platform]*rate.Limiter),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, p := range publishers {
		d.publishers[p.Platform()] = p
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Publish dispatches the post to every platform in post.Platforms and returns
// one result per platform, preserving input order. Errors never escape as
// panics or returned errors; partial success is the normal case.
func (d *Dispatcher) Publish(ctx context.Context, post social.Post) []social.PublishResult {
	results := make([]social.PublishResult, len(post.Platforms))

	if d.sequential {
		for i, platform := range post.Platforms {
			results[i] = d.publishOne(ctx, platform, post)
		}
		return results
	}

	futures := make([]*async.Future[social.PublishResult], len(post.Platforms))
	for i, platform := range post.Platforms {
		futures[i] = async.Async(ctx, platform, func(ctx context.Context, p social.Platform) (social.PublishResult, error) {
			return d.publishOne(ctx, p, post), nil
		})
	}
	for i, f := range futures {
		res, err := f.Await()
		if err != nil {
			// Only a pre-canceled context produces an error here.
			res = social.Failure(post.Platforms[i], err)
		}
		results[i] = res
	}
	return results
}

func (d *Dispatcher) publishOne(ctx context.Context, platform social.Platform, post social.Post) (result social.PublishResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("publisher panicked",
				logger.Platform(platform),
				slog.Any("panic", r),
				logger.Component("publish"),
			)
			result = social.Failure(platform, fmt.Errorf("publisher panic: %v", r))
		}
	}()

	publisher, ok := d.publishers[platform]
	if !ok {
		return social.Failure(platform, social.ErrUnsupportedPlatform)
	}

	token, err := d.tokens.Token(ctx, platform)
	if err != nil {
		return social.Failure(platform, fmt.Errorf("token lookup failed: %w", err))
	}
	if token == nil {
		return social.Failure(platform, ErrNotConnected)
	}

	if limiter := d.limiters[platform]; limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return social.Failure(platform, err)
		}
	}

	result = publisher.Publish(ctx, token.AccessToken, post)
	if result.Success {
		d.logger.Info("post published",
			logger.Platform(platform),
			logger.PostID(result.PostID),
			logger.Component("publish"),
		)
	} else {
		d.logger.Warn("publish failed",
			logger.Platform(platform),
			slog.String("reason", result.Error),
			logger.Component("publish"),
		)
	}
	return result
}
