package publish

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/publishkit/pkg/accounts"
	"github.com/dmitrymomot/publishkit/pkg/social"
	"github.com/dmitrymomot/publishkit/pkg/statestore"
)

var (
	// ErrNotConnected indicates no usable credential exists for the platform.
	ErrNotConnected = errors.New("not connected")

	// ErrContentTooLong indicates the post exceeds the platform's character limit.
	ErrContentTooLong = errors.New("content exceeds character limit")

	// ErrMediaRequired indicates the platform requires at least one media reference.
	ErrMediaRequired = errors.New("at least one media url is required")
)

// Publisher posts content to a single platform.
//
// Implementations validate platform-specific constraints before any network
// I/O and never let an error escape: every failure is converted into a
// PublishResult so the dispatcher can keep its one-result-per-platform
// contract.
type Publisher interface {
	Platform() social.Platform
	Publish(ctx context.Context, accessToken string, post social.Post) social.PublishResult
}

// TokenSource resolves the stored, non-expired access token for a platform.
// A (nil, nil) return means no usable credential exists.
type TokenSource interface {
	Token(ctx context.Context, platform social.Platform) (*social.AccessToken, error)
}

// CacheTokenSource adapts a statestore.TokenCache to the TokenSource interface.
type CacheTokenSource struct {
	Cache *statestore.TokenCache
}

func (s CacheTokenSource) Token(ctx context.Context, platform social.Platform) (*social.AccessToken, error) {
	return s.Cache.Get(ctx, platform)
}

// AccountTokenSource resolves tokens from the connected-account store. Expired
// credentials are reported as absent.
type AccountTokenSource struct {
	Accounts *accounts.Service
}

func (s AccountTokenSource) Token(ctx context.Context, platform social.Platform) (*social.AccessToken, error) {
	account, err := s.Accounts.Get(ctx, platform)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			return nil, nil
		}
		return nil, err
	}

	token := account.Token()
	if token.Expired(time.Now()) {
		return nil, nil
	}
	return &token, nil
}

// publisherOptions mirrors the connect adapter options: tests point publishers
// at httptest servers.
type publisherOptions struct {
	httpClient *http.Client
	apiBaseURL string
}

// PublisherOption customizes publisher internals.
type PublisherOption func(*publisherOptions)

// WithHTTPClient overrides the HTTP client used for platform API calls.
func WithHTTPClient(c *http.Client) PublisherOption {
	return func(o *publisherOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithAPIBaseURL overrides the platform's API base URL.
func WithAPIBaseURL(u string) PublisherOption {
	return func(o *publisherOptions) {
		if u != "" {
			o.apiBaseURL = u
		}
	}
}

func newPublisherOptions(defaultAPIBaseURL string, opts ...PublisherOption) *publisherOptions {
	o := &publisherOptions{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBaseURL: defaultAPIBaseURL,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
