package connect

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

// ProviderAdapter abstracts provider-specific OAuth behavior behind a minimal
// interface. Implementations encapsulate all protocol details (oauth2.Config,
// token exchange, API calls) and expose only the primitives the orchestration
// service requires.
type ProviderAdapter interface {
	// Platform returns the stable platform identifier used for storage and logging.
	Platform() social.Platform

	// RequiresPKCE reports whether the provider mandates the
	// authorization-code-with-PKCE variant. When true, AuthURL receives a
	// non-empty S256 challenge and Exchange a non-empty verifier.
	RequiresPKCE() bool

	// AuthURL builds the provider authorization URL for the given state token.
	// The challenge argument is empty for providers without PKCE.
	AuthURL(state, challenge string) (string, error)

	// Exchange trades an authorization code for an access token. The verifier
	// argument is empty for providers without PKCE.
	//
	// Implementations return ErrInvalidCode on exchange failures so the core
	// flow can distinguish a bad code from infrastructure errors.
	Exchange(ctx context.Context, code, verifier string) (*social.AccessToken, error)

	// Refresh trades a still-valid refresh token (or, for providers using
	// token-extension grants, the current access token) for a fresh credential
	// with a new absolute expiry. Providers without any refresh mechanism
	// return ErrRefreshUnsupported.
	Refresh(ctx context.Context, refreshToken string) (*social.AccessToken, error)

	// FetchProfile retrieves the authenticated user's normalized profile.
	FetchProfile(ctx context.Context, accessToken string) (*social.Profile, error)
}

// PagesFetcher is an optional adapter capability for providers exposing
// manageable sub-pages with their own credentials (Facebook).
type PagesFetcher interface {
	FetchPages(ctx context.Context, accessToken string) ([]social.Page, error)
}

// AdapterOption customizes adapter internals, primarily so tests can point
// adapters at httptest servers.
type AdapterOption func(*adapterOptions)

type adapterOptions struct {
	httpClient *http.Client
	endpoint   *oauth2.Endpoint
	apiBaseURL string
}

// WithHTTPClient overrides the HTTP client used for provider API calls.
func WithHTTPClient(c *http.Client) AdapterOption {
	return func(o *adapterOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithEndpoint overrides the provider's OAuth endpoint pair.
func WithEndpoint(e oauth2.Endpoint) AdapterOption {
	return func(o *adapterOptions) {
		o.endpoint = &e
	}
}

// WithAPIBaseURL overrides the provider's API base URL.
func WithAPIBaseURL(u string) AdapterOption {
	return func(o *adapterOptions) {
		if u != "" {
			o.apiBaseURL = u
		}
	}
}

func newAdapterOptions(defaultAPIBaseURL string, opts ...AdapterOption) *adapterOptions {
	o := &adapterOptions{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBaseURL: defaultAPIBaseURL,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// oauth2Context injects the adapter's HTTP client into the oauth2 library so
// token-endpoint calls share the same timeout policy as profile fetches.
func oauth2Context(ctx context.Context, c *http.Client) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c)
}

func fromOAuth2Token(t *oauth2.Token) *social.AccessToken {
	return &social.AccessToken{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.Expiry,
	}
}
