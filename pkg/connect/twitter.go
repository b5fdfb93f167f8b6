package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/publishkit/pkg/pkce"
	"github.com/dmitrymomot/publishkit/pkg/social"
)

// TwitterConfig holds configuration for the Twitter/X provider.
//
// Twitter's OAuth 2.0 flow mandates PKCE; the offline.access scope is required
// for refresh tokens.
type TwitterConfig struct {
	ClientID     string        `env:"TWITTER_OAUTH_CLIENT_ID,required"`
	ClientSecret string        `env:"TWITTER_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string        `env:"TWITTER_OAUTH_REDIRECT_URL,required"`
	Scopes       []string      `env:"TWITTER_OAUTH_SCOPES" envSeparator:"," envDefault:"tweet.read,tweet.write,users.read,offline.access"`
	StateTTL     time.Duration `env:"TWITTER_OAUTH_STATE_TTL" envDefault:"10m"`
}

// twitterEndpoint is not shipped with golang.org/x/oauth2.
var twitterEndpoint = oauth2.Endpoint{
	AuthURL:   "https://twitter.com/i/oauth2/authorize",
	TokenURL:  "https://api.twitter.com/2/oauth2/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

type twitterAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
	apiURL     string
}

// NewTwitterAdapter creates a Twitter/X provider adapter.
func NewTwitterAdapter(cfg TwitterConfig, opts ...AdapterOption) ProviderAdapter {
	o := newAdapterOptions("https://api.twitter.com", opts...)

	endpoint := twitterEndpoint
	if o.endpoint != nil {
		endpoint = *o.endpoint
	}

	return &twitterAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes, // space-joined by oauth2, matching Twitter's convention
			Endpoint:     endpoint,
		},
		httpClient: o.httpClient,
		apiURL:     o.apiBaseURL,
	}
}

func (a *twitterAdapter) Platform() social.Platform { return social.PlatformTwitter }

func (a *twitterAdapter) RequiresPKCE() bool { return true }

// AuthURL builds the authorization URL including the S256 code challenge.
func (a *twitterAdapter) AuthURL(state, challenge string) (string, error) {
	if challenge == "" {
		return "", fmt.Errorf("twitter auth url: %w", ErrVerifierMissing)
	}
	return a.conf.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", pkce.Method),
	), nil
}

// Exchange replays the stored code verifier so the provider can re-derive and
// compare the challenge sent at authorization time.
func (a *twitterAdapter) Exchange(ctx context.Context, code, verifier string) (*social.AccessToken, error) {
	if verifier == "" {
		return nil, ErrVerifierMissing
	}
	tok, err := a.conf.Exchange(oauth2Context(ctx, a.httpClient), code,
		oauth2.SetAuthURLParam("code_verifier", verifier),
	)
	if err != nil {
		return nil, ErrInvalidCode
	}
	return fromOAuth2Token(tok), nil
}

// Refresh rotates the credential through the standard refresh_token grant.
// Twitter rotates the refresh token on every use.
func (a *twitterAdapter) Refresh(ctx context.Context, refreshToken string) (*social.AccessToken, error) {
	src := a.conf.TokenSource(oauth2Context(ctx, a.httpClient), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("twitter token refresh: %w", err)
	}
	return fromOAuth2Token(tok), nil
}

func (a *twitterAdapter) FetchProfile(ctx context.Context, accessToken string) (*social.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.apiURL+"/2/users/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch twitter profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter api returned status %d", resp.StatusCode)
	}

	var out struct {
		Data struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("fetch twitter profile: %w", err)
	}

	return &social.Profile{ID: out.Data.ID, Name: out.Data.Name, Username: out.Data.Username}, nil
}

var _ ProviderAdapter = (*twitterAdapter)(nil)
