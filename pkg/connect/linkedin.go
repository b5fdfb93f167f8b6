package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

// LinkedInConfig holds configuration for the LinkedIn provider.
type LinkedInConfig struct {
	ClientID     string        `env:"LINKEDIN_OAUTH_CLIENT_ID,required"`
	ClientSecret string        `env:"LINKEDIN_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string        `env:"LINKEDIN_OAUTH_REDIRECT_URL,required"`
	Scopes       []string      `env:"LINKEDIN_OAUTH_SCOPES" envSeparator:"," envDefault:"openid,profile,email,w_member_social"`
	StateTTL     time.Duration `env:"LINKEDIN_OAUTH_STATE_TTL" envDefault:"10m"`
}

type linkedinAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
	apiURL     string
}

// NewLinkedInAdapter creates a LinkedIn provider adapter.
func NewLinkedInAdapter(cfg LinkedInConfig, opts ...AdapterOption) ProviderAdapter {
	o := newAdapterOptions("https://api.linkedin.com", opts...)

	endpoint := linkedin.Endpoint
	if o.endpoint != nil {
		endpoint = *o.endpoint
	}

	return &linkedinAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes, // space-joined by oauth2, matching LinkedIn's convention
			Endpoint:     endpoint,
		},
		httpClient: o.httpClient,
		apiURL:     o.apiBaseURL,
	}
}

func (a *linkedinAdapter) Platform() social.Platform { return social.PlatformLinkedIn }

func (a *linkedinAdapter) RequiresPKCE() bool { return false }

func (a *linkedinAdapter) AuthURL(state, _ string) (string, error) {
	return a.conf.AuthCodeURL(state), nil
}

func (a *linkedinAdapter) Exchange(ctx context.Context, code, _ string) (*social.AccessToken, error) {
	tok, err := a.conf.Exchange(oauth2Context(ctx, a.httpClient), code)
	if err != nil {
		return nil, ErrInvalidCode
	}
	return fromOAuth2Token(tok), nil
}

// Refresh uses the refresh_token grant. LinkedIn only issues refresh tokens to
// approved applications; callers without one get ErrInvalidCode-like failures
// from the token endpoint, wrapped with provider context.
func (a *linkedinAdapter) Refresh(ctx context.Context, refreshToken string) (*social.AccessToken, error) {
	src := a.conf.TokenSource(oauth2Context(ctx, a.httpClient), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("linkedin token refresh: %w", err)
	}
	return fromOAuth2Token(tok), nil
}

// FetchProfile reads the OpenID Connect userinfo endpoint.
func (a *linkedinAdapter) FetchProfile(ctx context.Context, accessToken string) (*social.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.apiURL+"/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch linkedin profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linkedin api returned status %d", resp.StatusCode)
	}

	var u struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("fetch linkedin profile: %w", err)
	}

	return &social.Profile{ID: u.Sub, Name: u.Name, Email: u.Email}, nil
}

var _ ProviderAdapter = (*linkedinAdapter)(nil)
