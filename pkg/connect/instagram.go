package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

// InstagramConfig holds configuration for the Instagram provider.
//
// The canonical scope set is the Basic Display pair user_profile,user_media.
// The broader Facebook-shared set belongs to the Facebook provider, not here.
type InstagramConfig struct {
	ClientID     string        `env:"INSTAGRAM_OAUTH_CLIENT_ID,required"`
	ClientSecret string        `env:"INSTAGRAM_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string        `env:"INSTAGRAM_OAUTH_REDIRECT_URL,required"`
	Scopes       []string      `env:"INSTAGRAM_OAUTH_SCOPES" envSeparator:"," envDefault:"user_profile,user_media"`
	StateTTL     time.Duration `env:"INSTAGRAM_OAUTH_STATE_TTL" envDefault:"10m"`
}

var instagramEndpoint = oauth2.Endpoint{
	AuthURL:   "https://api.instagram.com/oauth/authorize",
	TokenURL:  "https://api.instagram.com/oauth/access_token",
	AuthStyle: oauth2.AuthStyleInParams,
}

type instagramAdapter struct {
	conf       *oauth2.Config
	scopes     []string
	httpClient *http.Client
	graphURL   string
}

// NewInstagramAdapter creates an Instagram provider adapter.
func NewInstagramAdapter(cfg InstagramConfig, opts ...AdapterOption) ProviderAdapter {
	o := newAdapterOptions("https://graph.instagram.com", opts...)

	endpoint := instagramEndpoint
	if o.endpoint != nil {
		endpoint = *o.endpoint
	}

	return &instagramAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			// Scopes stay empty on the config: Instagram wants them
			// comma-joined, oauth2 would join with spaces.
		},
		scopes:     cfg.Scopes,
		httpClient: o.httpClient,
		graphURL:   o.apiBaseURL,
	}
}

func (a *instagramAdapter) Platform() social.Platform { return social.PlatformInstagram }

func (a *instagramAdapter) RequiresPKCE() bool { return false }

func (a *instagramAdapter) AuthURL(state, _ string) (string, error) {
	return a.conf.AuthCodeURL(state,
		oauth2.SetAuthURLParam("scope", strings.Join(a.scopes, ",")),
	), nil
}

func (a *instagramAdapter) Exchange(ctx context.Context, code, _ string) (*social.AccessToken, error) {
	tok, err := a.conf.Exchange(oauth2Context(ctx, a.httpClient), code)
	if err != nil {
		return nil, ErrInvalidCode
	}

	out := fromOAuth2Token(tok)
	if out.ExpiresAt.IsZero() {
		// Basic Display short-lived tokens last one hour; the endpoint omits
		// expires_in, so stamp the expiry client-side.
		out.ExpiresAt = time.Now().Add(time.Hour)
	}
	return out, nil
}

// Refresh extends a long-lived token via the ig_refresh_token grant.
func (a *instagramAdapter) Refresh(ctx context.Context, currentToken string) (*social.AccessToken, error) {
	q := url.Values{
		"grant_type":   {"ig_refresh_token"},
		"access_token": {currentToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.graphURL+"/refresh_access_token?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram token refresh: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram token refresh: api returned status %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("instagram token refresh: %w", err)
	}

	return &social.AccessToken{
		AccessToken: out.AccessToken,
		TokenType:   out.TokenType,
		ExpiresAt:   time.Now().Add(time.Duration(out.ExpiresIn) * time.Second),
	}, nil
}

func (a *instagramAdapter) FetchProfile(ctx context.Context, accessToken string) (*social.Profile, error) {
	q := url.Values{
		"fields":       {"id,username"},
		"access_token": {accessToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.graphURL+"/me?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch instagram profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram api returned status %d", resp.StatusCode)
	}

	var u struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("fetch instagram profile: %w", err)
	}

	return &social.Profile{ID: u.ID, Name: u.Username, Username: u.Username}, nil
}

var _ ProviderAdapter = (*instagramAdapter)(nil)
