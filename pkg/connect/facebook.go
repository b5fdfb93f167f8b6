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
	"golang.org/x/oauth2/facebook"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

// FacebookConfig holds configuration for the Facebook provider.
type FacebookConfig struct {
	ClientID     string        `env:"FACEBOOK_OAUTH_CLIENT_ID,required"`
	ClientSecret string        `env:"FACEBOOK_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string        `env:"FACEBOOK_OAUTH_REDIRECT_URL,required"`
	Scopes       []string      `env:"FACEBOOK_OAUTH_SCOPES" envSeparator:"," envDefault:"public_profile,email,pages_show_list,pages_read_engagement,pages_manage_posts"`
	StateTTL     time.Duration `env:"FACEBOOK_OAUTH_STATE_TTL" envDefault:"10m"`
}

type facebookAdapter struct {
	conf       *oauth2.Config
	scopes     []string
	httpClient *http.Client
	graphURL   string
}

// NewFacebookAdapter creates a Facebook provider adapter.
func NewFacebookAdapter(cfg FacebookConfig, opts ...AdapterOption) ProviderAdapter {
	o := newAdapterOptions("https://graph.facebook.com", opts...)

	endpoint := facebook.Endpoint
	if o.endpoint != nil {
		endpoint = *o.endpoint
	}

	return &facebookAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			// Scopes stay empty on the config: Facebook wants them
			// comma-joined, oauth2 would join with spaces.
		},
		scopes:     cfg.Scopes,
		httpClient: o.httpClient,
		graphURL:   o.apiBaseURL,
	}
}

func (a *facebookAdapter) Platform() social.Platform { return social.PlatformFacebook }

func (a *facebookAdapter) RequiresPKCE() bool { return false }

// AuthURL builds the authorization URL. Scopes are comma-joined per Facebook
// convention, injected as an explicit parameter to bypass the oauth2 default.
func (a *facebookAdapter) AuthURL(state, _ string) (string, error) {
	return a.conf.AuthCodeURL(state,
		oauth2.SetAuthURLParam("scope", strings.Join(a.scopes, ",")),
	), nil
}

func (a *facebookAdapter) Exchange(ctx context.Context, code, _ string) (*social.AccessToken, error) {
	tok, err := a.conf.Exchange(oauth2Context(ctx, a.httpClient), code)
	if err != nil {
		return nil, ErrInvalidCode
	}
	return fromOAuth2Token(tok), nil
}

// Refresh extends the current user token via the fb_exchange_token grant.
// Facebook issues no refresh tokens; the still-valid access token plays that role.
func (a *facebookAdapter) Refresh(ctx context.Context, currentToken string) (*social.AccessToken, error) {
	q := url.Values{
		"grant_type":        {"fb_exchange_token"},
		"client_id":         {a.conf.ClientID},
		"client_secret":     {a.conf.ClientSecret},
		"fb_exchange_token": {currentToken},
	}

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := a.getJSON(ctx, a.graphURL+"/oauth/access_token?"+q.Encode(), "", &out); err != nil {
		return nil, fmt.Errorf("facebook token refresh: %w", err)
	}

	return &social.AccessToken{
		AccessToken: out.AccessToken,
		TokenType:   out.TokenType,
		ExpiresAt:   time.Now().Add(time.Duration(out.ExpiresIn) * time.Second),
	}, nil
}

func (a *facebookAdapter) FetchProfile(ctx context.Context, accessToken string) (*social.Profile, error) {
	var u struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := a.getJSON(ctx, a.graphURL+"/me?fields=id,name,email", accessToken, &u); err != nil {
		return nil, fmt.Errorf("fetch facebook profile: %w", err)
	}
	return &social.Profile{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// FetchPages lists the pages the user can manage, each with its own page token.
func (a *facebookAdapter) FetchPages(ctx context.Context, accessToken string) ([]social.Page, error) {
	var out struct {
		Data []struct {
			ID          string   `json:"id"`
			Name        string   `json:"name"`
			AccessToken string   `json:"access_token"`
			Category    string   `json:"category"`
			Tasks       []string `json:"tasks"`
		} `json:"data"`
	}
	if err := a.getJSON(ctx, a.graphURL+"/me/accounts", accessToken, &out); err != nil {
		return nil, fmt.Errorf("fetch facebook pages: %w", err)
	}

	pages := make([]social.Page, 0, len(out.Data))
	for _, p := range out.Data {
		pages = append(pages, social.Page{
			ID:          p.ID,
			Name:        p.Name,
			AccessToken: p.AccessToken,
			Category:    p.Category,
			Tasks:       p.Tasks,
		})
	}
	return pages, nil
}

func (a *facebookAdapter) getJSON(ctx context.Context, rawURL, accessToken string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("facebook api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

var (
	_ ProviderAdapter = (*facebookAdapter)(nil)
	_ PagesFetcher    = (*facebookAdapter)(nil)
)
