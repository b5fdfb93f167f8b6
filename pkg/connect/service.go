package connect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/publishkit/pkg/logger"
	"github.com/dmitrymomot/publishkit/pkg/pkce"
	"github.com/dmitrymomot/publishkit/pkg/social"
	"github.com/dmitrymomot/publishkit/pkg/statestore"
)

// AccountSaver persists a normalized connected-account record. Implemented by
// accounts.Service; decoupled via interface so the orchestration flow can be
// tested without a backing store.
type AccountSaver interface {
	Save(ctx context.Context, account *social.Account) (string, error)
}

// TokenResponse is the normalized result of a completed code exchange.
type TokenResponse struct {
	Token   *social.AccessToken `json:"token"`
	Profile *social.Profile     `json:"profile"`
	Pages   []social.Page       `json:"pages,omitempty"`
}

// Service drives the OAuth connect flow: authorization-URL building, the
// code-for-token exchange sequence (exchange -> profile -> pages -> persist)
// and token refresh.
type Service struct {
	adapters map[social.Platform]ProviderAdapter
	states   statestore.Store
	accounts AccountSaver
	tokens   *statestore.TokenCache
	logger   *slog.Logger
	stateTTL time.Duration
	now      func() time.Time
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger configures the logger for the connect service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStateTTL configures the TTL for CSRF state and PKCE verifier entries.
func WithStateTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.stateTTL = ttl
		}
	}
}

// WithTokenCache mirrors exchanged and refreshed tokens into a token cache so
// the publishing dispatcher can look up credentials without hitting the
// account store.
func WithTokenCache(c *statestore.TokenCache) Option {
	return func(s *Service) {
		s.tokens = c
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs the orchestration service from the provided adapters.
// Defaults: stateTTL = 10 minutes, logger discards.
func NewService(states statestore.Store, accounts AccountSaver, adapters []ProviderAdapter, opts ...Option) *Service {
	s := &Service{
		adapters: make(map[social.Platform]ProviderAdapter, len(adapters)),
		states:   states,
		accounts: accounts,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		stateTTL: 10 * time.Minute,
		now:      time.Now,
	}
	for _, a := range adapters {
		s.adapters[a.Platform()] = a
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) adapter(platform social.Platform) (ProviderAdapter, error) {
	a, ok := s.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q", social.ErrUnsupportedPlatform, platform)
	}
	return a, nil
}

// AuthURL generates and persists a CSRF state (and, for PKCE providers, a code
// verifier) and returns the provider authorization URL. It never navigates;
// redirecting is the caller's concern.
func (s *Service) AuthURL(ctx context.Context, platform social.Platform) (string, error) {
	adapter, err := s.adapter(platform)
	if err != nil {
		return "", err
	}

	state, err := statestore.GenerateState()
	if err != nil {
		return "", err
	}
	if err := s.states.Set(ctx, statestore.StateKey(platform), state, s.stateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	var challenge string
	if adapter.RequiresPKCE() {
		verifier, err := pkce.GenerateVerifier()
		if err != nil {
			return "", err
		}
		if err := s.states.Set(ctx, statestore.VerifierKey(platform), verifier, s.stateTTL); err != nil {
			return "", fmt.Errorf("failed to store code verifier: %w", err)
		}
		challenge = pkce.ChallengeS256(verifier)
	}

	url, err := adapter.AuthURL(state, challenge)
	if err != nil {
		return "", fmt.Errorf("failed to build auth url: %w", err)
	}
	return url, nil
}

// Exchange validates the callback state, runs the provider exchange sequence
// and persists the resulting account. The stored state and verifier are
// cleared on every path, success or failure, to prevent replay.
func (s *Service) Exchange(ctx context.Context, platform social.Platform, code, state string) (*TokenResponse, error) {
	adapter, err := s.adapter(platform)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = s.states.Delete(ctx, statestore.StateKey(platform))
		_ = s.states.Delete(ctx, statestore.VerifierKey(platform))
	}()

	// One-time state consumption; a mismatch fails closed before any
	// token-endpoint call is made.
	stored, err := s.states.Consume(ctx, statestore.StateKey(platform))
	if err != nil {
		if errors.Is(err, statestore.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", platform, ErrInvalidState)
		}
		return nil, fmt.Errorf("failed to validate state: %w", err)
	}
	if stored != state {
		return nil, fmt.Errorf("%s: %w", platform, ErrInvalidState)
	}

	var verifier string
	if adapter.RequiresPKCE() {
		verifier, err = s.states.Consume(ctx, statestore.VerifierKey(platform))
		if err != nil {
			if errors.Is(err, statestore.ErrNotFound) {
				return nil, fmt.Errorf("%s: %w", platform, ErrVerifierMissing)
			}
			return nil, fmt.Errorf("failed to load code verifier: %w", err)
		}
	}

	token, err := adapter.Exchange(ctx, code, verifier)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return nil, fmt.Errorf("%s: %w", platform, ErrInvalidCode)
		}
		return nil, fmt.Errorf("%s code exchange failed: %w", platform, err)
	}

	profile, err := adapter.FetchProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%s profile fetch failed: %w", platform, err)
	}

	var pages []social.Page
	if pf, ok := adapter.(PagesFetcher); ok {
		pages, err = pf.FetchPages(ctx, token.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("%s pages fetch failed: %w", platform, err)
		}
	}

	account := &social.Account{
		Platform:     platform,
		Name:         profile.Name,
		Username:     username(profile),
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
		ConnectedAt:  s.now(),
		Pages:        pages,
		Profile:      profile,
	}
	if _, err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to persist %s account: %w", platform, err)
	}

	if s.tokens != nil {
		if err := s.tokens.Save(ctx, platform, *token); err != nil {
			s.logger.Warn("failed to cache token",
				logger.Platform(platform),
				logger.Error(err),
				logger.Component("connect"),
			)
		}
	}

	s.logger.Info("platform connected",
		logger.Platform(platform),
		logger.Component("connect"),
	)

	return &TokenResponse{Token: token, Profile: profile, Pages: pages}, nil
}

// Refresh trades a still-valid refresh token for a fresh credential and
// updates the token cache. The returned token carries a new absolute expiry
// and, for providers that rotate, a new refresh token.
func (s *Service) Refresh(ctx context.Context, platform social.Platform, refreshToken string) (*social.AccessToken, error) {
	adapter, err := s.adapter(platform)
	if err != nil {
		return nil, err
	}

	token, err := adapter.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshUnsupported) {
			return nil, fmt.Errorf("%s: %w", platform, ErrRefreshUnsupported)
		}
		return nil, fmt.Errorf("%s token refresh failed: %w", platform, err)
	}

	if s.tokens != nil {
		if err := s.tokens.Save(ctx, platform, *token); err != nil {
			s.logger.Warn("failed to cache refreshed token",
				logger.Platform(platform),
				logger.Error(err),
				logger.Component("connect"),
			)
		}
	}
	return token, nil
}

func username(p *social.Profile) string {
	switch {
	case p.Username != "":
		return p.Username
	case p.Email != "":
		return p.Email
	default:
		return p.ID
	}
}
