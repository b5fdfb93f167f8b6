package accounts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/publishkit/pkg/logger"
	"github.com/dmitrymomot/publishkit/pkg/social"
	"github.com/dmitrymomot/publishkit/pkg/statestore"
)

// Service persists connected social accounts through a two-tier design: a
// primary document store plus an explicit local mirror used as a degraded-mode
// write path when the primary denies permission. The caller still receives a
// valid identifier on the mirror path; this is deliberate graceful degradation,
// not an error swallow.
type Service struct {
	primary Storage
	mirror  mirror
	logger  *slog.Logger
	now     func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger configures the logger for the accounts service.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the account persistence service. The mirrorStore backs
// the degraded-mode local copy; pass a MemoryStore for single-process setups.
func NewService(primary Storage, mirrorStore statestore.Store, opts ...ServiceOption) *Service {
	s := &Service{
		primary: primary,
		mirror:  mirror{store: mirrorStore},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save upserts the account for the authenticated user. The record ID is the
// deterministic userID:platform composite, so reconnecting replaces rather
// than duplicates.
func (s *Service) Save(ctx context.Context, account *social.Account) (string, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return "", ErrNotAuthenticated
	}

	account.UserID = userID
	account.ID = CompositeID(userID, account.Platform)
	if account.ConnectedAt.IsZero() {
		account.ConnectedAt = s.now()
	}

	if err := s.primary.Upsert(ctx, account); err != nil {
		if !IsPermissionDenied(err) {
			return "", fmt.Errorf("failed to save account: %w", err)
		}
		s.logger.Warn("primary store denied write, falling back to local mirror",
			logger.Platform(account.Platform),
			logger.UserID(userID),
			logger.Error(err),
			logger.Component("accounts"),
		)
		if err := s.mirror.save(ctx, account); err != nil {
			return "", err
		}
	}
	return account.ID, nil
}

// GetAll lists the authenticated user's connected accounts. Under a
// permission-denied condition it returns whatever is recoverable from the
// local mirror, skipping entries that fail to parse.
func (s *Service) GetAll(ctx context.Context) ([]social.Account, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	accounts, err := s.primary.List(ctx, userID)
	if err == nil {
		return accounts, nil
	}
	if !IsPermissionDenied(err) {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	s.logger.Warn("primary store denied read, falling back to local mirror",
		logger.UserID(userID),
		logger.Error(err),
		logger.Component("accounts"),
	)

	var recovered []social.Account
	for _, p := range social.Platforms() {
		account, err := s.mirror.get(ctx, p)
		if err != nil {
			if !errors.Is(err, ErrAccountNotFound) {
				s.logger.Warn("skipping unreadable mirror entry",
					logger.Platform(p),
					logger.Error(err),
					logger.Component("accounts"),
				)
			}
			continue
		}
		recovered = append(recovered, *account)
	}
	return recovered, nil
}

// Get returns the account for (user, platform), consulting the mirror when the
// primary has no record or denies access. Returns ErrAccountNotFound when
// neither tier has one.
func (s *Service) Get(ctx context.Context, platform social.Platform) (*social.Account, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	account, err := s.primary.Get(ctx, userID, platform)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, ErrAccountNotFound) && !IsPermissionDenied(err) {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account, mirrorErr := s.mirror.get(ctx, platform)
	if mirrorErr != nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// Remove disconnects a platform: best effort, never rethrows backend errors.
// Making the credential unusable takes priority over strict consistency.
func (s *Service) Remove(ctx context.Context, platform social.Platform) error {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	if err := s.primary.Delete(ctx, userID, platform); err != nil {
		s.logger.Warn("primary store delete failed, clearing local mirror",
			logger.Platform(platform),
			logger.UserID(userID),
			logger.Error(err),
			logger.Component("accounts"),
		)
	}
	if err := s.mirror.delete(ctx, platform); err != nil {
		s.logger.Warn("failed to clear mirrored account",
			logger.Platform(platform),
			logger.Error(err),
			logger.Component("accounts"),
		)
	}
	return nil
}

// IsConnected reports whether a usable record exists for (user, platform).
func (s *Service) IsConnected(ctx context.Context, platform social.Platform) (bool, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return false, ErrNotAuthenticated
	}

	exists, err := s.primary.Exists(ctx, userID, platform)
	if err == nil {
		return exists, nil
	}
	return s.mirror.exists(ctx, platform), nil
}
