package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

// Service creates and manages scheduled posts. Dispatching them when due is
// the Worker's job.
type Service struct {
	repo Repository
	now  func() time.Time
}

// ServiceOption configures the scheduling service.
type ServiceOption func(*Service)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo Repository, opts ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Schedule persists a post for later publishing. The post must target at
// least one platform and carry a publish time strictly in the future.
func (s *Service) Schedule(ctx context.Context, userID string, post social.Post) (*ScheduledPost, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if len(post.Platforms) == 0 {
		return nil, social.ErrNoPlatforms
	}
	if post.ScheduledAt == nil || !post.ScheduledAt.After(s.now()) {
		return nil, ErrPublishTimeNotFuture
	}

	now := s.now()
	sp := &ScheduledPost{
		ID:        uuid.New(),
		UserID:    userID,
		Post:      post,
		PublishAt: *post.ScheduledAt,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

// Cancel removes a pending scheduled post owned by the user.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, userID string) error {
	if userID == "" {
		return ErrMissingUserID
	}
	return s.repo.Cancel(ctx, id, userID)
}

// List returns the user's scheduled posts, soonest first.
func (s *Service) List(ctx context.Context, userID string) ([]ScheduledPost, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	return s.repo.ListByUser(ctx, userID)
}
