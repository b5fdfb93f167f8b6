package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

// Repository persists scheduled posts and hands due ones to the worker.
type Repository interface {
	// Create stores a new scheduled post.
	Create(ctx context.Context, post *ScheduledPost) error

	// Due atomically claims up to limit pending posts whose publish time has
	// passed, moving each to processing. Claimed posts are not visible to
	// concurrent workers.
	Due(ctx context.Context, now time.Time, limit int) ([]ScheduledPost, error)

	// Complete records the publish results. The post becomes published when
	// every result succeeded, failed otherwise.
	Complete(ctx context.Context, id uuid.UUID, results []social.PublishResult) error

	// Cancel removes a pending post owned by userID. Posts already claimed for
	// publishing cannot be cancelled.
	Cancel(ctx context.Context, id uuid.UUID, userID string) error

	// ListByUser returns the user's scheduled posts, soonest first.
	ListByUser(ctx context.Context, userID string) ([]ScheduledPost, error)
}

// MemoryRepository is an in-memory Repository for tests and single-process use.
type MemoryRepository struct {
	mu    sync.Mutex
	posts map[uuid.UUID]ScheduledPost
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{posts: make(map[uuid.UUID]ScheduledPost)}
}

var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) Create(_ context.Context, post *ScheduledPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = *post
	return nil
}

func (r *MemoryRepository) Due(_ context.Context, now time.Time, limit int) ([]ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []ScheduledPost
	for id, p := range r.posts {
		if p.Status != StatusPending || p.PublishAt.After(now) {
			continue
		}
		p.Status = StatusProcessing
		p.UpdatedAt = now
		r.posts[id] = p
		due = append(due, p)
		if limit > 0 && len(due) >= limit {
			break
		}
	}

	sort.Slice(due, func(i, j int) bool { return due[i].PublishAt.Before(due[j].PublishAt) })
	return due, nil
}

func (r *MemoryRepository) Complete(_ context.Context, id uuid.UUID, results []social.PublishResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return ErrNotFound
	}
	p.Results = results
	p.Status = statusFromResults(results)
	p.UpdatedAt = time.Now()
	r.posts[id] = p
	return nil
}

func (r *MemoryRepository) Cancel(_ context.Context, id uuid.UUID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}
	if p.Status != StatusPending {
		return ErrNotCancelable
	}
	delete(r.posts, id)
	return nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []ScheduledPost
	for _, p := range r.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishAt.Before(out[j].PublishAt) })
	return out, nil
}

// statusFromResults derives the terminal status: published only when every
// platform succeeded.
func statusFromResults(results []social.PublishResult) Status {
	if len(results) == 0 {
		return StatusFailed
	}
	for _, r := range results {
		if !r.Success {
			return StatusFailed
		}
	}
	return StatusPublished
}
