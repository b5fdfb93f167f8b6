package schedule

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/publishkit/pkg/accounts"
	"github.com/dmitrymomot/publishkit/pkg/logger"
	"github.com/dmitrymomot/publishkit/pkg/social"
)

// Dispatcher publishes a post to its target platforms. *publish.Dispatcher
// satisfies this interface.
type Dispatcher interface {
	Publish(ctx context.Context, post social.Post) []social.PublishResult
}

// Worker polls the repository for due posts and dispatches them.
type Worker struct {
	repo       Repository
	dispatcher Dispatcher

	interval  time.Duration
	batchSize int
	logger    *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithInterval sets how often the worker polls for due posts.
func WithInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithBatchSize caps how many due posts are claimed per poll.
func WithBatchSize(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// WithWorkerLogger sets the worker logger.
func WithWorkerLogger(l *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorker creates a scheduled-post worker. It does not start polling until
// Start is called.
func NewWorker(repo Repository, dispatcher Dispatcher, opts ...WorkerOption) (*Worker, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is nil")
	}

	w := &Worker{
		repo:       repo,
		dispatcher: dispatcher,
		interval:   30 * time.Second,
		batchSize:  10,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins polling in the background.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return fmt.Errorf("worker already started")
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)

	w.logger.Info("schedule worker started",
		slog.Duration("interval", w.interval),
		slog.Int("batch_size", w.batchSize),
		logger.Component("schedule"),
	)
	return nil
}

// Stop cancels polling and waits for the in-flight batch to finish.
func (w *Worker) Stop() error {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()
	if cancel == nil {
		return fmt.Errorf("worker not started")
	}

	cancel()
	w.wg.Wait()
	w.logger.Info("schedule worker stopped", logger.Component("schedule"))
	return nil
}

// Run starts the worker and blocks until ctx is done, suitable for errgroup.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return w.Stop()
	}
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processDue(ctx)
		}
	}
}

// ProcessDue claims and dispatches one batch of due posts. Exposed so callers
// can trigger an immediate sweep without waiting for the next tick.
func (w *Worker) ProcessDue(ctx context.Context) {
	w.processDue(ctx)
}

func (w *Worker) processDue(ctx context.Context) {
	due, err := w.repo.Due(ctx, time.Now(), w.batchSize)
	if err != nil {
		w.logger.Error("failed to claim due posts",
			logger.Error(err),
			logger.Component("schedule"),
		)
	}

	for _, post := range due {
		// Token sources resolve credentials per user, so the owner travels in
		// the context.
		results := w.dispatcher.Publish(accounts.WithUserID(ctx, post.UserID), post.Post)

		if err := w.repo.Complete(ctx, post.ID, results); err != nil {
			w.logger.Error("failed to record publish results",
				slog.String("scheduled_post_id", post.ID.String()),
				logger.Error(err),
				logger.Component("schedule"),
			)
			continue
		}

		w.logger.Info("scheduled post dispatched",
			slog.String("scheduled_post_id", post.ID.String()),
			logger.UserID(post.UserID),
			slog.String("status", string(statusFromResults(results))),
			logger.Component("schedule"),
		)
	}
}
