package social

import (
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/publishkit/pkg/accounts"
	"github.com/dmitrymomot/publishkit/pkg/connect"
	"github.com/dmitrymomot/publishkit/pkg/schedule"
)

// RouterOptions configures which services the social module exposes. Connect
// and Accounts are required; Dispatcher enables POST /publish and Scheduler
// additionally enables future-dated posts.
type RouterOptions struct {
	Connect    *connect.Service
	Accounts   *accounts.Service
	Dispatcher schedule.Dispatcher
	Scheduler  *schedule.Service
	Logger     *slog.Logger
}

// Router creates the social module router.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(authMiddleware) // must put the user id into the request context
//	r.Mount("/social", social.Router(social.RouterOptions{
//	    Connect:    connectSvc,
//	    Accounts:   accountsSvc,
//	    Dispatcher: dispatcher,
//	    Scheduler:  scheduler,
//	}))
func Router(opts RouterOptions) chi.Router {
	s := &service{
		connect:    opts.Connect,
		accounts:   opts.Accounts,
		dispatcher: opts.Dispatcher,
		scheduler:  opts.Scheduler,
		logger:     opts.Logger,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()

	r.Get("/connect/{platform}", s.startConnect)
	r.Get("/connect/{platform}/callback", s.callback)

	r.Get("/accounts", s.listAccounts)
	r.Delete("/accounts/{platform}", s.removeAccount)

	if s.dispatcher != nil {
		r.Post("/publish", s.publish)
	}
	if s.scheduler != nil {
		r.Get("/scheduled", s.listScheduled)
		r.Delete("/scheduled/{id}", s.cancelScheduled)
	}

	return r
}
