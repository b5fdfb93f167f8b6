package social

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/publishkit/pkg/accounts"
	"github.com/dmitrymomot/publishkit/pkg/connect"
	"github.com/dmitrymomot/publishkit/pkg/logger"
	"github.com/dmitrymomot/publishkit/pkg/schedule"
	"github.com/dmitrymomot/publishkit/pkg/social"
)

type service struct {
	connect    *connect.Service
	accounts   *accounts.Service
	dispatcher schedule.Dispatcher
	scheduler  *schedule.Service
	logger     *slog.Logger
}

// platformParam resolves the {platform} route parameter.
func platformParam(r *http.Request) (social.Platform, error) {
	return social.ParsePlatform(chi.URLParam(r, "platform"))
}

// userID requires an authenticated user in the request context. Upstream
// auth middleware is responsible for putting it there.
func (s *service) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := accounts.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
	}
	return id, ok
}

func (s *service) startConnect(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}

	platform, err := platformParam(r)
	if err != nil {
		writeConnectError(w, err)
		return
	}

	authURL, err := s.connect.AuthURL(r.Context(), platform)
	if err != nil {
		writeConnectError(w, err)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

func (s *service) callback(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}

	platform, err := platformParam(r)
	if err != nil {
		writeConnectError(w, err)
		return
	}

	params := connect.ParseCallback(r.URL.Query())
	if err := params.Err(); err != nil {
		s.logger.Warn("provider reported callback error",
			logger.Platform(platform),
			logger.Error(err),
			logger.Component("social_module"),
		)
		writeConnectError(w, err)
		return
	}

	resp, err := s.connect.Exchange(r.Context(), platform, params.Code, params.State)
	if err != nil {
		writeConnectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"platform": platform,
		"profile":  resp.Profile,
		"pages":    resp.Pages,
	})
}

func (s *service) listAccounts(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}

	list, err := s.accounts.GetAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Token material never leaves the API.
	type accountView struct {
		Platform     social.Platform `json:"platform"`
		Name         string          `json:"name"`
		Username     string          `json:"username"`
		ConnectedAt  time.Time       `json:"connected_at"`
		ExpiresAt    time.Time       `json:"expires_at"`
		Pages        []social.Page   `json:"pages,omitempty"`
		SavedLocally bool            `json:"saved_locally,omitempty"`
	}
	views := make([]accountView, 0, len(list))
	for _, a := range list {
		views = append(views, accountView{
			Platform:     a.Platform,
			Name:         a.Name,
			Username:     a.Username,
			ConnectedAt:  a.ConnectedAt,
			ExpiresAt:    a.ExpiresAt,
			Pages:        a.Pages,
			SavedLocally: a.SavedLocally,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": views})
}

func (s *service) removeAccount(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}

	platform, err := platformParam(r)
	if err != nil {
		writeConnectError(w, err)
		return
	}

	connected, err := s.accounts.IsConnected(r.Context(), platform)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !connected {
		writeError(w, http.StatusNotFound, "account not connected")
		return
	}

	// Remove is best effort: making the credential unusable beats strict
	// consistency, so it never surfaces backend errors.
	if err := s.accounts.Remove(r.Context(), platform); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type publishRequest struct {
	Content     string     `json:"content"`
	Link        string     `json:"link,omitempty"`
	MediaURLs   []string   `json:"media_urls,omitempty"`
	Platforms   []string   `json:"platforms"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

func (s *service) publish(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Platforms) == 0 {
		writeError(w, http.StatusBadRequest, social.ErrNoPlatforms.Error())
		return
	}

	platforms := make([]social.Platform, 0, len(req.Platforms))
	for _, p := range req.Platforms {
		platform, err := social.ParsePlatform(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		platforms = append(platforms, platform)
	}

	post := social.Post{
		Content:     req.Content,
		Link:        req.Link,
		MediaURLs:   req.MediaURLs,
		Platforms:   platforms,
		ScheduledAt: req.ScheduledAt,
	}

	// Future-dated posts are parked with the scheduler instead of dispatched.
	if s.scheduler != nil && req.ScheduledAt != nil && req.ScheduledAt.After(time.Now()) {
		sp, err := s.scheduler.Schedule(r.Context(), userID, post)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"scheduled": sp})
		return
	}

	results := s.dispatcher.Publish(r.Context(), post)
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *service) listScheduled(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	list, err := s.scheduler.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scheduled": list})
}

func (s *service) cancelScheduled(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scheduled post id")
		return
	}

	switch err := s.scheduler.Cancel(r.Context(), id, userID); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, schedule.ErrNotFound):
		writeError(w, http.StatusNotFound, "scheduled post not found")
	case errors.Is(err, schedule.ErrNotCancelable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
