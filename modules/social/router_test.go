package social_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	module "github.com/dmitrymomot/publishkit/modules/social"
	"github.com/dmitrymomot/publishkit/pkg/accounts"
	"github.com/dmitrymomot/publishkit/pkg/connect"
	"github.com/dmitrymomot/publishkit/pkg/schedule"
	"github.com/dmitrymomot/publishkit/pkg/social"
	"github.com/dmitrymomot/publishkit/pkg/statestore"
)

// memStorage is an in-memory primary account store.
type memStorage struct {
	mu       sync.Mutex
	accounts map[string]social.Account
}

func newMemStorage() *memStorage {
	return &memStorage{accounts: make(map[string]social.Account)}
}

func (m *memStorage) Upsert(_ context.Context, a *social.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = *a
	return nil
}

func (m *memStorage) Get(_ context.Context, userID string, p social.Platform) (*social.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accounts.CompositeID(userID, p)]
	if !ok {
		return nil, accounts.ErrAccountNotFound
	}
	return &a, nil
}

func (m *memStorage) List(_ context.Context, userID string) ([]social.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []social.Account
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStorage) Delete(_ context.Context, userID string, p social.Platform) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, accounts.CompositeID(userID, p))
	return nil
}

func (m *memStorage) Exists(_ context.Context, userID string, p social.Platform) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.accounts[accounts.CompositeID(userID, p)]
	return ok, nil
}

// stubAdapter is a minimal provider adapter for flow tests.
type stubAdapter struct {
	platform social.Platform
}

func (a stubAdapter) Platform() social.Platform { return a.platform }
func (a stubAdapter) RequiresPKCE() bool        { return false }

func (a stubAdapter) AuthURL(state, _ string) (string, error) {
	return "https://provider.test/authorize?state=" + url.QueryEscape(state), nil
}

func (a stubAdapter) Exchange(_ context.Context, code, _ string) (*social.AccessToken, error) {
	if code != "good-code" {
		return nil, connect.ErrInvalidCode
	}
	return &social.AccessToken{
		AccessToken: "granted-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}, nil
}

func (a stubAdapter) Refresh(context.Context, string) (*social.AccessToken, error) {
	return nil, connect.ErrRefreshUnsupported
}

func (a stubAdapter) FetchProfile(context.Context, string) (*social.Profile, error) {
	return &social.Profile{ID: "p-1", Name: "Test User", Username: "testuser"}, nil
}

// stubDispatcher returns one successful result per platform.
type stubDispatcher struct {
	mu    sync.Mutex
	calls int
}

func (d *stubDispatcher) Publish(_ context.Context, post social.Post) []social.PublishResult {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	results := make([]social.PublishResult, len(post.Platforms))
	for i, p := range post.Platforms {
		results[i] = social.PublishResult{Platform: p, Success: true, PostID: "id-" + string(p)}
	}
	return results
}

type testEnv struct {
	router     http.Handler
	states     *statestore.MemoryStore
	accounts   *accounts.Service
	dispatcher *stubDispatcher
	scheduler  *schedule.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	states := statestore.NewMemoryStore()
	accountsSvc := accounts.NewService(newMemStorage(), statestore.NewMemoryStore())
	connectSvc := connect.NewService(states, accountsSvc, []connect.ProviderAdapter{
		stubAdapter{platform: social.PlatformFacebook},
	})
	scheduler, err := schedule.NewService(schedule.NewMemoryRepository())
	require.NoError(t, err)
	dispatcher := &stubDispatcher{}

	return &testEnv{
		router: module.Router(module.RouterOptions{
			Connect:    connectSvc,
			Accounts:   accountsSvc,
			Dispatcher: dispatcher,
			Scheduler:  scheduler,
		}),
		states:     states,
		accounts:   accountsSvc,
		dispatcher: dispatcher,
		scheduler:  scheduler,
	}
}

func (e *testEnv) do(method, target string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = req.WithContext(accounts.WithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) (msg, category string) {
	t.Helper()
	var body struct {
		Error    string `json:"error"`
		Category string `json:"category"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error, body.Category
}

func TestConnectFlow(t *testing.T) {
	t.Parallel()

	t.Run("start redirects to the provider with state", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.do(http.MethodGet, "/connect/facebook", nil)
		require.Equal(t, http.StatusFound, rec.Code)

		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "provider.test", loc.Host)
		assert.NotEmpty(t, loc.Query().Get("state"))
	})

	t.Run("unknown platform maps to config category", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.do(http.MethodGet, "/connect/myspace", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		_, category := decodeErr(t, rec)
		assert.Equal(t, "config", category)
	})

	t.Run("callback without prior start maps to csrf category", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.do(http.MethodGet, "/connect/facebook/callback?code=good-code&state=forged", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		_, category := decodeErr(t, rec)
		assert.Equal(t, "csrf", category)
	})

	t.Run("denied consent maps to consent_denied category", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.do(http.MethodGet, "/connect/facebook/callback?error=access_denied", nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		_, category := decodeErr(t, rec)
		assert.Equal(t, "consent_denied", category)
	})

	t.Run("full connect round trip persists the account", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.do(http.MethodGet, "/connect/facebook", nil)
		require.Equal(t, http.StatusFound, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		state := loc.Query().Get("state")

		rec = env.do(http.MethodGet, "/connect/facebook/callback?code=good-code&state="+state, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = env.do(http.MethodGet, "/accounts", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Accounts []struct {
				Platform string `json:"platform"`
				Username string `json:"username"`
			} `json:"accounts"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Accounts, 1)
		assert.Equal(t, "facebook", body.Accounts[0].Platform)
		assert.Equal(t, "testuser", body.Accounts[0].Username)
	})

	t.Run("requests without a user are unauthorized", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRemoveAccount(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodDelete, "/accounts/facebook", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := env.accounts.Save(accounts.WithUserID(context.Background(), "user-1"), &social.Account{
		Platform:    social.PlatformFacebook,
		Name:        "Test User",
		AccessToken: "tok",
	})
	require.NoError(t, err)

	rec = env.do(http.MethodDelete, "/accounts/facebook", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodDelete, "/accounts/facebook", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublishEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("immediate publish dispatches", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		body, _ := json.Marshal(map[string]any{
			"content":   "hello",
			"platforms": []string{"facebook", "twitter"},
		})
		rec := env.do(http.MethodPost, "/publish", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Results []social.PublishResult `json:"results"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 2)
		assert.Equal(t, 1, env.dispatcher.calls)
	})

	t.Run("future scheduled_at parks the post instead", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		body, _ := json.Marshal(map[string]any{
			"content":      "later",
			"platforms":    []string{"twitter"},
			"scheduled_at": time.Now().Add(2 * time.Hour).Format(time.RFC3339),
		})
		rec := env.do(http.MethodPost, "/publish", body)
		require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
		assert.Equal(t, 0, env.dispatcher.calls)

		list, err := env.scheduler.List(context.Background(), "user-1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, schedule.StatusPending, list[0].Status)
	})

	t.Run("unknown platform in the list is rejected", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		body, _ := json.Marshal(map[string]any{
			"content":   "x",
			"platforms": []string{"myspace"},
		})
		rec := env.do(http.MethodPost, "/publish", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty platform list is rejected", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		body, _ := json.Marshal(map[string]any{"content": "x"})
		rec := env.do(http.MethodPost, "/publish", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestScheduledEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	at := time.Now().Add(3 * time.Hour)
	sp, err := env.scheduler.Schedule(ctx, "user-1", social.Post{
		Content:     "parked",
		Platforms:   []social.Platform{social.PlatformLinkedIn},
		ScheduledAt: &at,
	})
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/scheduled", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Scheduled []schedule.ScheduledPost `json:"scheduled"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Scheduled, 1)
	assert.Equal(t, sp.ID, body.Scheduled[0].ID)

	rec = env.do(http.MethodDelete, "/scheduled/"+sp.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodDelete, "/scheduled/"+sp.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodDelete, "/scheduled/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
