package connect

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

// MockProviderAdapter is a mock implementation of ProviderAdapter.
type MockProviderAdapter struct {
	mock.Mock
	platform social.Platform
	pkce     bool
}

func (m *MockProviderAdapter) Platform() social.Platform { return m.platform }

func (m *MockProviderAdapter) RequiresPKCE() bool { return m.pkce }

func (m *MockProviderAdapter) AuthURL(state, challenge string) (string, error) {
	args := m.Called(state, challenge)
	return args.String(0), args.Error(1)
}

func (m *MockProviderAdapter) Exchange(ctx context.Context, code, verifier string) (*social.AccessToken, error) {
	args := m.Called(ctx, code, verifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.AccessToken), args.Error(1)
}

func (m *MockProviderAdapter) Refresh(ctx context.Context, refreshToken string) (*social.AccessToken, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.AccessToken), args.Error(1)
}

func (m *MockProviderAdapter) FetchProfile(ctx context.Context, accessToken string) (*social.Profile, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Profile), args.Error(1)
}

// MockPagesAdapter is a MockProviderAdapter that also fetches pages.
type MockPagesAdapter struct {
	MockProviderAdapter
}

func (m *MockPagesAdapter) FetchPages(ctx context.Context, accessToken string) ([]social.Page, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]social.Page), args.Error(1)
}

// MockAccountSaver is a mock implementation of AccountSaver.
type MockAccountSaver struct {
	mock.Mock
}

func (m *MockAccountSaver) Save(ctx context.Context, account *social.Account) (string, error) {
	args := m.Called(ctx, account)
	return args.String(0), args.Error(1)
}
