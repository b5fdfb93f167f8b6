package accounts

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

// MockStorage is a mock implementation of Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upsert(ctx context.Context, account *social.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockStorage) Get(ctx context.Context, userID string, platform social.Platform) (*social.Account, error) {
	args := m.Called(ctx, userID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Account), args.Error(1)
}

func (m *MockStorage) List(ctx context.Context, userID string) ([]social.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]social.Account), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, userID string, platform social.Platform) error {
	args := m.Called(ctx, userID, platform)
	return args.Error(0)
}

func (m *MockStorage) Exists(ctx context.Context, userID string, platform social.Platform) (bool, error) {
	args := m.Called(ctx, userID, platform)
	return args.Bool(0), args.Error(1)
}
