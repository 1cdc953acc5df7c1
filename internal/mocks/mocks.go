package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of session.Store
type MockStore struct {
	mock.Mock
}

// Get mocks the Get method
func (m *MockStore) Get(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// Set mocks the Set method
func (m *MockStore) Set(ctx context.Context, id, token string, ttl time.Duration) error {
	args := m.Called(ctx, id, token, ttl)
	return args.Error(0)
}

// Delete mocks the Delete method
func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenSource is a mock implementation of client.TokenSource
type MockTokenSource struct {
	mock.Mock
}

// Token mocks the Token method
func (m *MockTokenSource) Token(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
