package mocks

import (
	"context"
	"sync"

	"github.com/SergeiKhy/chowlink/internal/repository"
)

// MockTokenStore implements repository.TokenStore for testing
type MockTokenStore struct {
	mu     sync.RWMutex
	token  string
	gets   int
	sets   int
	GetErr error
	SetErr error
}

func NewMockTokenStore(token string) *MockTokenStore {
	return &MockTokenStore{token: token}
}

func (m *MockTokenStore) Get(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++
	if m.GetErr != nil {
		return "", m.GetErr
	}
	if m.token == "" {
		return "", repository.ErrTokenNotFound
	}
	return m.token, nil
}

func (m *MockTokenStore) Set(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.token = token
	return nil
}

// Token текущее значение без учёта в счётчиках
func (m *MockTokenStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MockTokenStore) Sets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}
