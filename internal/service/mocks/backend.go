package mocks

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/SergeiKhy/chowlink/internal/apiclient"
	"github.com/SergeiKhy/chowlink/internal/models"
)

// MockBackendAPI implements service.BackendAPI for testing.
// Каждый вызов записывается; ответы CreateLink можно задать очередью ошибок.
type MockBackendAPI struct {
	mu sync.Mutex

	Password      string
	LoginErr      error
	CategoryList  []string
	CategoriesErr error

	// LoginGate блокирует Login до закрытия канала
	LoginGate chan struct{}

	createErrs   []error
	issued       int
	loginCalls   int
	createTokens []string
	created      []models.CreateLinkRequest
	catCalls     int
}

func NewMockBackendAPI(password string) *MockBackendAPI {
	return &MockBackendAPI{Password: password}
}

// QueueCreateErrors ответы для следующих CreateLink; nil означает успех
func (m *MockBackendAPI) QueueCreateErrors(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErrs = append(m.createErrs, errs...)
}

// Unauthorized ошибка, которую возвращает бэкенд на просроченный токен
func Unauthorized() error {
	return &apiclient.StatusError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"}
}

func (m *MockBackendAPI) Login(ctx context.Context, password string) (string, error) {
	m.mu.Lock()
	gate := m.LoginGate
	m.loginCalls++
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoginErr != nil {
		return "", m.LoginErr
	}
	if password != m.Password {
		return "", &apiclient.StatusError{StatusCode: http.StatusUnauthorized, Message: "Wrong password"}
	}
	m.issued++
	return fmt.Sprintf("fresh-token-%d", m.issued), nil
}

func (m *MockBackendAPI) CreateLink(ctx context.Context, token string, req models.CreateLinkRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createTokens = append(m.createTokens, token)
	m.created = append(m.created, req)

	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		return err
	}
	return nil
}

func (m *MockBackendAPI) Categories(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.catCalls++
	if m.CategoriesErr != nil {
		return nil, m.CategoriesErr
	}
	return m.CategoryList, nil
}

func (m *MockBackendAPI) LoginCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginCalls
}

func (m *MockBackendAPI) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.created)
}

func (m *MockBackendAPI) CategoryCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catCalls
}

// CreateTokens токены всех вызовов CreateLink по порядку
func (m *MockBackendAPI) CreateTokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.createTokens...)
}

func (m *MockBackendAPI) Created() []models.CreateLinkRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CreateLinkRequest(nil), m.created...)
}
