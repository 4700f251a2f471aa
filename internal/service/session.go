package service

import (
	"context"
	"errors"
	"sync"

	"github.com/SergeiKhy/chowlink/internal/models"
	"github.com/SergeiKhy/chowlink/internal/repository"
	"go.uber.org/zap"
)

// SessionState состояние начальной аутентификации
type SessionState int

const (
	SessionAuthenticating SessionState = iota
	SessionReady
)

func (s SessionState) String() string {
	switch s {
	case SessionAuthenticating:
		return "authenticating"
	case SessionReady:
		return "ready"
	default:
		return "unknown"
	}
}

// SessionBootstrapper при загрузке страницы проверяет токен и при отсутствии логинится.
// Ready означает только то, что попытка завершилась: валидный токен не гарантирован.
type SessionBootstrapper struct {
	store  repository.TokenStore
	auth   Authenticator
	logger *zap.Logger

	mu        sync.Mutex
	state     SessionState
	done      chan struct{}
	running   bool
	lastErr   error
	notifiers []Notifier
}

func NewSessionBootstrapper(store repository.TokenStore, auth Authenticator, logger *zap.Logger) *SessionBootstrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionBootstrapper{
		store:  store,
		auth:   auth,
		logger: logger,
		state:  SessionAuthenticating,
	}
}

func (b *SessionBootstrapper) State() SessionState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Err результат последней завершённой попытки
func (b *SessionBootstrapper) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Start запускает попытку в фоне. Если попытка уже идёт, возвращает её канал,
// а n тоже получит уведомление о неудаче. Канал закрывается после перехода в Ready.
func (b *SessionBootstrapper) Start(ctx context.Context, n Notifier) <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		b.notifiers = append(b.notifiers, n)
		return b.done
	}

	done := make(chan struct{})
	b.done = done
	b.running = true
	b.state = SessionAuthenticating
	b.notifiers = []Notifier{n}

	go b.run(ctx, done)

	return done
}

// Run синхронная версия Start
func (b *SessionBootstrapper) Run(ctx context.Context, n Notifier) error {
	done := b.Start(ctx, n)
	select {
	case <-done:
		return b.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *SessionBootstrapper) run(ctx context.Context, done chan struct{}) {
	err := b.bootstrap(ctx)

	b.mu.Lock()
	b.lastErr = err
	b.state = SessionReady
	b.running = false
	notifiers := b.notifiers
	b.notifiers = nil
	b.mu.Unlock()

	// Каждый присоединившийся узнаёт о неудаче
	if err != nil {
		for _, n := range notifiers {
			notify(n, models.NotificationError, MsgAutoLoginFailed)
		}
	}

	close(done)
}

func (b *SessionBootstrapper) bootstrap(ctx context.Context) error {
	_, err := b.store.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrTokenNotFound) {
		// Хранилище недоступно: ведём себя так, будто токена нет
		b.logger.Warn("Failed to read token, logging in", zap.Error(err))
	}

	if _, err := b.auth.Login(ctx); err != nil {
		b.logger.Warn("Auto-login failed", zap.Error(err))
		return err
	}

	return nil
}
