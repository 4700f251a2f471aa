package service

import (
	"context"
	"fmt"

	"github.com/SergeiKhy/chowlink/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Authenticator получает свежий токен и сохраняет его
type Authenticator interface {
	Login(ctx context.Context) (string, error)
}

// AuthClient логинится фиксированным паролем из конфига.
// Повторов внутри нет: политика повторов на вызывающей стороне.
type AuthClient struct {
	api      BackendAPI
	store    repository.TokenStore
	password string
	logger   *zap.Logger
	group    singleflight.Group
}

func NewAuthClient(api BackendAPI, store repository.TokenStore, password string, logger *zap.Logger) *AuthClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthClient{
		api:      api,
		store:    store,
		password: password,
		logger:   logger,
	}
}

// Login одновременные вызовы в одном процессе делят один запрос к бэкенду.
// Общий запрос не зависит от отмены контекста отдельного вызывающего:
// ограничен таймаутом HTTP-клиента. Отмена ctx прерывает только ожидание.
func (a *AuthClient) Login(ctx context.Context) (string, error) {
	ch := a.group.DoChan("login", func() (any, error) {
		return a.login(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Shared {
			a.logger.Debug("Login request shared between callers")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrAuthentication, ctx.Err())
	}
}

func (a *AuthClient) login(ctx context.Context) (string, error) {
	token, err := a.api.Login(ctx, a.password)
	if err != nil {
		a.logger.Warn("Login failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	// Токен перезаписывается целиком
	if err := a.store.Set(ctx, token); err != nil {
		a.logger.Error("Failed to store token", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	a.logger.Info("Logged in")
	return token, nil
}
