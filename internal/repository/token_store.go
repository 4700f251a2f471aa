package repository

import (
	"context"
	"errors"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenStore постоянное хранилище одного bearer-токена под фиксированным ключом.
// Set всегда перезаписывает значение целиком.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
}
