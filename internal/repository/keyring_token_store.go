package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "chowlink"

type keyringTokenStore struct {
	user string
}

// NewKeyringTokenStore хранит токен в системном keyring под service "chowlink"
func NewKeyringTokenStore(key string) TokenStore {
	return &keyringTokenStore{user: key}
}

func (s *keyringTokenStore) Get(ctx context.Context) (string, error) {
	token, err := keyring.Get(keyringService, s.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}
	if token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (s *keyringTokenStore) Set(ctx context.Context, token string) error {
	if err := keyring.Set(keyringService, s.user, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}
