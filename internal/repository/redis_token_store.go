package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisTokenStore struct {
	redis *RedisDB
	key   string
}

// NewRedisTokenStore хранит токен строкой без TTL: истечение токена клиент узнаёт только по 401
func NewRedisTokenStore(redis *RedisDB, key string) TokenStore {
	return &redisTokenStore{redis: redis, key: key}
}

func (s *redisTokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.redis.Client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (s *redisTokenStore) Set(ctx context.Context, token string) error {
	if err := s.redis.Client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}
