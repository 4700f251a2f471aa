package repository

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/SergeiKhy/chowlink/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisDB подключение к Redis для хранилища токена
type RedisDB struct {
	Client *redis.Client
}

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*RedisDB, error) {
	client := redis.NewClient(redisOptions(cfg))

	// Без ответа Redis хранилище бесполезно: не ждём дольше 5 секунд
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", client.Options().Addr, err)
	}

	return &RedisDB{Client: client}, nil
}

// redisOptions одна строка на процесс, большой пул не нужен
func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     4,
		MinIdleConns: 1,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
}

func (db *RedisDB) Close() error {
	return db.Client.Close()
}
