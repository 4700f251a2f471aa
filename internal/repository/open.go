package repository

import (
	"context"
	"fmt"

	"github.com/SergeiKhy/chowlink/internal/config"
	"github.com/spf13/afero"
)

// OpenTokenStore выбирает реализацию хранилища по TOKEN_STORE_DRIVER.
// Возвращаемая функция закрывает подключения, открытые для хранилища.
func OpenTokenStore(ctx context.Context, cfg *config.Config) (TokenStore, func(), error) {
	switch cfg.TokenStore.Driver {
	case config.TokenStoreRedis:
		redis, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisTokenStore(redis, cfg.TokenStore.Key), func() { redis.Close() }, nil

	case config.TokenStorePostgres:
		db, err := NewPostgresDB(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		store, err := NewPostgresTokenStore(ctx, db, cfg.TokenStore.Key)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case config.TokenStoreFile:
		return NewFileTokenStore(afero.NewOsFs(), cfg.TokenStore.File, cfg.TokenStore.Key), func() {}, nil

	case config.TokenStoreKeyring:
		return NewKeyringTokenStore(cfg.TokenStore.Key), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownTokenStore, cfg.TokenStore.Driver)
	}
}
