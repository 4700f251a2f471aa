package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type postgresTokenStore struct {
	db  *PostgresDB
	key string
}

// NewPostgresTokenStore создаёт таблицу app_tokens при необходимости
func NewPostgresTokenStore(ctx context.Context, db *PostgresDB, key string) (TokenStore, error) {
	query := `
		CREATE TABLE IF NOT EXISTS app_tokens (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := db.Pool.Exec(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to create app_tokens table: %w", err)
	}

	return &postgresTokenStore{db: db, key: key}, nil
}

func (s *postgresTokenStore) Get(ctx context.Context) (string, error) {
	query := `SELECT value FROM app_tokens WHERE key = $1`

	var token string
	err := s.db.Pool.QueryRow(ctx, query, s.key).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		return "", ErrTokenNotFound
	}

	return token, nil
}

func (s *postgresTokenStore) Set(ctx context.Context, token string) error {
	query := `
		INSERT INTO app_tokens (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.Pool.Exec(ctx, query, s.key, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	return nil
}
