package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

const (
	tokenDirPerm  os.FileMode = 0o700
	tokenFilePerm os.FileMode = 0o600
)

// fileTokenStore хранит пары ключ -> токен в JSON-файле, как localStorage браузера
type fileTokenStore struct {
	fs   afero.Fs
	path string
	key  string
	mu   sync.Mutex
}

func NewFileTokenStore(fs afero.Fs, path, key string) TokenStore {
	return &fileTokenStore{fs: fs, path: path, key: key}
}

func (s *fileTokenStore) Get(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(entries[s.key])
	if token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (s *fileTokenStore) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	entries[s.key] = token

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal token file: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), tokenDirPerm); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}

	// Пишем во временный файл и переименовываем, чтобы не оставить файл обрезанным
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, tokenFilePerm); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}

	return nil
}

func (s *fileTokenStore) read() (map[string]string, error) {
	entries := make(map[string]string)

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return entries, nil
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token file: %w", err)
	}

	return entries, nil
}
