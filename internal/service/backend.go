package service

import (
	"context"

	"github.com/SergeiKhy/chowlink/internal/models"
)

// BackendAPI контракт бэкенда, который использует клиент
type BackendAPI interface {
	Login(ctx context.Context, password string) (string, error)
	CreateLink(ctx context.Context, token string, req models.CreateLinkRequest) error
	Categories(ctx context.Context) ([]string, error)
}
