package service

import (
	"context"

	"go.uber.org/zap"
)

// CategoryFetcher подсказки категорий для формы. Ошибки не показываются пользователю.
type CategoryFetcher struct {
	api    BackendAPI
	logger *zap.Logger
}

func NewCategoryFetcher(api BackendAPI, logger *zap.Logger) *CategoryFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryFetcher{api: api, logger: logger}
}

// Fetch никогда не возвращает nil
func (f *CategoryFetcher) Fetch(ctx context.Context) []string {
	categories, err := f.api.Categories(ctx)
	if err != nil {
		f.logger.Debug("Failed to fetch categories", zap.Error(err))
		return []string{}
	}
	if categories == nil {
		return []string{}
	}
	return categories
}
