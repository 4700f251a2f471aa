package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SergeiKhy/chowlink/internal/service"
	"github.com/SergeiKhy/chowlink/internal/service/mocks"
	"github.com/stretchr/testify/assert"
)

// TestCategoryFetcher_Fetch проверяет получение списка категорий
func TestCategoryFetcher_Fetch(t *testing.T) {
	api := mocks.NewMockBackendAPI("chow")
	api.CategoryList = []string{"blog", "work"}

	categories := service.NewCategoryFetcher(api, nil).Fetch(context.Background())

	assert.Equal(t, []string{"blog", "work"}, categories)
	assert.Equal(t, 1, api.CategoryCalls())
}

// TestCategoryFetcher_Fetch_Error проверяет пустой список при ошибке
func TestCategoryFetcher_Fetch_Error(t *testing.T) {
	api := mocks.NewMockBackendAPI("chow")
	api.CategoriesErr = errors.New("connection refused")

	categories := service.NewCategoryFetcher(api, nil).Fetch(context.Background())

	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

// TestCategoryFetcher_Fetch_Nil проверяет, что отсутствие данных не ошибка
func TestCategoryFetcher_Fetch_Nil(t *testing.T) {
	api := mocks.NewMockBackendAPI("chow")

	categories := service.NewCategoryFetcher(api, nil).Fetch(context.Background())

	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}
