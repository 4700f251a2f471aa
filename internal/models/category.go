package models

// CategoriesResponse ответ GET /api/categories
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
