package models

import "net/url"

// LinkSubmission данные формы создания короткой ссылки. Живёт только на время запроса.
type LinkSubmission struct {
	Link string `json:"link" form:"link" validate:"required,shortlink"`
	Slug string `json:"slug" form:"slug" validate:"required,nowhitespace"`
}

// CreateLinkRequest тело POST /api/new
type CreateLinkRequest struct {
	Slug string `json:"slug"`
	Link string `json:"link"`
}

// DetailPath путь страницы с деталями созданной ссылки
func DetailPath(slug string) string {
	return "/" + url.PathEscape(slug) + "/detail"
}
