package handler

import (
	"embed"
	"html/template"

	"github.com/SergeiKhy/chowlink/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func NewRouter(
	pages *PageHandler,
	rateLimiter *middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.SetHTMLTemplate(templates)

	router.GET("/health", HealthCheck)
	router.GET("/loading", pages.Loading)
	router.GET("/", pages.Index)

	// Ограничиваем только отправку формы: она бьёт в бэкенд
	if rateLimiter != nil {
		router.POST("/", rateLimiter.Middleware(), pages.Submit)
	} else {
		router.POST("/", pages.Submit)
	}

	return router
}
