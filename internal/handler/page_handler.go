package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SergeiKhy/chowlink/internal/models"
	"github.com/SergeiKhy/chowlink/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultBootstrapWait сколько страница ждёт фоновый логин перед отрисовкой
const DefaultBootstrapWait = 2 * time.Second

type PageHandler struct {
	session       *service.SessionBootstrapper
	submitter     *service.LinkSubmitter
	categories    *service.CategoryFetcher
	detailBaseURL string
	bootstrapWait time.Duration
	logger        *zap.Logger
}

func NewPageHandler(
	session *service.SessionBootstrapper,
	submitter *service.LinkSubmitter,
	categories *service.CategoryFetcher,
	detailBaseURL string,
	logger *zap.Logger,
) *PageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandler{
		session:       session,
		submitter:     submitter,
		categories:    categories,
		detailBaseURL: detailBaseURL,
		bootstrapWait: DefaultBootstrapWait,
		logger:        logger,
	}
}

// SetBootstrapWait меняет ожидание фонового логина; 0 не ждёт вовсе
func (h *PageHandler) SetBootstrapWait(d time.Duration) {
	h.bootstrapWait = d
}

// formPage данные шаблона index.html
type formPage struct {
	Link          string
	Slug          string
	Errors        map[string]string
	Categories    []string
	Notifications []models.Notification
}

// Index отдаёт форму и запускает проверку токена
func (h *PageHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	notes := &service.Notifications{}

	// Логин не отменяется, если пользователь ушёл со страницы
	done := h.session.Start(context.WithoutCancel(ctx), notes)

	categories := h.categories.Fetch(ctx)

	// Ждём логин недолго, чтобы показать ошибку автологина на этой же странице
	if h.bootstrapWait > 0 {
		timer := time.NewTimer(h.bootstrapWait)
		select {
		case <-done:
		case <-timer.C:
		case <-ctx.Done():
		}
		timer.Stop()
	}

	c.HTML(http.StatusOK, "index.html", formPage{
		Slug:          c.Query("slug"),
		Categories:    categories,
		Notifications: notes.All(),
	})
}

// Submit отправляет форму и перенаправляет на страницу деталей
func (h *PageHandler) Submit(c *gin.Context) {
	var input models.LinkSubmission
	if err := c.ShouldBind(&input); err != nil {
		h.logger.Warn("Invalid form body", zap.Error(err))
	}

	notes := &service.Notifications{}
	result, err := h.submitter.Submit(c.Request.Context(), input, notes)
	if err == nil {
		c.Redirect(http.StatusSeeOther, h.detailBaseURL+result.RedirectPath)
		return
	}

	page := formPage{
		Link:          input.Link,
		Slug:          input.Slug,
		Categories:    []string{},
		Notifications: notes.All(),
	}

	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		page.Errors = make(map[string]string, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			page.Errors[f.Field] = f.Message
		}
		c.HTML(http.StatusUnprocessableEntity, "index.html", page)

	case errors.Is(err, service.ErrAuthentication):
		c.HTML(http.StatusUnauthorized, "index.html", page)

	default:
		c.HTML(http.StatusBadGateway, "index.html", page)
	}
}

// Loading страница-заглушка на время загрузки данных
func (h *PageHandler) Loading(c *gin.Context) {
	c.HTML(http.StatusOK, "loading.html", nil)
}

// HealthCheck проверка живости
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
