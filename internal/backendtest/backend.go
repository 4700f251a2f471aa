// Package backendtest provides an in-process fake of the link shortener backend for tests.
package backendtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/SergeiKhy/chowlink/internal/apiclient"
	"github.com/SergeiKhy/chowlink/internal/models"
	"github.com/gin-gonic/gin"
)

// Backend реализует POST /api/login, POST /api/new и GET /api/categories
type Backend struct {
	Server *httptest.Server

	mu               sync.Mutex
	password         string
	tokens           map[string]bool
	issued           int
	calls            map[string]int
	authHeaders      []string
	links            map[string]string
	categories       []string
	categoriesStatus int
	loginStatus      int
	newLinkStatuses  []int
}

// New запускает фейковый бэкенд и закрывает его по окончании теста
func New(t testing.TB, password string) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		password: password,
		tokens:   make(map[string]bool),
		calls:    make(map[string]int),
		links:    make(map[string]string),
	}

	router := gin.New()
	router.Use(b.countCalls())
	router.POST(apiclient.LoginPath, b.login)
	router.POST(apiclient.NewLinkPath, b.requireBearer(), b.newLink)
	router.GET(apiclient.CategoriesPath, b.listCategories)

	b.Server = httptest.NewServer(router)
	t.Cleanup(b.Server.Close)

	return b
}

func (b *Backend) URL() string {
	return b.Server.URL
}

// IssueToken выдаёт валидный токен в обход логина
func (b *Backend) IssueToken() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueLocked()
}

// ExpireTokens делает все выданные токены невалидными
func (b *Backend) ExpireTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[string]bool)
}

// FailLogin заставляет логин отвечать status; 0 возвращает нормальное поведение
func (b *Backend) FailLogin(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loginStatus = status
}

// QueueNewLinkStatus задаёт коды ответа для следующих запросов POST /api/new
func (b *Backend) QueueNewLinkStatus(statuses ...int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.newLinkStatuses = append(b.newLinkStatuses, statuses...)
}

func (b *Backend) SetCategories(categories []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.categories = categories
}

func (b *Backend) FailCategories(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.categoriesStatus = status
}

// Calls количество запросов к path
func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// AuthHeaders заголовки Authorization всех запросов POST /api/new по порядку
func (b *Backend) AuthHeaders() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.authHeaders...)
}

// Link ссылка, сохранённая под slug
func (b *Backend) Link(slug string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	link, ok := b.links[slug]
	return link, ok
}

func (b *Backend) issueLocked() string {
	b.issued++
	token := fmt.Sprintf("token-%d", b.issued)
	b.tokens[token] = true
	return token
}

func (b *Backend) countCalls() gin.HandlerFunc {
	return func(c *gin.Context) {
		b.mu.Lock()
		b.calls[c.Request.URL.Path]++
		if c.Request.URL.Path == apiclient.NewLinkPath {
			b.authHeaders = append(b.authHeaders, c.GetHeader("Authorization"))
		}
		b.mu.Unlock()
		c.Next()
	}
}

func (b *Backend) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Invalid body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loginStatus != 0 {
		c.JSON(b.loginStatus, models.APIError{Message: "Login unavailable"})
		return
	}
	if req.Password != b.password {
		c.JSON(http.StatusUnauthorized, models.APIError{Message: "Wrong password"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{Token: b.issueLocked()})
}

// requireBearer проверяет Authorization: Bearer <token> по списку выданных токенов
func (b *Backend) requireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

		b.mu.Lock()
		valid := token != "" && b.tokens[token]
		b.mu.Unlock()

		if !valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.APIError{Message: "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (b *Backend) newLink(c *gin.Context) {
	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Invalid body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.newLinkStatuses) > 0 {
		status := b.newLinkStatuses[0]
		b.newLinkStatuses = b.newLinkStatuses[1:]
		if status < 200 || status > 299 {
			c.JSON(status, models.APIError{Message: http.StatusText(status)})
			return
		}
	}

	if _, exists := b.links[req.Slug]; exists {
		c.JSON(http.StatusConflict, models.APIError{Message: "Slug already exists"})
		return
	}
	b.links[req.Slug] = req.Link

	c.JSON(http.StatusCreated, gin.H{"slug": req.Slug, "link": req.Link})
}

func (b *Backend) listCategories(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.categoriesStatus != 0 {
		c.JSON(b.categoriesStatus, models.APIError{Message: "Categories unavailable"})
		return
	}

	categories := b.categories
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, models.CategoriesResponse{Categories: categories})
}
