package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/SergeiKhy/chowlink/internal/apiclient"
	"github.com/SergeiKhy/chowlink/internal/handler"
	"github.com/SergeiKhy/chowlink/internal/service"
	"github.com/SergeiKhy/chowlink/internal/service/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const detailBaseURL = "https://chow.link"

type testEnv struct {
	router *gin.Engine
	api    *mocks.MockBackendAPI
	store  *mocks.MockTokenStore
}

// setupRouter собирает веб-клиент поверх мокового бэкенда
func setupRouter(token string) *testEnv {
	gin.SetMode(gin.TestMode)

	api := mocks.NewMockBackendAPI("chow")
	store := mocks.NewMockTokenStore(token)
	auth := service.NewAuthClient(api, store, "chow", nil)
	session := service.NewSessionBootstrapper(store, auth, nil)
	submitter := service.NewLinkSubmitter(api, store, auth, session, nil)
	categories := service.NewCategoryFetcher(api, nil)

	pages := handler.NewPageHandler(session, submitter, categories, detailBaseURL, nil)

	return &testEnv{
		router: handler.NewRouter(pages, nil, nil),
		api:    api,
		store:  store,
	}
}

func (env *testEnv) get(target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, target, nil)
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) submit(link, slug string) *httptest.ResponseRecorder {
	form := url.Values{"link": {link}, "slug": {slug}}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	env.router.ServeHTTP(w, req)
	return w
}

// TestPageHandler_Loading проверяет страницу загрузки
func TestPageHandler_Loading(t *testing.T) {
	env := setupRouter("")

	w := env.get("/loading")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Loading the page. Please wait...")
}

// TestHealthCheck проверяет эндпоинт здоровья
func TestHealthCheck(t *testing.T) {
	env := setupRouter("")

	w := env.get("/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

// TestPageHandler_Index_NoToken проверяет автологин и подсказки категорий
func TestPageHandler_Index_NoToken(t *testing.T) {
	env := setupRouter("")
	env.api.CategoryList = []string{"blog", "docs"}

	w := env.get("/?slug=from-query")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.api.LoginCalls())
	assert.Equal(t, "fresh-token-1", env.store.Token())
	assert.Contains(t, w.Body.String(), `value="from-query"`)
	assert.Contains(t, w.Body.String(), `<option value="blog">`)
	assert.Contains(t, w.Body.String(), `<option value="docs">`)
}

// TestPageHandler_Index_TokenPresent проверяет отсутствие логина при наличии токена
func TestPageHandler_Index_TokenPresent(t *testing.T) {
	env := setupRouter("stored-token")

	w := env.get("/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.api.LoginCalls())
}

// TestPageHandler_Index_AutoLoginFails проверяет уведомление об ошибке автологина
func TestPageHandler_Index_AutoLoginFails(t *testing.T) {
	env := setupRouter("")
	env.api.LoginErr = errors.New("connection refused")
	env.api.CategoriesErr = errors.New("connection refused")

	w := env.get("/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgAutoLoginFailed)
	assert.NotContains(t, w.Body.String(), "<option")
}

// TestPageHandler_Submit_Success проверяет редирект на страницу деталей
func TestPageHandler_Submit_Success(t *testing.T) {
	env := setupRouter("valid-token")

	w := env.submit("https://example.com/page", "ex1")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, detailBaseURL+"/ex1/detail", w.Header().Get("Location"))
	assert.Equal(t, []string{"valid-token"}, env.api.CreateTokens())
}

// TestPageHandler_Submit_Invalid проверяет ошибки валидации без обращения к бэкенду
func TestPageHandler_Submit_Invalid(t *testing.T) {
	env := setupRouter("valid-token")

	w := env.submit("not-a-url", "has space")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Please input a valid link")
	assert.Contains(t, w.Body.String(), "Cannot include whitespace")
	assert.Contains(t, w.Body.String(), `value="not-a-url"`)
	assert.Equal(t, 0, env.api.CreateCalls())
	assert.Equal(t, 0, env.api.LoginCalls())
}

// TestPageHandler_Submit_ExpiredToken проверяет повтор после повторного логина
func TestPageHandler_Submit_ExpiredToken(t *testing.T) {
	env := setupRouter("expired-token")
	env.api.QueueCreateErrors(mocks.Unauthorized(), nil)

	w := env.submit("https://example.com/page", "ex1")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, detailBaseURL+"/ex1/detail", w.Header().Get("Location"))
	assert.Equal(t, []string{"expired-token", "fresh-token-1"}, env.api.CreateTokens())
}

// TestPageHandler_Submit_AuthFailed проверяет терминальную ошибку аутентификации
func TestPageHandler_Submit_AuthFailed(t *testing.T) {
	env := setupRouter("expired-token")
	env.api.QueueCreateErrors(mocks.Unauthorized(), mocks.Unauthorized())

	w := env.submit("https://example.com/page", "ex1")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgAuthFailed)
	assert.Empty(t, w.Header().Get("Location"))
}

// TestPageHandler_Submit_BackendError проверяет общую ошибку бэкенда
func TestPageHandler_Submit_BackendError(t *testing.T) {
	env := setupRouter("valid-token")
	env.api.QueueCreateErrors(&apiclient.StatusError{StatusCode: http.StatusInternalServerError})

	w := env.submit("https://example.com/page", "ex1")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgSomethingIsWrong)
	assert.Equal(t, 1, env.api.CreateCalls())
}
