package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/SergeiKhy/chowlink/internal/apiclient"
	"github.com/SergeiKhy/chowlink/internal/models"
	"github.com/SergeiKhy/chowlink/internal/service"
	"github.com/SergeiKhy/chowlink/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession service.SessionState

func (s stubSession) State() service.SessionState { return service.SessionState(s) }

// setupSubmitter создаёт отправщик формы с моковым бэкендом и хранилищем
func setupSubmitter(token string) (*service.LinkSubmitter, *mocks.MockBackendAPI, *mocks.MockTokenStore) {
	api := mocks.NewMockBackendAPI("chow")
	store := mocks.NewMockTokenStore(token)
	auth := service.NewAuthClient(api, store, "chow", nil)
	submitter := service.NewLinkSubmitter(api, store, auth, stubSession(service.SessionReady), nil)
	return submitter, api, store
}

// TestLinkSubmitter_Submit_Success проверяет отправку с валидным токеном
func TestLinkSubmitter_Submit_Success(t *testing.T) {
	submitter, api, _ := setupSubmitter("valid-token")
	notes := &service.Notifications{}

	result, err := submitter.Submit(context.Background(), models.LinkSubmission{
		Link: "https://example.com/page",
		Slug: "ex1",
	}, notes)

	require.NoError(t, err)
	assert.Equal(t, "/ex1/detail", result.RedirectPath)
	assert.Equal(t, 1, result.Attempts)
	assert.False(t, result.ReAuthenticated)
	assert.Equal(t, []string{"valid-token"}, api.CreateTokens())
	assert.Equal(t, []models.CreateLinkRequest{{Slug: "ex1", Link: "https://example.com/page"}}, api.Created())
	assert.Equal(t, 0, api.LoginCalls())
	assert.Equal(t, []service.SubmissionState{
		service.SubmissionIdle,
		service.SubmissionSubmitting,
		service.SubmissionDone,
	}, result.Trace)
	assert.Equal(t, []models.Notification{
		{Level: models.NotificationLoading, Message: service.MsgLoading},
		{Level: models.NotificationSuccess, Message: service.MsgLinkCreated},
	}, notes.All())
}

// TestLinkSubmitter_Submit_AfterBootstrap проверяет сценарий без токена: сначала логин, затем создание
func TestLinkSubmitter_Submit_AfterBootstrap(t *testing.T) {
	api := mocks.NewMockBackendAPI("chow")
	store := mocks.NewMockTokenStore("")
	auth := service.NewAuthClient(api, store, "chow", nil)
	session := service.NewSessionBootstrapper(store, auth, nil)
	submitter := service.NewLinkSubmitter(api, store, auth, session, nil)

	require.NoError(t, session.Run(context.Background(), service.Discard))

	result, err := submitter.Submit(context.Background(), models.LinkSubmission{
		Link: "ftp://files.example.com/a",
		Slug: "files",
	}, service.Discard)

	require.NoError(t, err)
	assert.Equal(t, "/files/detail", result.RedirectPath)
	assert.Equal(t, 1, api.LoginCalls())
	assert.Equal(t, []string{"fresh-token-1"}, api.CreateTokens())
}

// TestLinkSubmitter_Submit_ValidationBlocksNetwork проверяет, что невалидная форма не отправляется
func TestLinkSubmitter_Submit_ValidationBlocksNetwork(t *testing.T) {
	inputs := []models.LinkSubmission{
		{Link: "not-a-url", Slug: "x"},
		{Link: "https://example.com", Slug: "with space"},
		{Link: "", Slug: "x"},
		{Link: "https://example.com", Slug: ""},
	}

	for _, input := range inputs {
		submitter, api, _ := setupSubmitter("valid-token")
		notes := &service.Notifications{}

		result, err := submitter.Submit(context.Background(), input, notes)

		assert.ErrorIs(t, err, service.ErrValidation, "input %+v", input)
		assert.Empty(t, result.RedirectPath)
		assert.Equal(t, 0, api.CreateCalls())
		assert.Equal(t, 0, api.LoginCalls())
		assert.Empty(t, notes.All())
	}
}

// TestLinkSubmitter_Submit_ReAuthRetry проверяет один повторный логин и один повтор на 401
func TestLinkSubmitter_Submit_ReAuthRetry(t *testing.T) {
	submitter, api, store := setupSubmitter("expired-token")
	api.QueueCreateErrors(mocks.Unauthorized(), nil)
	notes := &service.Notifications{}

	result, err := submitter.Submit(context.Background(), models.LinkSubmission{
		Link: "https://example.com/page",
		Slug: "ex1",
	}, notes)

	require.NoError(t, err)
	assert.Equal(t, "/ex1/detail", result.RedirectPath)
	assert.True(t, result.ReAuthenticated)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 1, api.LoginCalls())
	assert.Equal(t, []string{"expired-token", "fresh-token-1"}, api.CreateTokens())
	assert.Equal(t, "fresh-token-1", store.Token())
	assert.Equal(t, []service.SubmissionState{
		service.SubmissionIdle,
		service.SubmissionSubmitting,
		service.SubmissionReAuthenticating,
		service.SubmissionRetrying,
		service.SubmissionDone,
	}, result.Trace)
	assert.Equal(t, []models.NotificationLevel{
		models.NotificationLoading,
		models.NotificationSuccess,
	}, notes.Levels())
}

// TestLinkSubmitter_Submit_RetryFails проверяет терминальную ошибку, если повтор тоже упал
func TestLinkSubmitter_Submit_RetryFails(t *testing.T) {
	retryErrors := []error{
		mocks.Unauthorized(),
		&apiclient.StatusError{StatusCode: http.StatusInternalServerError},
	}

	for _, retryErr := range retryErrors {
		submitter, api, _ := setupSubmitter("expired-token")
		api.QueueCreateErrors(mocks.Unauthorized(), retryErr)
		notes := &service.Notifications{}

		result, err := submitter.Submit(context.Background(), models.LinkSubmission{
			Link: "https://example.com/page",
			Slug: "ex1",
		}, notes)

		assert.ErrorIs(t, err, service.ErrAuthentication)
		assert.Empty(t, result.RedirectPath)
		assert.Equal(t, 2, api.CreateCalls())
		assert.Equal(t, 1, api.LoginCalls())
		assert.Equal(t, service.SubmissionFailed, result.Trace[len(result.Trace)-1])

		all := notes.All()
		require.NotEmpty(t, all)
		assert.Equal(t, models.Notification{Level: models.NotificationError, Message: service.MsgAuthFailed}, all[len(all)-1])
	}
}

// TestLinkSubmitter_Submit_ReLoginFails проверяет, что без нового токена повтора нет
func TestLinkSubmitter_Submit_ReLoginFails(t *testing.T) {
	submitter, api, _ := setupSubmitter("expired-token")
	api.QueueCreateErrors(mocks.Unauthorized())
	api.LoginErr = errors.New("backend down")
	notes := &service.Notifications{}

	result, err := submitter.Submit(context.Background(), models.LinkSubmission{
		Link: "https://example.com/page",
		Slug: "ex1",
	}, notes)

	assert.ErrorIs(t, err, service.ErrAuthentication)
	assert.Empty(t, result.RedirectPath)
	assert.Equal(t, 1, api.CreateCalls())
	assert.Equal(t, 1, api.LoginCalls())
	assert.Equal(t, []service.SubmissionState{
		service.SubmissionIdle,
		service.SubmissionSubmitting,
		service.SubmissionReAuthenticating,
		service.SubmissionFailed,
	}, result.Trace)
}

// TestLinkSubmitter_Submit_OtherError проверяет отсутствие повтора для ошибок кроме 401
func TestLinkSubmitter_Submit_OtherError(t *testing.T) {
	submitter, api, _ := setupSubmitter("valid-token")
	api.QueueCreateErrors(&apiclient.StatusError{StatusCode: http.StatusConflict, Message: "Slug already exists"})
	notes := &service.Notifications{}

	result, err := submitter.Submit(context.Background(), models.LinkSubmission{
		Link: "https://example.com/page",
		Slug: "taken",
	}, notes)

	assert.ErrorIs(t, err, service.ErrSubmission)
	assert.NotErrorIs(t, err, service.ErrAuthentication)
	assert.Empty(t, result.RedirectPath)
	assert.Equal(t, 1, api.CreateCalls())
	assert.Equal(t, 0, api.LoginCalls())

	all := notes.All()
	require.NotEmpty(t, all)
	assert.Equal(t, models.Notification{Level: models.NotificationError, Message: "Slug already exists"}, all[len(all)-1])
}

// TestLinkSubmitter_Submit_NetworkError проверяет общее сообщение для сетевой ошибки
func TestLinkSubmitter_Submit_NetworkError(t *testing.T) {
	submitter, api, _ := setupSubmitter("valid-token")
	api.QueueCreateErrors(errors.New("dial tcp: connection refused"))
	notes := &service.Notifications{}

	_, err := submitter.Submit(context.Background(), models.LinkSubmission{
		Link: "https://example.com/page",
		Slug: "ex1",
	}, notes)

	assert.ErrorIs(t, err, service.ErrSubmission)
	assert.Equal(t, 0, api.LoginCalls())

	all := notes.All()
	require.NotEmpty(t, all)
	assert.Equal(t, service.MsgSomethingIsWrong, all[len(all)-1].Message)
}

// TestLinkSubmitter_Submit_WhileAuthenticating проверяет предупреждение, которое не блокирует отправку
func TestLinkSubmitter_Submit_WhileAuthenticating(t *testing.T) {
	api := mocks.NewMockBackendAPI("chow")
	store := mocks.NewMockTokenStore("")
	auth := service.NewAuthClient(api, store, "chow", nil)
	submitter := service.NewLinkSubmitter(api, store, auth, stubSession(service.SessionAuthenticating), nil)
	notes := &service.Notifications{}

	_, err := submitter.Submit(context.Background(), models.LinkSubmission{
		Link: "https://example.com/page",
		Slug: "ex1",
	}, notes)

	// Токена нет: запрос уходит с пустым bearer, мок его принимает
	require.NoError(t, err)
	assert.Equal(t, []string{""}, api.CreateTokens())

	all := notes.All()
	require.NotEmpty(t, all)
	assert.Equal(t, models.Notification{Level: models.NotificationWarning, Message: service.MsgAuthInProgress}, all[0])
}

// TestLinkSubmitter_Submit_UsesCurrentToken проверяет, что каждая отправка читает токен заново
func TestLinkSubmitter_Submit_UsesCurrentToken(t *testing.T) {
	submitter, api, store := setupSubmitter("first-token")
	ctx := context.Background()

	_, err := submitter.Submit(ctx, models.LinkSubmission{Link: "https://example.com/a", Slug: "a"}, service.Discard)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "second-token"))

	_, err = submitter.Submit(ctx, models.LinkSubmission{Link: "https://example.com/b", Slug: "b"}, service.Discard)
	require.NoError(t, err)

	assert.Equal(t, []string{"first-token", "second-token"}, api.CreateTokens())
}
