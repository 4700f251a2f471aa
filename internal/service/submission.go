package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeiKhy/chowlink/internal/apiclient"
	"github.com/SergeiKhy/chowlink/internal/models"
	"github.com/SergeiKhy/chowlink/internal/repository"
	"go.uber.org/zap"
)

// SubmissionState шаг отправки формы
type SubmissionState int

const (
	SubmissionIdle SubmissionState = iota
	SubmissionSubmitting
	SubmissionReAuthenticating
	SubmissionRetrying
	SubmissionDone
	SubmissionFailed
)

func (s SubmissionState) String() string {
	switch s {
	case SubmissionIdle:
		return "idle"
	case SubmissionSubmitting:
		return "submitting"
	case SubmissionReAuthenticating:
		return "re-authenticating"
	case SubmissionRetrying:
		return "retrying"
	case SubmissionDone:
		return "done"
	case SubmissionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SessionStatus источник состояния начальной аутентификации
type SessionStatus interface {
	State() SessionState
}

// SubmissionResult итог одной отправки формы
type SubmissionResult struct {
	Slug            string
	RedirectPath    string
	Attempts        int
	ReAuthenticated bool
	Trace           []SubmissionState
}

// LinkSubmitter отправляет форму создания ссылки.
// На 401 один раз логинится заново и один раз повторяет запрос.
type LinkSubmitter struct {
	api       BackendAPI
	store     repository.TokenStore
	auth      Authenticator
	session   SessionStatus
	validator *Validator
	logger    *zap.Logger
}

func NewLinkSubmitter(
	api BackendAPI,
	store repository.TokenStore,
	auth Authenticator,
	session SessionStatus,
	logger *zap.Logger,
) *LinkSubmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkSubmitter{
		api:       api,
		store:     store,
		auth:      auth,
		session:   session,
		validator: NewValidator(),
		logger:    logger,
	}
}

// Submit при успехе возвращает путь страницы деталей; результат возвращается и при ошибке
func (s *LinkSubmitter) Submit(ctx context.Context, input models.LinkSubmission, n Notifier) (*SubmissionResult, error) {
	result := &SubmissionResult{
		Slug:  input.Slug,
		Trace: []SubmissionState{SubmissionIdle},
	}

	// Невалидная форма не доходит до сети
	if err := s.validator.Validate(input); err != nil {
		return result, err
	}

	// Предупреждение не блокирует отправку
	if s.session != nil && s.session.State() == SessionAuthenticating {
		notify(n, models.NotificationWarning, MsgAuthInProgress)
	}

	// Токен может быть устаревшим или отсутствовать
	token, err := s.store.Get(ctx)
	if err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
		s.logger.Warn("Failed to read token, submitting without it", zap.Error(err))
	}

	notify(n, models.NotificationLoading, MsgLoading)

	req := models.CreateLinkRequest{Slug: input.Slug, Link: input.Link}
	state := SubmissionSubmitting
	result.Trace = append(result.Trace, state)

	var lastErr error
	for {
		switch state {
		case SubmissionSubmitting, SubmissionRetrying:
			result.Attempts++
			err := s.api.CreateLink(ctx, token, req)
			switch {
			case err == nil:
				state = SubmissionDone
			case apiclient.IsUnauthorized(err):
				lastErr = fmt.Errorf("%w: %w", ErrSessionExpired, err)
				if result.ReAuthenticated {
					state = SubmissionFailed
				} else {
					state = SubmissionReAuthenticating
				}
			default:
				lastErr = err
				state = SubmissionFailed
			}

		case SubmissionReAuthenticating:
			s.logger.Info("Token rejected, logging in again", zap.String("slug", input.Slug))
			result.ReAuthenticated = true
			fresh, err := s.auth.Login(ctx)
			if err != nil {
				lastErr = err
				state = SubmissionFailed
				break
			}
			token = fresh
			state = SubmissionRetrying

		case SubmissionDone:
			result.RedirectPath = models.DetailPath(input.Slug)
			notify(n, models.NotificationSuccess, MsgLinkCreated)
			s.logger.Info("Link created",
				zap.String("slug", input.Slug),
				zap.Int("attempts", result.Attempts),
			)
			return result, nil

		case SubmissionFailed:
			return result, s.fail(result, lastErr, n)
		}

		result.Trace = append(result.Trace, state)
	}
}

func (s *LinkSubmitter) fail(result *SubmissionResult, cause error, n Notifier) error {
	s.logger.Warn("Link submission failed",
		zap.String("slug", result.Slug),
		zap.Int("attempts", result.Attempts),
		zap.Bool("re_authenticated", result.ReAuthenticated),
		zap.Error(cause),
	)

	// После повторного логина любая ошибка терминальная
	if result.ReAuthenticated {
		notify(n, models.NotificationError, MsgAuthFailed)
		if errors.Is(cause, ErrAuthentication) {
			return cause
		}
		return fmt.Errorf("%w: %w", ErrAuthentication, cause)
	}

	notify(n, models.NotificationError, errorMessage(cause))
	return fmt.Errorf("%w: %w", ErrSubmission, cause)
}

// errorMessage текст бэкенда, если он есть
func errorMessage(err error) string {
	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return MsgSomethingIsWrong
}
