package service

import (
	"errors"
	"strings"
)

// Ошибки сервиса
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrValidation     = errors.New("invalid link submission")
	ErrSubmission     = errors.New("link submission failed")
	ErrSessionExpired = errors.New("session expired")
)

// Тексты уведомлений для пользователя
const (
	MsgLoading          = "Loading..."
	MsgLinkCreated      = "Link successfully shortened"
	MsgAuthInProgress   = "Authentication in progress. Please wait..."
	MsgAutoLoginFailed  = "Auto-login failed. Please try refreshing the page."
	MsgAuthFailed       = "Authentication failed. Please refresh the page and try again."
	MsgSomethingIsWrong = "Something is wrong, please try again"
)

// FieldError ошибка одного поля формы
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError форма не прошла проверку, запрос не отправлялся
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Message сообщение для поля или пустая строка
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}
