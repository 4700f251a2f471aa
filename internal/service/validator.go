package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/SergeiKhy/chowlink/internal/models"
	"github.com/go-playground/validator/v10"
)

// Ссылка должна начинаться с http(s):// или (s)ftp(s):// и содержать хост с точкой
var linkPattern = regexp.MustCompile(`^(?:https?://|s?ftps?://)[A-Za-z0-9_-]+\.+[A-Za-z0-9./%#*&=?_:;-]+$`)

// Сообщения по паре поле/тег
var fieldMessages = map[string]string{
	"link.required":     "Link must be filled",
	"link.shortlink":    "Please input a valid link",
	"slug.required":     "Slug must be filled",
	"slug.nowhitespace": "Cannot include whitespace",
}

// Validator проверяет форму до отправки запроса
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// В ошибках используем имена полей из json
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("shortlink", func(fl validator.FieldLevel) bool {
		return linkPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) == -1
	})

	return &Validator{validate: v}
}

// Validate возвращает *ValidationError или nil
func (v *Validator) Validate(input models.LinkSubmission) error {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	result := &ValidationError{}
	for _, fe := range validationErrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		result.Fields = append(result.Fields, FieldError{Field: fe.Field(), Message: msg})
	}

	return result
}
