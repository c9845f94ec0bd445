package model

import (
	"errors"
	"fmt"
)

// Сентинельные ошибки доменного слоя. Обработчики переводят их
// в HTTP-статусы, всё остальное считается внутренней ошибкой.
var (
	// ErrNotFound — ссылка, идентификатор или аналитика не найдены.
	ErrNotFound = errors.New("not found")
	// ErrLinkExpired — код существует, но срок действия ссылки истёк.
	ErrLinkExpired = errors.New("link expired")
	// ErrShortCodeTaken — короткий код уже занят (уникальный индекс).
	ErrShortCodeTaken = errors.New("short code already taken")
	// ErrUnauthorized — запрос пришёл без проверенной личности владельца.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError описывает некорректное поле входного запроса.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError создаёт ошибку валидации для поля field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AsValidation возвращает ValidationError, если err им является.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
