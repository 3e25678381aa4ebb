// Package apperr - виды ошибок, общие для хранилища, сервисов и транспорта.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel-ошибки для всех слоёв.
var (
	// ErrNotFoundOrDenied - сущности нет или она чужая. Эти случаи не различаются.
	ErrNotFoundOrDenied = errors.New("not found or access denied")
	// ErrQuotaExceeded - счётчик подписки исчерпан.
	ErrQuotaExceeded     = errors.New("limit reached")
	ErrDuplicateKey      = errors.New("already exists")
	ErrConflict          = errors.New("conflict")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrStorage           = errors.New("storage failure")
	ErrValidation        = errors.New("validation error")
)

// Storage оборачивает неожиданную ошибку хранилища. nil остаётся nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// FieldError - ошибка валидации одного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError - список невалидных полей.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError создаёт ValidationError для одного поля.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// Kind возвращает sentinel, к которому относится err, или nil.
func Kind(err error) error {
	for _, k := range []error{
		ErrNotFoundOrDenied,
		ErrQuotaExceeded,
		ErrDuplicateKey,
		ErrConflict,
		ErrUnauthenticated,
		ErrInvalidCredential,
		ErrValidation,
		ErrStorage,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
