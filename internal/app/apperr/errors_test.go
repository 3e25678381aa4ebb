package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorage(t *testing.T) {
	assert.NoError(t, Storage("find project", nil))

	cause := errors.New("connection reset")
	err := Storage("find project", cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "find project")
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "code", Message: "required"},
		{Field: "name", Message: "too long"},
	}}

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation: code: required; name: too long", err.Error())

	var ve *ValidationError
	assert.True(t, errors.As(fmt.Errorf("create spec: %w", err), &ve))
	assert.Len(t, ve.Errors, 2)
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{fmt.Errorf("project 5: %w", ErrNotFoundOrDenied), ErrNotFoundOrDenied},
		{fmt.Errorf("reserve: %w", ErrQuotaExceeded), ErrQuotaExceeded},
		{NewValidationError("email", "required"), ErrValidation},
		{Storage("x", errors.New("boom")), ErrStorage},
		{errors.New("plain"), nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err), tt.err.Error())
	}
}
