package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, CodeOf(ErrDealNotFound))
	assert.Equal(t, ErrCodeValidation, CodeOf(NewValidationError("name", "is required")))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("boom")))

	wrapped := fmt.Errorf("usecase: %w", ErrDealNotFound)
	assert.Equal(t, ErrCodeNotFound, CodeOf(wrapped))
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, IsDomainError(ErrDealNotFound, ErrCodeNotFound))
	assert.False(t, IsDomainError(ErrDealNotFound, ErrCodeConflict))
	assert.False(t, IsDomainError(errors.New("boom"), ErrCodeInternal))
}

func TestWrapErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(ErrCodeUnavailable, "store unreachable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "store unreachable")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNewValidationErrorNamesField(t *testing.T) {
	err := NewValidationError("minValue", "must be a decimal number")
	assert.Equal(t, "minValue must be a decimal number", err.Error())
}
