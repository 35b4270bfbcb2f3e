package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "DB_ERROR",
				Message: "failed to begin transaction",
			},
			expected: "[DB_ERROR] failed to begin transaction",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "customer lookup failed",
			},
			expected: "customer lookup failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection reset by peer")

	err := WrapDatabaseError(cause, "failed to commit transaction")

	var appErr *AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DB_ERROR", appErr.Code)
	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)
}

func TestValidationErrorMessage(t *testing.T) {
	withField := &ValidationError{Field: "postCode", Message: "postCode must be exactly 7 digits"}
	assert.Equal(t, "validation failed for field 'postCode': postCode must be exactly 7 digits", withField.Error())

	withoutField := &ValidationError{Message: "payload rejected"}
	assert.Equal(t, "validation failed: payload rejected", withoutField.Error())
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "username", Message: "username is a required field"},
		{Field: "phoneNumber", Message: "phoneNumber must be 10 or 11 digits"},
	}

	var err error = errs
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: username is a required field; phoneNumber must be 10 or 11 digits", err.Error())

	var target ValidationErrors
	assert.ErrorAs(t, err, &target)
	assert.Len(t, target, 2)
}
