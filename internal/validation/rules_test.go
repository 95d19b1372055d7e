package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/durfee/passwords/internal/errors"
)

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{name: "non-empty string", value: "example.com", shouldErr: false},
		{name: "empty string", value: "", shouldErr: true},
		{name: "whitespace only", value: "   \t", shouldErr: true},
		{name: "padded value", value: " x ", shouldErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.value)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("admin"))
	assert.Error(t, NoWhitespace.Validate(" admin"))
	assert.Error(t, NoWhitespace.Validate("admin "))
}

func TestBase64(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		shouldErr bool
	}{
		{name: "valid base64", value: "aHVudGVyMg==", shouldErr: false},
		{name: "empty string allowed", value: "", shouldErr: false},
		{name: "invalid characters", value: "not base64!", shouldErr: true},
		{name: "bad padding", value: "aHVudGVyMg=", shouldErr: true},
		{name: "not a string", value: 42, shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Base64.Validate(tt.value)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(assert.AnError)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
