package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCategorization(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		category ErrorCategory
		severity ErrorSeverity
	}{
		{ErrCodeMalformedDocument, CategoryPack, SeverityError},
		{ErrCodeUnsupportedSchema, CategoryPack, SeverityError},
		{ErrCodeInvalidPack, CategoryPack, SeverityError},
		{ErrCodeValidation, CategoryValidation, SeverityWarning},
		{ErrCodeNotFound, CategoryService, SeverityInfo},
		{ErrCodeStorageFailure, CategoryStorage, SeverityError},
		{ErrCodeInternalError, CategorySystem, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewAppError(tt.code, "boom")
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
		})
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	base := NotFoundError("project abc")
	wrapped := fmt.Errorf("select: %w", base)

	assert.True(t, IsCode(wrapped, ErrCodeNotFound))
	assert.False(t, IsCode(wrapped, ErrCodeStorageFailure))
	assert.False(t, IsCode(stderrors.New("plain"), ErrCodeNotFound))
	assert.True(t, IsAppError(wrapped))
	assert.Same(t, base, GetAppError(wrapped))
}

func TestGetAppErrorConvertsPlainErrors(t *testing.T) {
	plain := stderrors.New("disk on fire")
	appErr := GetAppError(plain)

	require.NotNil(t, appErr)
	assert.Equal(t, ErrCodeInternalError, appErr.Code)
	assert.ErrorIs(t, appErr, plain)
}

func TestPackErrorMessages(t *testing.T) {
	assert.Equal(t, "Invalid JSON file.", MalformedDocumentError(nil).Message)
	assert.Equal(t, "Unsupported pack schemaVersion. Expected schemaVersion = 1.", UnsupportedSchemaError().Message)

	invalid := InvalidPackError("project.id is required")
	assert.Equal(t, "Invalid pack: missing project fields.", invalid.Message)

	wrongType := PackFieldTypeError("keywords: expected array")
	assert.Equal(t, ErrCodeInvalidPack, wrongType.Code)
	assert.Equal(t, "Invalid pack: project fields have the wrong type.", wrongType.Message)
	assert.Equal(t, "keywords: expected array", wrongType.Details)
	assert.Contains(t, invalid.Error(), "project.id is required")
}

func TestCLIErrorHandler(t *testing.T) {
	h := NewCLIErrorHandler(false, zap.NewNop())

	out := h.HandleError(StorageError("write projects", stderrors.New("read-only fs")))
	require.Error(t, out)
	assert.True(t, strings.HasPrefix(out.Error(), "❌ ERROR: Storage operation failed"))
	assert.NotContains(t, out.Error(), "read-only fs")

	verbose := NewCLIErrorHandler(true, nil)
	msg := verbose.FormatError(InvalidPackError("bad title"))
	assert.Contains(t, msg, "bad title")
}

func TestTUIErrorStyle(t *testing.T) {
	h := NewTUIErrorHandler(true, nil)

	icon, colour := h.GetErrorStyle(ValidationError("keywords"))
	assert.Equal(t, "⚠️", icon)
	assert.Equal(t, "#feca57", colour)

	assert.Equal(t, "Invalid pack: missing project fields.: x", h.FormatError(InvalidPackError("x")))
}
