// Package errors provides the coded application errors shared by the store,
// the pack serializer and both front ends.
//
// Components return *AppError values built with the constructors below. The
// CLI and TUI turn them into terminal output through the handlers in
// handlers.go. Callers match on codes with IsCode rather than on messages.
//
// A missing project ID on update or delete is not an error: those operations
// report it through their boolean result instead.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Pack import errors
	ErrCodeMalformedDocument ErrorCode = "MALFORMED_DOCUMENT"
	ErrCodeUnsupportedSchema ErrorCode = "UNSUPPORTED_SCHEMA"
	ErrCodeInvalidPack       ErrorCode = "INVALID_PACK"

	// Validation errors
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"

	// System errors
	ErrCodeInternalError        ErrorCode = "INTERNAL_ERROR"
	ErrCodeClipboardUnavailable ErrorCode = "CLIPBOARD_UNAVAILABLE"
	ErrCodeInvalidCommand       ErrorCode = "INVALID_COMMAND"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryPack       ErrorCategory = "pack"
	CategoryValidation ErrorCategory = "validation"
	CategoryService    ErrorCategory = "service"
	CategoryStorage    ErrorCategory = "storage"
	CategoryCommand    ErrorCategory = "command"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeMalformedDocument, ErrCodeUnsupportedSchema, ErrCodeInvalidPack:
		return CategoryPack, SeverityError

	case ErrCodeValidation, ErrCodeInvalidInput:
		return CategoryValidation, SeverityWarning

	case ErrCodeNotFound:
		return CategoryService, SeverityInfo

	case ErrCodeStorageFailure:
		return CategoryStorage, SeverityError
	case ErrCodeFileNotFound:
		return CategoryStorage, SeverityInfo

	case ErrCodeInvalidCommand:
		return CategoryCommand, SeverityError
	case ErrCodeClipboardUnavailable:
		return CategorySystem, SeverityWarning
	case ErrCodeInternalError:
		return CategorySystem, SeverityCritical

	default:
		return CategorySystem, SeverityError
	}
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// IsCode reports whether err carries an AppError with the given code
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// Common error constructors for frequently used errors

func MalformedDocumentError(err error) *AppError {
	return Wrap(err, ErrCodeMalformedDocument, "Invalid JSON file.")
}

func UnsupportedSchemaError() *AppError {
	return NewAppError(ErrCodeUnsupportedSchema, "Unsupported pack schemaVersion. Expected schemaVersion = 1.")
}

func InvalidPackError(details string) *AppError {
	return NewAppError(ErrCodeInvalidPack, "Invalid pack: missing project fields.").WithDetails(details)
}

// PackFieldTypeError is an INVALID_PACK whose fields are present but hold the
// wrong kind of value
func PackFieldTypeError(details string) *AppError {
	return NewAppError(ErrCodeInvalidPack, "Invalid pack: project fields have the wrong type.").WithDetails(details)
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func InvalidInputError(message string) *AppError {
	return NewAppError(ErrCodeInvalidInput, message)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func FileNotFoundError(path string, err error) *AppError {
	return Wrap(err, ErrCodeFileNotFound, fmt.Sprintf("File not found: %s", path)).WithContext("path", path)
}

func ClipboardUnavailableError(err error) *AppError {
	return Wrap(err, ErrCodeClipboardUnavailable, "No clipboard utility available")
}

func InvalidCommandError(command string, reason string) *AppError {
	return NewAppError(ErrCodeInvalidCommand, fmt.Sprintf("Invalid command '%s': %s", command, reason))
}
