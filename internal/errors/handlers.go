package errors

import (
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) error
	FormatError(err error) string
}

// CLIErrorHandler handles errors for the command line
type CLIErrorHandler struct {
	Verbose bool
	logger  *zap.Logger
}

// NewCLIErrorHandler creates a new CLI error handler. A nil logger disables logging.
func NewCLIErrorHandler(verbose bool, logger *zap.Logger) *CLIErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLIErrorHandler{
		Verbose: verbose,
		logger:  logger,
	}
}

// HandleError logs err and returns an error carrying the terminal message
func (h *CLIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	if h.Verbose {
		fields := []zap.Field{
			zap.String("code", string(appErr.Code)),
			zap.String("severity", string(appErr.Severity)),
			zap.String("category", string(appErr.Category)),
		}
		if appErr.Details != "" {
			fields = append(fields, zap.String("details", appErr.Details))
		}
		if len(appErr.Context) > 0 {
			fields = append(fields, zap.Any("context", appErr.Context))
		}
		for i, cause := 0, appErr.Cause; cause != nil; i, cause = i+1, stderrors.Unwrap(cause) {
			fields = append(fields, zap.String(fmt.Sprintf("cause.%d", i), cause.Error()))
		}
		h.logger.Error(appErr.Message, fields...)
	}

	return stderrors.New(h.FormatError(appErr))
}

// FormatError formats an error for CLI display
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if h.Verbose && appErr.Details != "" {
		message = fmt.Sprintf("%s (%s)", message, appErr.Details)
	}

	switch appErr.Severity {
	case SeverityCritical:
		return fmt.Sprintf("❌ CRITICAL: %s", message)
	case SeverityError:
		return fmt.Sprintf("❌ ERROR: %s", message)
	case SeverityWarning:
		return fmt.Sprintf("⚠️  WARNING: %s", message)
	case SeverityInfo:
		return fmt.Sprintf("ℹ️  INFO: %s", message)
	default:
		return fmt.Sprintf("❌ %s", message)
	}
}

// TUIErrorHandler handles errors for the terminal UI
type TUIErrorHandler struct {
	ShowDetails bool
	logger      *zap.Logger
}

// NewTUIErrorHandler creates a new TUI error handler
func NewTUIErrorHandler(showDetails bool, logger *zap.Logger) *TUIErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TUIErrorHandler{
		ShowDetails: showDetails,
		logger:      logger,
	}
}

// HandleError logs err. The TUI owns the screen so nothing goes to stdout.
func (h *TUIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)
	h.logger.Warn(appErr.Message,
		zap.String("code", string(appErr.Code)),
		zap.String("severity", string(appErr.Severity)),
		zap.Error(appErr.Cause),
	)
	return appErr
}

// FormatError formats an error for the status bar
func (h *TUIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if h.ShowDetails && appErr.Details != "" {
		message = fmt.Sprintf("%s: %s", message, appErr.Details)
	}

	return message
}

// GetErrorStyle returns an icon and a foreground colour for the error's severity
func (h *TUIErrorHandler) GetErrorStyle(err error) (string, string) {
	appErr := GetAppError(err)

	switch appErr.Severity {
	case SeverityCritical:
		return "🔥", "#ff0000"
	case SeverityError:
		return "❌", "#ff6b6b"
	case SeverityWarning:
		return "⚠️", "#feca57"
	case SeverityInfo:
		return "ℹ️", "#48cae4"
	default:
		return "❌", "#ff6b6b"
	}
}
