package cli

import (
	stderrors "errors"
	"fmt"

	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle prefixes the operator-facing message of err with what failed
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if msg, ok := userMessage(err); ok {
		return fmt.Errorf("no se pudo %s: %s", operation, msg)
	}
	return fmt.Errorf("no se pudo %s: %w", operation, err)
}

// HandleSimple returns only the operator-facing message, for errors that
// already say what went wrong, such as a rejected submission.
func (eh *ErrorHandler) HandleSimple(err error) error {
	if msg, ok := userMessage(err); ok {
		return stderrors.New(msg)
	}
	return err
}

func userMessage(err error) (string, bool) {
	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		return ve.GetUserFriendlyMessage(), true
	}
	if errors.IsAppError(err) {
		return errors.GetUserMessage(err), true
	}
	return "", false
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsConflictError checks if the backend refused a duplicate work schedule
func (eh *ErrorHandler) IsConflictError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeConflict)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
