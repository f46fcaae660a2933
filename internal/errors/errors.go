package errors

import (
	"errors"
	"fmt"
	"sort"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Context: map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		},
	}
}

// TransportMessage is shown when the backend could not be reached at all.
const TransportMessage = "❌ Error de conexión: No se pudo conectar con el servidor. Verifica tu conexión a internet."

// NewConflictError reports a request the backend rejected because it
// clashes with existing data, such as a second work-schedule entry on one day.
func NewConflictError(message string, code string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
		Code:    code,
		Context: make(map[string]interface{}),
	}
}

// NewSubmissionError reports any other rejection of a submitted shift.
func NewSubmissionError(message string, status int) *AppError {
	return &AppError{
		Type:    ErrorTypeSubmission,
		Message: message,
		Code:    "SUBMISSION_FAILED",
		Context: map[string]interface{}{
			"status": status,
		},
	}
}

// NewTransportError reports a request that never got a response.
func NewTransportError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeTransport,
		Message: fmt.Sprintf("request failed: %s", operation),
		Code:    "TRANSPORT_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewLookupError reports a failed catalog lookup for one resource.
func NewLookupError(resource string, identifier string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeLookup,
		Message: fmt.Sprintf("could not load %s for %s", resource, identifier),
		Code:    "LOOKUP_FAILED",
		Cause:   cause,
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation:
			return appErr.Message
		case ErrorTypeNotFound:
			return appErr.Message
		case ErrorTypeInvalidInput:
			return appErr.Message
		case ErrorTypeDatabase:
			return "Error en la base de datos local. Intenta de nuevo."
		case ErrorTypeTimeout:
			return "La operación tardó demasiado. Intenta de nuevo."
		case ErrorTypeConflict, ErrorTypeSubmission, ErrorTypeLookup:
			return appErr.Message
		case ErrorTypeTransport:
			return TransportMessage
		default:
			return "Error inesperado"
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeConflict:
			return false // operator mistakes, not system faults
		case ErrorTypeDatabase, ErrorTypeTimeout, ErrorTypeSubmission, ErrorTypeTransport, ErrorTypeLookup:
			return true
		default:
			return true
		}
	}
	return true // Unknown errors should be logged
}

// LogFields flattens the error's context into sorted key/value pairs for
// a structured log call.
func LogFields(err error) []interface{} {
	appErr, ok := AsAppError(err)
	if !ok || len(appErr.Context) == 0 {
		return nil
	}
	keys := make([]string, 0, len(appErr.Context))
	for k := range appErr.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		fields = append(fields, k, appErr.Context[k])
	}
	return fields
}
