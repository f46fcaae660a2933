package errors

import (
	"errors"
	"testing"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  string
	}{
		{ErrorTypeValidation, "validation"},
		{ErrorTypeNotFound, "not_found"},
		{ErrorTypeDatabase, "database"},
		{ErrorTypeInvalidInput, "invalid_input"},
		{ErrorTypeTimeout, "timeout"},
		{ErrorTypeConflict, "conflict"},
		{ErrorTypeSubmission, "submission"},
		{ErrorTypeTransport, "transport"},
		{ErrorTypeLookup, "lookup"},
		{ErrorType(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.errorType.String(); got != tt.expected {
				t.Errorf("ErrorType.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	plain := &AppError{Type: ErrorTypeConflict, Message: "horario duplicado"}
	if got := plain.Error(); got != "conflict: horario duplicado" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := &AppError{Type: ErrorTypeTransport, Message: "request failed: GET /api/procesos", Cause: errors.New("connection refused")}
	want := "transport: request failed: GET /api/procesos (caused by: connection refused)"
	if got := wrapped.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAppError_UnwrapAndIs(t *testing.T) {
	cause := errors.New("disk full")
	err := NewDatabaseError("save shift", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should find the cause")
	}
	if !errors.Is(err, &AppError{Type: ErrorTypeDatabase, Code: "DATABASE_ERROR"}) {
		t.Errorf("errors.Is should match type and code")
	}
	if errors.Is(err, &AppError{Type: ErrorTypeDatabase, Code: "OTHER"}) {
		t.Errorf("errors.Is should not match a different code")
	}
	if err.Is(cause) {
		t.Errorf("Is should not match a non-AppError target")
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrorTypeSubmission, Message: "rechazada"}
	if err.WithContext("draft", "d-1") != err {
		t.Errorf("WithContext should return the same error")
	}
	if err.Context["draft"] != "d-1" {
		t.Errorf("WithContext should set the value on a nil context, got %v", err.Context)
	}
	if !err.IsType(ErrorTypeSubmission) || err.IsType(ErrorTypeConflict) {
		t.Errorf("IsType mismatch for %v", err.Type)
	}
}
