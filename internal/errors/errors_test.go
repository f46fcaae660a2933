package errors

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name    string
		err     *AppError
		typ     ErrorType
		code    string
		message string
		context map[string]interface{}
	}{
		{
			name: "validation", err: NewValidationError("La actividad 1 no tiene OTI", cause),
			typ: ErrorTypeValidation, code: "VALIDATION_FAILED", message: "La actividad 1 no tiene OTI",
			context: map[string]interface{}{},
		},
		{
			name: "not found", err: NewNotFoundError("borrador", "d-9"),
			typ: ErrorTypeNotFound, code: "NOT_FOUND", message: "borrador not found: d-9",
			context: map[string]interface{}{"resource": "borrador", "identifier": "d-9"},
		},
		{
			name: "database", err: NewDatabaseError("save shift", cause),
			typ: ErrorTypeDatabase, code: "DATABASE_ERROR", message: "database operation failed: save shift",
			context: map[string]interface{}{"operation": "save shift"},
		},
		{
			name: "invalid input", err: NewInvalidInputError("índice", "0", "debe ser mayor que cero"),
			typ: ErrorTypeInvalidInput, code: "INVALID_INPUT", message: "invalid input for índice: debe ser mayor que cero",
			context: map[string]interface{}{"field": "índice", "value": "0", "reason": "debe ser mayor que cero"},
		},
		{
			name: "timeout", err: NewTimeoutError("GET /api/procesos", "10s"),
			typ: ErrorTypeTimeout, code: "TIMEOUT", message: "operation timed out: GET /api/procesos",
			context: map[string]interface{}{"operation": "GET /api/procesos", "timeout": "10s"},
		},
		{
			name: "conflict", err: NewConflictError("❌ No se puede guardar: duplicado", "HORARIO_DUPLICADO"),
			typ: ErrorTypeConflict, code: "HORARIO_DUPLICADO", message: "❌ No se puede guardar: duplicado",
			context: map[string]interface{}{},
		},
		{
			name: "submission", err: NewSubmissionError("❌ Error al guardar: OTI requerida", 400),
			typ: ErrorTypeSubmission, code: "SUBMISSION_FAILED", message: "❌ Error al guardar: OTI requerida",
			context: map[string]interface{}{"status": 400},
		},
		{
			name: "transport", err: NewTransportError("POST /api/jornadas/completa", cause),
			typ: ErrorTypeTransport, code: "TRANSPORT_ERROR", message: "request failed: POST /api/jornadas/completa",
			context: map[string]interface{}{"operation": "POST /api/jornadas/completa"},
		},
		{
			name: "lookup", err: NewLookupError("procesos", "area-3", cause),
			typ: ErrorTypeLookup, code: "LOOKUP_FAILED", message: "could not load procesos for area-3",
			context: map[string]interface{}{"resource": "procesos", "identifier": "area-3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.typ {
				t.Errorf("type = %v, want %v", tt.err.Type, tt.typ)
			}
			if tt.err.Code != tt.code {
				t.Errorf("code = %v, want %v", tt.err.Code, tt.code)
			}
			if tt.err.Message != tt.message {
				t.Errorf("message = %q, want %q", tt.err.Message, tt.message)
			}
			if !reflect.DeepEqual(tt.err.Context, tt.context) {
				t.Errorf("context = %v, want %v", tt.err.Context, tt.context)
			}
		})
	}
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	inner := NewNotFoundError("jornada", "j-1")
	wrapped := fmt.Errorf("duplicate: %w", inner)

	if !IsAppError(wrapped) {
		t.Fatalf("IsAppError should see through fmt.Errorf wrapping")
	}
	got, ok := AsAppError(wrapped)
	if !ok || got != inner {
		t.Errorf("AsAppError = %v, %v", got, ok)
	}
	if !IsErrorType(wrapped, ErrorTypeNotFound) || IsErrorType(wrapped, ErrorTypeConflict) {
		t.Errorf("IsErrorType mismatch")
	}
	if IsAppError(errors.New("plain")) || IsErrorType(errors.New("plain"), ErrorTypeNotFound) {
		t.Errorf("a plain error is not an AppError")
	}
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"validation", NewValidationError("La hora final debe ser posterior", nil), "La hora final debe ser posterior"},
		{"not found", NewNotFoundError("jornada", "j-1"), "jornada not found: j-1"},
		{"database", NewDatabaseError("query", errors.New("locked")), "Error en la base de datos local. Intenta de nuevo."},
		{"timeout", NewTimeoutError("query", "5s"), "La operación tardó demasiado. Intenta de nuevo."},
		{"conflict", NewConflictError("❌ No se puede guardar: duplicado", "HORARIO_DUPLICADO"), "❌ No se puede guardar: duplicado"},
		{"submission", NewSubmissionError("❌ Error al guardar: fecha", 400), "❌ Error al guardar: fecha"},
		{"transport", NewTransportError("POST /api/jornadas/completa", errors.New("refused")), TransportMessage},
		{"lookup", NewLookupError("maquinas", "a1", nil), "could not load maquinas for a1"},
		{"unknown type", &AppError{Type: ErrorType(42)}, "Error inesperado"},
		{"plain error", errors.New("regular error"), "regular error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetUserMessage(tt.err); got != tt.expected {
				t.Errorf("GetUserMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(NewConflictError("dup", "HORARIO_DUPLICADO")); got != "HORARIO_DUPLICADO" {
		t.Errorf("GetErrorCode() = %v", got)
	}
	if got := GetErrorCode(errors.New("plain")); got != "UNKNOWN_ERROR" {
		t.Errorf("GetErrorCode() = %v, want UNKNOWN_ERROR", got)
	}
}

func TestShouldLogError(t *testing.T) {
	quiet := []error{
		NewValidationError("x", nil),
		NewNotFoundError("borrador", "d-1"),
		NewInvalidInputError("estado", "x", "y"),
		NewConflictError("dup", "HORARIO_DUPLICADO"),
	}
	for _, err := range quiet {
		if ShouldLogError(err) {
			t.Errorf("ShouldLogError(%v) = true, want false", err)
		}
	}

	loud := []error{
		NewDatabaseError("save", nil),
		NewTimeoutError("GET", "1s"),
		NewSubmissionError("rechazada", 500),
		NewTransportError("GET", nil),
		NewLookupError("procesos", "a1", nil),
		errors.New("plain"),
	}
	for _, err := range loud {
		if !ShouldLogError(err) {
			t.Errorf("ShouldLogError(%v) = false, want true", err)
		}
	}
}

func TestLogFields(t *testing.T) {
	err := NewSubmissionError("rechazada", 400).WithContext("draft", "d-3")
	want := []interface{}{"draft", "d-3", "status", 400}
	if got := LogFields(fmt.Errorf("submit: %w", err)); !reflect.DeepEqual(got, want) {
		t.Errorf("LogFields() = %v, want %v", got, want)
	}
	if got := LogFields(errors.New("plain")); got != nil {
		t.Errorf("LogFields(plain) = %v, want nil", got)
	}
}
