package errors

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if errors.Unwrap(appErr) != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Property"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("validation failed", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad request"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("authentication required"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("access denied"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("already booked"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", errors.New("db down")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("request timed out"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Booking Service"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.HTTPStatus)
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "507f1f77bcf86cd799439011")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.Details["id"] != "507f1f77bcf86cd799439011" {
		t.Errorf("expected id in details, got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Booking" {
		t.Errorf("expected resource 'Booking', got %v", err.Details["resource"])
	}
}

func TestConflictWithDetails(t *testing.T) {
	details := map[string]any{"conflictingBooking": "507f1f77bcf86cd799439011"}
	err := ConflictWithDetails("Property is already booked for the selected dates", details)

	if err.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Details["conflictingBooking"] != "507f1f77bcf86cd799439011" {
		t.Errorf("expected conflicting booking id in details, got %v", err.Details)
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)
	err = err.WithDetails(map[string]any{"field": "email"})

	if err.Details["field"] != "email" {
		t.Errorf("expected field 'email', got %v", err.Details["field"])
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(NotFound("User")) {
		t.Errorf("IsAppError() should return true for AppError")
	}
	if IsAppError(errors.New("regular error")) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("User")
	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	regularErr := errors.New("regular error")
	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	err := NotFoundWithID("User", "12345")
	jsonStr := string(err.ToJSON())

	if !strings.Contains(jsonStr, "NOT_FOUND") {
		t.Errorf("ToJSON() should contain error code")
	}
	if !strings.Contains(jsonStr, "not found") {
		t.Errorf("ToJSON() should contain error message")
	}
}
