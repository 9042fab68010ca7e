package errors

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := New(CodeConflict, "Car is already booked", http.StatusConflict)
	if err.Error() != "CONFLICT: Car is already booked" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestAppError_ErrorWithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, CodeInternal, "Failed to store booking", http.StatusInternalServerError)

	if !strings.Contains(err.Error(), "caused by: disk full") {
		t.Errorf("expected the cause in the message, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to unwrap")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Car"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Car", 99), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("date is required", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad payload"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("range taken"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("request timed out"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("storage"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Car", 99)
	if err.Details["resource"] != "Car" || err.Details["id"] != 99 {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestWithDetails(t *testing.T) {
	err := Conflict("range taken").WithDetails(map[string]any{"car_id": 1})
	if err.Details["car_id"] != 1 {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(NotFound("Car")) {
		t.Error("expected true for an AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("expected false for a plain error")
	}
}

func TestAsAppError(t *testing.T) {
	original := Conflict("range taken")
	if got := AsAppError(original); got != original {
		t.Error("expected the original AppError back")
	}

	converted := AsAppError(errors.New("plain"))
	if converted.Code != CodeInternal {
		t.Errorf("expected plain errors to convert to %s, got %s", CodeInternal, converted.Code)
	}
	if converted.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("unexpected status %d", converted.HTTPStatus)
	}
}
