package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestE(t *testing.T) {
	err := E("op", nil, "test message", http.StatusBadRequest)

	if err.Code != http.StatusBadRequest {
		t.Errorf("expected code %d, got %d", http.StatusBadRequest, err.Code)
	}

	if err.Message != "test message" {
		t.Errorf("expected message 'test message', got '%s'", err.Message)
	}

	if err.Error() != "test message" {
		t.Errorf("expected error string 'test message', got '%s'", err.Error())
	}
}

func TestErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("cause error")
	err := Internal("op", cause, "test message")

	expected := "test message: cause error"
	if err.Error() != expected {
		t.Errorf("expected '%s', got '%s'", expected, err.Error())
	}
	if err.Unwrap() != cause {
		t.Errorf("expected Unwrap to return the cause")
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", InvalidInput("op", nil, "bad"))

	appErr, ok := As(wrapped)
	if !ok {
		t.Fatal("expected to find AppError in chain")
	}
	if appErr.Message != "bad" {
		t.Errorf("expected message 'bad', got '%s'", appErr.Message)
	}

	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Error("expected plain error not to match")
	}
}

func TestCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected int
	}{
		{"invalid input", InvalidInput("op", nil, "m"), http.StatusBadRequest},
		{"method not allowed", MethodNotAllowed("op", "m"), http.StatusMethodNotAllowed},
		{"not found", NotFound("op", "m"), http.StatusNotFound},
		{"resolution failure", ResolutionFailure("op", nil, "m"), http.StatusInternalServerError},
		{"stream failure", StreamFailure("op", nil, "m"), http.StatusInternalServerError},
		{"internal", Internal("op", nil, "m"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.expected {
				t.Errorf("expected code %d, got %d", tt.expected, tt.err.Code)
			}
		})
	}
}
