package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	inner := errors.New("boom")

	tests := []struct {
		name    string
		err     *ServiceError
		typ     ErrorType
		code    int
		message string
		cause   error
	}{
		{"validation", NewValidationError("r", "No text provided", nil), ValidationError, http.StatusBadRequest, "No text provided", nil},
		{"config", NewConfigError("r"), ConfigError, http.StatusInternalServerError, "AI model not configured", nil},
		{"parse", NewParseError("r", "Failed to get a valid timeline from AI"), ParseError, http.StatusInternalServerError, "Failed to get a valid timeline from AI", nil},
		{"provider", NewProviderError("r", "Failed to get a response from AI", inner), ProviderError, http.StatusBadGateway, "Failed to get a response from AI", inner},
		{"unavailable", NewUnavailableError("r", inner), UnavailableError, http.StatusServiceUnavailable, "AI service temporarily unavailable", inner},
		{"timeout", NewTimeoutError("r", inner), TimeoutError, http.StatusGatewayTimeout, "AI service timed out", inner},
		{"internal", NewInternalError("r", inner), InternalError, http.StatusInternalServerError, "An internal error occurred", inner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.typ {
				t.Errorf("Expected error type %v, got %v", tt.typ, tt.err.Type)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Expected code %v, got %v", tt.code, tt.err.Code)
			}
			if tt.err.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, tt.err.Message)
			}
			if tt.err.RequestID != "r" {
				t.Errorf("Expected requestID r, got %v", tt.err.RequestID)
			}
			if tt.err.Unwrap() != tt.cause {
				t.Errorf("Expected cause %v, got %v", tt.cause, tt.err.Unwrap())
			}
		})
	}
}
