package errors

import (
	"net/http"
)

// NewError creates a ServiceError with full control over its fields.
// Prefer the specialized constructors below.
func NewError(errType ErrorType, message string, code int, requestID string, err error) *ServiceError {
	return &ServiceError{
		Type:      errType,
		Message:   message,
		Code:      code,
		RequestID: requestID,
		err:       err,
	}
}

// NewValidationError reports missing or unusable client input (400).
//
// Example:
//
//	err := NewValidationError(requestID, "No term provided", nil)
func NewValidationError(requestID, message string, err error) *ServiceError {
	return NewError(ValidationError, message, http.StatusBadRequest, requestID, err)
}

// NewConfigError reports that no model client is configured (500).
func NewConfigError(requestID string) *ServiceError {
	return NewError(ConfigError, "AI model not configured", http.StatusInternalServerError, requestID, nil)
}

// NewParseError reports a model reply that could not be decoded into the
// endpoint's schema (500).
func NewParseError(requestID, message string) *ServiceError {
	return NewError(ParseError, message, http.StatusInternalServerError, requestID, nil)
}

// NewProviderError reports a failed model call (502).
func NewProviderError(requestID, message string, err error) *ServiceError {
	return NewError(ProviderError, message, http.StatusBadGateway, requestID, err)
}

// NewUnavailableError is returned while the circuit breaker rejects
// calls (503).
func NewUnavailableError(requestID string, err error) *ServiceError {
	return NewError(UnavailableError, "AI service temporarily unavailable", http.StatusServiceUnavailable, requestID, err)
}

// NewTimeoutError reports a model call that exceeded its deadline (504).
func NewTimeoutError(requestID string, err error) *ServiceError {
	return NewError(TimeoutError, "AI service timed out", http.StatusGatewayTimeout, requestID, err)
}

// NewInternalError covers panics and other unexpected failures (500).
func NewInternalError(requestID string, err error) *ServiceError {
	return NewError(InternalError, "An internal error occurred", http.StatusInternalServerError, requestID, err)
}
