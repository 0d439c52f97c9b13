// Package errors provides the error handling used by every LegalEase
// endpoint: typed errors carrying an HTTP status, JSON error bodies with
// request ID correlation, and zap logging.
//
// Every error body has the shape
//
//	{"error": "No query provided", "type": "validation_error", "request_id": "..."}
//
// Basic usage:
//
//	errors.WriteError(w, errors.NewValidationError(requestID, "No query provided", nil))
//
// Internal causes are kept for logging through Unwrap and never serialized.
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// DefaultLogger is the package logger. It starts as a production logger
// and can be replaced with SetLogger.
var DefaultLogger *zap.Logger

func init() {
	var err error
	DefaultLogger, err = zap.NewProduction()
	if err != nil {
		DefaultLogger = zap.NewNop()
	}
}

// SetLogger replaces DefaultLogger. A nil logger is ignored.
func SetLogger(logger *zap.Logger) {
	if logger != nil {
		DefaultLogger = logger
	}
}

// ErrorType categorizes failures for clients and metrics.
type ErrorType string

const (
	// ValidationError is missing or invalid client input
	ValidationError ErrorType = "validation_error"

	// ConfigError means the server lacks a usable model client
	ConfigError ErrorType = "config_error"

	// ParseError is a model reply that is not the expected structured data
	ParseError ErrorType = "parse_error"

	// ProviderError is a failed call to the generative model
	ProviderError ErrorType = "provider_error"

	// UnavailableError is returned while the circuit breaker is open
	UnavailableError ErrorType = "unavailable"

	// TimeoutError is a model call that ran past its deadline
	TimeoutError ErrorType = "timeout"

	// InternalError represents unexpected internal server errors
	InternalError ErrorType = "internal_error"
)

// ServiceError is the error type returned by handlers. It serializes to the
// client-facing JSON body and keeps the underlying cause for logs.
type ServiceError struct {
	// Message is the human-readable text shown to the client
	Message string `json:"error"`

	// Type categorizes the error for client handling
	Type ErrorType `json:"type"`

	// RequestID links the error to a specific request
	RequestID string `json:"request_id,omitempty"`

	// Code is the HTTP status code
	Code int `json:"-"`

	err error
}

func (e *ServiceError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ServiceError) Unwrap() error {
	return e.err
}

// Is matches on Type only so callers can test against a template error.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WriteError writes err as a JSON body with its status code. When err has
// no request ID the one already set on the response is used.
func WriteError(w http.ResponseWriter, err *ServiceError) {
	if err.RequestID == "" {
		err.RequestID = w.Header().Get("X-Request-ID")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	if encErr := json.NewEncoder(w).Encode(err); encErr != nil {
		DefaultLogger.Error("failed to encode error response",
			zap.Error(encErr),
			zap.String("request_id", err.RequestID),
		)
	}
}

// Error is a drop-in replacement for http.Error that writes an
// internal_error body.
func Error(w http.ResponseWriter, message string, code int) {
	ErrorWithType(w, message, InternalError, code)
}

// ErrorWithType is like Error but with an explicit type.
func ErrorWithType(w http.ResponseWriter, message string, errType ErrorType, code int) {
	WriteError(w, &ServiceError{
		Type:      errType,
		Message:   message,
		Code:      code,
		RequestID: w.Header().Get("X-Request-ID"),
	})
}
