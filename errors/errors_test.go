package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ServiceError
		want string
	}{
		{
			name: "basic error without wrapped error",
			err: &ServiceError{
				Type:    ValidationError,
				Message: "No query provided",
			},
			want: "validation_error: No query provided",
		},
		{
			name: "error with wrapped error",
			err: &ServiceError{
				Type:    ProviderError,
				Message: "Failed to get a response from AI",
				err:     errors.New("quota exceeded"),
			},
			want: "provider_error: Failed to get a response from AI: quota exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ServiceError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServiceError_Is(t *testing.T) {
	err1 := &ServiceError{Type: TimeoutError, Message: "test1"}
	err2 := &ServiceError{Type: TimeoutError, Message: "test2"}
	err3 := &ServiceError{Type: ValidationError, Message: "test3"}

	if !err1.Is(err2) {
		t.Error("Expected err1.Is(err2) to be true for same error type")
	}
	if err1.Is(err3) {
		t.Error("Expected err1.Is(err3) to be false for different error types")
	}

	wrapped := fmt.Errorf("handler: %w", err1)
	if !Is(wrapped, err2) {
		t.Error("Expected wrapped error to match by type")
	}
}

func TestServiceError_Unwrap(t *testing.T) {
	innerErr := errors.New("inner error")
	err := NewInternalError("req", innerErr)

	if unwrapped := err.Unwrap(); unwrapped != innerErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, innerErr)
	}

	var target *ServiceError
	if !As(fmt.Errorf("outer: %w", err), &target) {
		t.Fatal("As should find the ServiceError")
	}
	if target.Type != InternalError {
		t.Errorf("unexpected type %v", target.Type)
	}
}
