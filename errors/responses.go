package errors

import (
	"errors"
)

// RequestIDKey is the log and JSON field name for request IDs.
const RequestIDKey = "request_id"

// As is errors.As, re-exported because this package shadows the standard
// library name.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// New is errors.New.
func New(text string) error {
	return errors.New(text)
}
