// Package validation decodes and validates JSON request bodies and model
// replies with go-playground/validator.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so log fields match the wire format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var (
	// ErrInvalidBody means the body was not a JSON object of the right shape.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrBodyTooLarge means the body exceeded the configured limit.
	ErrBodyTooLarge = errors.New("request body too large")
)

// FieldError describes a single failed constraint.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

// Error is returned when a decoded value violates its validate tags.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+":"+f.Tag)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Struct validates v against its validate tags.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Namespace(), Tag: fe.Tag()})
	}
	return out
}

// DecodeJSON reads a single JSON object from r into v and validates it. It
// returns ErrInvalidBody for malformed input or trailing data,
// ErrBodyTooLarge when r was wrapped by http.MaxBytesReader and tripped, or
// *Error for constraint violations.
func DecodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return decodeError(err)
	}
	// the body must hold exactly one value
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			return fmt.Errorf("%w: trailing data after JSON value", ErrInvalidBody)
		}
		return decodeError(err)
	}
	return Struct(v)
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrBodyTooLarge
	}
	return fmt.Errorf("%w: %v", ErrInvalidBody, err)
}
