package middleware

import (
	"net/http"

	"github.com/teilomillet/legalease/errors"
	"go.uber.org/zap"
)

// Recovery turns panics into a JSON internal_error response.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return errors.ErrorHandler(logger)
}
