package errors

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// ErrorHandler recovers panics from next and answers with an
// internal_error body. The stack trace is only logged.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					requestID := w.Header().Get("X-Request-ID")
					if requestID == "" {
						requestID = r.Header.Get("X-Request-ID")
					}
					logger.Error("panic recovered",
						zap.Any("error", rec),
						zap.ByteString("stacktrace", debug.Stack()),
						zap.String("request_id", requestID),
						zap.String("path", r.URL.Path),
					)
					WriteError(w, NewInternalError(requestID, nil))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// LogError logs err with its context. Client errors are logged at warn,
// everything else at error.
func LogError(logger *zap.Logger, err error, requestID string) {
	var svcErr *ServiceError
	if As(err, &svcErr) {
		fields := []zap.Field{
			zap.String("error_type", string(svcErr.Type)),
			zap.String("message", svcErr.Message),
			zap.Int("code", svcErr.Code),
			zap.String("request_id", requestID),
		}
		if svcErr.err != nil {
			fields = append(fields, zap.NamedError("cause", svcErr.err))
		}
		if svcErr.Code < http.StatusInternalServerError {
			logger.Warn("request error", fields...)
		} else {
			logger.Error("request error", fields...)
		}
		return
	}
	logger.Error("unexpected error",
		zap.Error(err),
		zap.String("request_id", requestID),
	)
}
