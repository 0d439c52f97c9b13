// Package handlers implements the LegalEase API endpoints.
//
// Every endpoint follows the same steps: refuse early when no model client
// is configured, decode and validate the request, render one prompt, call
// the model once, and shape its reply. Errors are written with the errors
// package so clients always receive the same JSON body.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/teilomillet/legalease/config"
	"github.com/teilomillet/legalease/errors"
	"github.com/teilomillet/legalease/server/circuitbreaker"
	"github.com/teilomillet/legalease/server/extractor"
	"github.com/teilomillet/legalease/server/metrics"
	"github.com/teilomillet/legalease/server/middleware"
	"github.com/teilomillet/legalease/server/processing"
	"github.com/teilomillet/legalease/server/provider"
	"github.com/teilomillet/legalease/server/validation"
	"go.uber.org/zap"
)

const defaultLanguage = "English"

// Options holds the dependencies of a Handler. Model may be nil, in which
// case every AI endpoint answers with a config_error.
type Options struct {
	Model     provider.Client
	Prompts   *processing.Prompts
	Extractor *extractor.Extractor
	Metrics   *metrics.Metrics
	Documents config.DocumentsConfig
	Logger    *zap.Logger
}

// Handler serves the AI endpoints.
type Handler struct {
	model     provider.Client
	prompts   *processing.Prompts
	parser    *processing.ResponseParser
	extractor *extractor.Extractor
	metrics   *metrics.Metrics
	docs      config.DocumentsConfig
	logger    *zap.Logger
}

// New builds a Handler from opts.
func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ex := opts.Extractor
	if ex == nil {
		ex = extractor.New(logger, opts.Metrics)
	}
	return &Handler{
		model:     opts.Model,
		prompts:   opts.Prompts,
		parser:    processing.NewResponseParser(logger),
		extractor: ex,
		metrics:   opts.Metrics,
		docs:      opts.Documents,
		logger:    logger,
	}
}

// ModelConfigured reports whether a model client was injected.
func (h *Handler) ModelConfigured() bool {
	return h.model != nil
}

// requireModel rejects the request before its body is read when there is
// no model client.
func (h *Handler) requireModel(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.model == nil {
			errors.WriteError(w, errors.NewConfigError(middleware.GetRequestID(r.Context())))
			return
		}
		next(w, r)
	}
}

// decodeBody reads a JSON request into v. missing is the message used when
// a required field is empty.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, missing string) bool {
	requestID := middleware.GetRequestID(r.Context())
	body := http.MaxBytesReader(w, r.Body, h.docs.MaxUploadBytes)

	err := validation.DecodeJSON(body, v)
	if err == nil {
		return true
	}

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		errors.WriteError(w, errors.NewValidationError(requestID, missing, err))
	case errors.Is(err, validation.ErrBodyTooLarge):
		errors.WriteError(w, errors.NewValidationError(requestID, "Request body too large", err))
	default:
		errors.WriteError(w, errors.NewValidationError(requestID, "Invalid request body", err))
	}
	return false
}

// generate renders the named prompt and sends it to the model. On failure
// the error response has already been written.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request, endpoint, name string, data interface{}) (string, bool) {
	requestID := middleware.GetRequestID(r.Context())
	logger := middleware.LoggerFrom(r.Context(), h.logger)

	prompt, err := h.prompts.Render(name, data)
	if err != nil {
		svcErr := errors.NewInternalError(requestID, err)
		errors.LogError(logger, svcErr, requestID)
		errors.WriteError(w, svcErr)
		return "", false
	}

	reply, err := h.model.Generate(provider.WithEndpoint(r.Context(), endpoint), prompt)
	if err != nil {
		svcErr := modelError(requestID, err)
		errors.LogError(logger, svcErr, requestID)
		errors.WriteError(w, svcErr)
		return "", false
	}
	return reply, true
}

// modelError maps a failed model call onto the client-facing taxonomy.
func modelError(requestID string, err error) *errors.ServiceError {
	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return errors.NewUnavailableError(requestID, err)
	case errors.Is(err, provider.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return errors.NewTimeoutError(requestID, err)
	default:
		return errors.NewProviderError(requestID, "Failed to get a response from AI", err)
	}
}

// decodeReply parses a structured model reply into out. message is sent
// to the client when the reply is unusable.
func (h *Handler) decodeReply(w http.ResponseWriter, r *http.Request, endpoint, reply string, out interface{}, message string) bool {
	if h.parser.Decode(reply, out) {
		return true
	}
	if h.metrics != nil {
		h.metrics.ParseFailures.WithLabelValues(endpoint).Inc()
	}
	errors.WriteError(w, errors.NewParseError(middleware.GetRequestID(r.Context()), message))
	return false
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	buf, err := json.Marshal(v)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		svcErr := errors.NewInternalError(requestID, err)
		errors.LogError(middleware.LoggerFrom(r.Context(), h.logger), svcErr, requestID)
		errors.WriteError(w, svcErr)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(buf, '\n'))
}

func languageOr(lang string) string {
	if lang == "" {
		return defaultLanguage
	}
	return lang
}
