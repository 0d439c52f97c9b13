package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/teilomillet/legalease/errors"
	"github.com/teilomillet/legalease/server/middleware"
	"github.com/teilomillet/legalease/server/processing"
	"go.uber.org/zap"
)

// Endpoint names used as metric labels and prompt names.
const (
	EndpointActs        = processing.PromptActs
	EndpointSimplify    = processing.PromptSimplify
	EndpointExplain     = processing.PromptExplain
	EndpointPredict     = processing.PromptPredict
	EndpointDictionary  = processing.PromptDictionary
	EndpointTimeline    = processing.PromptTimeline
	EndpointChat        = processing.PromptChat
	EndpointGeneralChat = processing.PromptGeneralChat
)

// documentField is the multipart field carrying an uploaded document.
const documentField = "document"

type actsRequest struct {
	Query string `json:"query" validate:"required"`
}

type explainRequest struct {
	Concept  string `json:"concept" validate:"required"`
	Language string `json:"language"`
}

type predictRequest struct {
	Text string `json:"text" validate:"required"`
}

type dictionaryRequest struct {
	Term     string `json:"term" validate:"required"`
	Language string `json:"language"`
}

type timelineRequest struct {
	Concept string `json:"concept" validate:"required"`
}

type chatRequest struct {
	Context  string `json:"context" validate:"required"`
	Question string `json:"question" validate:"required"`
}

type generalChatRequest struct {
	Question string `json:"question" validate:"required"`
}

// ExplanationResponse is returned by /api/acts and /api/explain.
type ExplanationResponse struct {
	Explanation string `json:"explanation"`
}

// DefinitionResponse is returned by /api/dictionary.
type DefinitionResponse struct {
	Definition string `json:"definition"`
}

// AnswerResponse is returned by /api/chat and /api/general_chat.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// Mount registers the AI endpoints under /api.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/acts", h.requireModel(h.Acts))
		r.Post("/simplify", h.requireModel(h.Simplify))
		r.Post("/explain", h.requireModel(h.Explain))
		r.Post("/predict", h.requireModel(h.Predict))
		r.Post("/dictionary", h.requireModel(h.Dictionary))
		r.Post("/timeline", h.requireModel(h.Timeline))
		r.Post("/chat", h.requireModel(h.Chat))
		r.Post("/general_chat", h.requireModel(h.GeneralChat))
	})
}

// Acts explains the statute or section named by the query.
func (h *Handler) Acts(w http.ResponseWriter, r *http.Request) {
	var req actsRequest
	if !h.decodeBody(w, r, &req, "No query provided") {
		return
	}
	reply, ok := h.generate(w, r, EndpointActs, processing.PromptActs, processing.ActsData{Query: req.Query})
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, ExplanationResponse{Explanation: reply})
}

// Simplify extracts the text of an uploaded document and returns a plain
// language summary with definitions.
func (h *Handler) Simplify(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	logger := middleware.LoggerFrom(r.Context(), h.logger)

	if r.ContentLength > h.docs.MaxUploadBytes {
		errors.WriteError(w, errors.NewValidationError(requestID, "Document too large", nil))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.docs.MaxUploadBytes)

	file, header, err := r.FormFile(documentField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			errors.WriteError(w, errors.NewValidationError(requestID, "Document too large", err))
			return
		}
		errors.WriteError(w, errors.NewValidationError(requestID, "No document part", err))
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	content, err := io.ReadAll(file)
	if err != nil {
		errors.WriteError(w, errors.NewValidationError(requestID, "Could not read text from document", err))
		return
	}

	text := h.extractor.Extract(header.Filename, content)
	if text == "" {
		errors.WriteError(w, errors.NewValidationError(requestID, "Could not read text from document", nil))
		return
	}
	logger.Debug("document extracted",
		zap.String("filename", header.Filename),
		zap.Int("bytes", len(content)),
		zap.Int("chars", len([]rune(text))),
	)

	data := processing.SimplifyData{Document: processing.Truncate(text, h.docs.AnalysisCharBudget)}
	reply, ok := h.generate(w, r, EndpointSimplify, processing.PromptSimplify, data)
	if !ok {
		return
	}

	var result processing.SimplifyResult
	if !h.decodeReply(w, r, EndpointSimplify, reply, &result, "Failed to get a valid response from AI") {
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// Explain describes a legal concept for a non-lawyer.
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if !h.decodeBody(w, r, &req, "No concept provided") {
		return
	}
	data := processing.ExplainData{Concept: req.Concept, Language: languageOr(req.Language)}
	reply, ok := h.generate(w, r, EndpointExplain, processing.PromptExplain, data)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, ExplanationResponse{Explanation: reply})
}

// Predict lists risky clauses in a text and a likely outcome.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if !h.decodeBody(w, r, &req, "No text provided") {
		return
	}
	data := processing.PredictData{Text: processing.Truncate(req.Text, h.docs.AnalysisCharBudget)}
	reply, ok := h.generate(w, r, EndpointPredict, processing.PromptPredict, data)
	if !ok {
		return
	}

	var result processing.PredictionResult
	if !h.decodeReply(w, r, EndpointPredict, reply, &result, "Failed to get a valid analysis from AI") {
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// Dictionary defines a legal term in one sentence.
func (h *Handler) Dictionary(w http.ResponseWriter, r *http.Request) {
	var req dictionaryRequest
	if !h.decodeBody(w, r, &req, "No term provided") {
		return
	}
	data := processing.DictionaryData{Term: req.Term, Language: languageOr(req.Language)}
	reply, ok := h.generate(w, r, EndpointDictionary, processing.PromptDictionary, data)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, DefinitionResponse{Definition: reply})
}

// Timeline returns the history of a legal concept as a JSON array.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	var req timelineRequest
	if !h.decodeBody(w, r, &req, "No concept provided") {
		return
	}
	reply, ok := h.generate(w, r, EndpointTimeline, processing.PromptTimeline, processing.TimelineData{Concept: req.Concept})
	if !ok {
		return
	}

	var result processing.Timeline
	if !h.decodeReply(w, r, EndpointTimeline, reply, &result, "Failed to get a valid timeline from AI") {
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// Chat answers a question using only the supplied document context.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !h.decodeBody(w, r, &req, "Missing context or question") {
		return
	}
	data := processing.ChatData{
		Context:  processing.Truncate(req.Context, h.docs.ChatCharBudget),
		Question: req.Question,
	}
	reply, ok := h.generate(w, r, EndpointChat, processing.PromptChat, data)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, AnswerResponse{Answer: reply})
}

// GeneralChat answers a free-form question.
func (h *Handler) GeneralChat(w http.ResponseWriter, r *http.Request) {
	var req generalChatRequest
	if !h.decodeBody(w, r, &req, "No question provided") {
		return
	}
	reply, ok := h.generate(w, r, EndpointGeneralChat, processing.PromptGeneralChat, processing.GeneralChatData{Question: req.Question})
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, AnswerResponse{Answer: reply})
}
