// Package processing builds prompts for the generative model and turns its
// replies back into structured data.
package processing

import (
	"encoding/json"
	"strings"

	"github.com/teilomillet/legalease/server/validation"
	"go.uber.org/zap"
)

// Normalizer is implemented by reply schemas that canonicalise their
// fields after decoding and before validation.
type Normalizer interface {
	Normalize()
}

// Clean strips surrounding whitespace and every Markdown code fence marker
// from a model reply.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	return strings.ReplaceAll(s, "```", "")
}

// ResponseParser decodes model replies. Failures are logged and reported
// as absent, never returned.
type ResponseParser struct {
	logger *zap.Logger
}

// NewResponseParser returns a parser logging through logger.
func NewResponseParser(logger *zap.Logger) *ResponseParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseParser{logger: logger}
}

// CleanAndParse decodes the cleaned reply into a generic JSON value. ok is
// false when nothing is left after cleaning or the text is not valid JSON.
func (p *ResponseParser) CleanAndParse(raw string) (value interface{}, ok bool) {
	cleaned := Clean(raw)
	if cleaned == "" {
		return nil, false
	}
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		p.logger.Warn("model reply is not valid JSON",
			zap.String("text", cleaned),
			zap.Error(err),
		)
		return nil, false
	}
	return value, true
}

// Decode cleans raw, decodes it into out and validates the result. out
// must be a pointer to a struct.
func (p *ResponseParser) Decode(raw string, out interface{}) bool {
	cleaned := Clean(raw)
	if cleaned == "" {
		return false
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		p.logger.Warn("model reply is not valid JSON",
			zap.String("text", cleaned),
			zap.Error(err),
		)
		return false
	}
	if n, ok := out.(Normalizer); ok {
		n.Normalize()
	}
	if err := validation.Struct(out); err != nil {
		p.logger.Warn("model reply does not match schema",
			zap.String("text", cleaned),
			zap.Error(err),
		)
		return false
	}
	return true
}
