// Package extractor turns uploaded documents into plain text.
//
// Extract never fails: anything that goes wrong, including a panic inside a
// parser, is logged and reported as empty text. The ExtractPDF, ExtractDOCX
// and ExtractText helpers return the underlying error for callers that
// want it.
package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/teilomillet/legalease/server/metrics"
	"go.uber.org/zap"
)

// Format names used in logs and the extraction failure metric.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatText = "text"
)

// Extractor dispatches on the file extension.
type Extractor struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New returns an Extractor. m may be nil.
func New(logger *zap.Logger, m *metrics.Metrics) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger, metrics: m}
}

// FormatOf reports which decoder handles filename. Matching is
// case-insensitive on the last extension.
func FormatOf(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatText
	}
}

// Extract returns the text of content, or "" if it cannot be read.
func (e *Extractor) Extract(filename string, content []byte) (text string) {
	format := FormatOf(filename)

	defer func() {
		if r := recover(); r != nil {
			e.fail(filename, format, fmt.Errorf("panic: %v", r))
			text = ""
		}
	}()

	var err error
	switch format {
	case FormatPDF:
		text, err = ExtractPDF(content)
	case FormatDOCX:
		text, err = ExtractDOCX(content)
	default:
		text, err = ExtractText(content)
	}
	if err != nil {
		e.fail(filename, format, err)
		return ""
	}
	return text
}

func (e *Extractor) fail(filename, format string, err error) {
	e.logger.Warn("failed to read document",
		zap.String("filename", filename),
		zap.String("format", format),
		zap.Error(err),
	)
	if e.metrics != nil {
		e.metrics.ExtractionFailures.WithLabelValues(format).Inc()
	}
}
