package processing

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SimplifyResult is the reply shape of /api/simplify.
type SimplifyResult struct {
	Summary     string            `json:"summary" validate:"required"`
	Definitions map[string]string `json:"definitions"`
}

// Normalize replaces a missing definitions map with an empty one.
func (r *SimplifyResult) Normalize() {
	if r.Definitions == nil {
		r.Definitions = map[string]string{}
	}
}

// Severity levels accepted for a Risk.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

// Risk is one problematic clause found in a document.
type Risk struct {
	Risk     string `json:"risk" validate:"required"`
	Clause   string `json:"clause"`
	Severity string `json:"severity" validate:"oneof=High Medium Low"`
}

// Prediction is the likely outcome and its justification.
type Prediction struct {
	Outcome   string `json:"outcome" validate:"required"`
	Reasoning string `json:"reasoning" validate:"required"`
}

// PredictionResult is the reply shape of /api/predict. An empty risk list
// is valid, a missing one is not.
type PredictionResult struct {
	Risks      []Risk     `json:"risks" validate:"required,dive"`
	Prediction Prediction `json:"prediction"`
}

// Normalize maps severities to their canonical casing.
func (r *PredictionResult) Normalize() {
	for i := range r.Risks {
		s := strings.TrimSpace(r.Risks[i].Severity)
		for _, level := range []string{SeverityHigh, SeverityMedium, SeverityLow} {
			if strings.EqualFold(s, level) {
				s = level
				break
			}
		}
		r.Risks[i].Severity = s
	}
}

// Year is a timeline date. Models emit it as a string or a bare number; it
// is always encoded as a string.
type Year string

func (y *Year) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*y = Year(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("year must be a string or number, got %s", b)
	}
	*y = Year(n.String())
	return nil
}

// TimelineEntry is one dated event in a concept's history.
type TimelineEntry struct {
	Year    Year   `json:"year" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Timeline is the reply shape of /api/timeline. It travels as a bare JSON
// array.
type Timeline struct {
	Entries []TimelineEntry `validate:"required,dive"`
}

func (t *Timeline) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &t.Entries)
}

func (t Timeline) MarshalJSON() ([]byte, error) {
	if t.Entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Entries)
}
