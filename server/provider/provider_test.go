package provider

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/teilomillet/legalease/config"
)

func TestNewMissingAPIKey(t *testing.T) {
	for _, p := range []string{"gemini", "openai", "anthropic"} {
		_, err := New(context.Background(), config.LLMConfig{Provider: p, Model: "m"})
		assert.ErrorIs(t, err, ErrMissingAPIKey, p)
	}
}

func TestNewMissingAPIKeyNamesEnvVar(t *testing.T) {
	_, err := New(context.Background(), config.LLMConfig{Provider: "gemini", Model: "gemini-1.5-flash"})
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestNewGeminiRejectsEmptyModel(t *testing.T) {
	_, err := NewGemini(context.Background(), "key", "  ")
	assert.Error(t, err)
}

func TestReplyText(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{name: "nil", resp: nil, want: ""},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, want: ""},
		{
			name: "joins text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("Section 8 "), genai.Text("protects privacy.")}},
			}}},
			want: "Section 8 protects privacy.",
		},
		{
			name: "skips empty candidates",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: nil},
				{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}},
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("answer")}}},
			}},
			want: "answer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, replyText(tt.resp))
		})
	}
}
