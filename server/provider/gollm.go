package provider

import (
	"context"
	"fmt"

	"github.com/teilomillet/gollm"
)

// Gollm adapts any provider supported by gollm (openai, anthropic, groq,
// ollama, mistral...).
type Gollm struct {
	llm gollm.LLM
}

// NewGollm creates a gollm-backed client.
func NewGollm(provider, model, apiKey string) (*Gollm, error) {
	llm, err := gollm.NewLLM(
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetAPIKey(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: create client: %w", provider, err)
	}
	return &Gollm{llm: llm}, nil
}

// Generate wraps prompt in a single user message.
func (g *Gollm) Generate(ctx context.Context, prompt string) (string, error) {
	reply, err := g.llm.Generate(ctx, gollm.NewPrompt(prompt))
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}
