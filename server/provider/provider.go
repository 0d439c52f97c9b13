// Package provider connects LegalEase to the generative model that does
// all of the legal reasoning.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/teilomillet/legalease/config"
)

// Client submits one prompt and returns the model's reply text.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderGemini selects the native Google client. Every other provider
// name is handed to gollm.
const ProviderGemini = "gemini"

// keyless lists providers that run without an API key.
var keyless = map[string]bool{
	"ollama": true,
}

// New builds the client named by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.APIKey == "" && !keyless[name] {
		return nil, fmt.Errorf("%w: set llm.api_key or %s", ErrMissingAPIKey, config.APIKeyEnv(name))
	}

	var (
		client Client
		err    error
	)
	switch name {
	case ProviderGemini:
		client, err = NewGemini(ctx, cfg.APIKey, cfg.Model)
	default:
		client, err = NewGollm(name, cfg.Model, cfg.APIKey)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}
