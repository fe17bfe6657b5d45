// Package llms provides the LLM providers used for model-based routing.
//
// Routing needs exactly one capability from a model: turn a composed prompt
// into a short completion. Provider is deliberately that narrow.
package llms

import (
	"context"
	"fmt"

	"github.com/relaymesh/relay/pkg/config"
)

// Provider is a single-prompt LLM completion provider.
type Provider interface {
	// Complete sends the prompt and returns the raw completion text.
	Complete(ctx context.Context, prompt string) (string, error)

	// ModelName returns the configured model identifier.
	ModelName() string
}

// NewFromConfig creates a provider for the configured type.
func NewFromConfig(cfg *config.LLMConfig) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config cannot be nil")
	}

	switch cfg.Provider {
	case config.LLMProviderOpenAI:
		return NewOpenAIProvider(cfg)
	case config.LLMProviderAnthropic:
		return NewAnthropicProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openai, anthropic)", cfg.Provider)
	}
}
