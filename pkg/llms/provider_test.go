package llms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaymesh/relay/pkg/config"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LLMConfig
		wantErr bool
	}{
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: true,
		},
		{
			name: "openai",
			cfg: &config.LLMConfig{
				Provider:  config.LLMProviderOpenAI,
				Model:     "gpt-4o-mini",
				APIKey:    "sk-test",
				MaxTokens: 64,
			},
		},
		{
			name: "anthropic",
			cfg: &config.LLMConfig{
				Provider:  config.LLMProviderAnthropic,
				Model:     "claude-sonnet-4-20250514",
				APIKey:    "sk-test",
				MaxTokens: 64,
			},
		},
		{
			name: "missing api key",
			cfg: &config.LLMConfig{
				Provider: config.LLMProviderOpenAI,
				Model:    "gpt-4o-mini",
			},
			wantErr: true,
		},
		{
			name: "missing model",
			cfg: &config.LLMConfig{
				Provider: config.LLMProviderAnthropic,
				APIKey:   "sk-test",
			},
			wantErr: true,
		},
		{
			name: "unsupported provider",
			cfg: &config.LLMConfig{
				Provider: "gemini",
				Model:    "gemini-pro",
				APIKey:   "k",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewFromConfig(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Model, provider.ModelName())
		})
	}
}
