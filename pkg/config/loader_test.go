package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
agents:
  - name: greeting_agent
    url: http://localhost:10001
  - name: time_agent
    url: http://localhost:10002
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	require.NoError(t, err)

	require.Len(t, cfg.Agents, 2)
	assert.Equal(t, "greeting_agent", cfg.Agents[0].Name)
	assert.Equal(t, "time_agent", cfg.Agents[1].Name)

	// Defaults
	assert.Equal(t, 5*time.Second, cfg.Router.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Discovery.Timeout)
	assert.Equal(t, 8, cfg.Discovery.Concurrency)
	assert.Equal(t, 120*time.Second, cfg.Dispatch.Timeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.True(t, cfg.Router.LLMEnabled())
	assert.Nil(t, cfg.LLM)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "empty config",
			yaml: "",
		},
		{
			name: "no agents",
			yaml: "server:\n  port: 9000\n",
		},
		{
			name: "agent without name",
			yaml: "agents:\n  - url: http://localhost:10001\n",
		},
		{
			name: "agent without url",
			yaml: "agents:\n  - name: greeting_agent\n",
		},
		{
			name: "duplicate agent names",
			yaml: "agents:\n  - name: a\n    url: http://x\n  - name: a\n    url: http://y\n",
		},
		{
			name: "unknown field",
			yaml: validConfig + "bogus: true\n",
		},
		{
			name: "unsupported llm provider",
			yaml: validConfig + "llm:\n  provider: gemini\n",
		},
		{
			name: "not yaml",
			yaml: "agents: [}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_Durations(t *testing.T) {
	cfg, err := Parse([]byte(validConfig + `
router:
  use_llm: false
  timeout: 2s
discovery:
  timeout: 1m
dispatch:
  timeout: 90s
`))
	require.NoError(t, err)

	assert.False(t, cfg.Router.LLMEnabled())
	assert.Equal(t, 2*time.Second, cfg.Router.Timeout)
	assert.Equal(t, time.Minute, cfg.Discovery.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Dispatch.Timeout)
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("RELAY_TEST_KEY", "sk-secret")
	t.Setenv("RELAY_TEST_URL", "http://localhost:10099")

	cfg, err := Parse([]byte(`
agents:
  - name: remote_agent
    url: ${RELAY_TEST_URL}
llm:
  provider: openai
  api_key: ${RELAY_TEST_KEY}
  model: ${RELAY_TEST_MODEL:-gpt-4o-mini}
`))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:10099", cfg.Agents[0].URL)
	require.NotNil(t, cfg.LLM)
	assert.Equal(t, "sk-secret", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestParse_LLMDefaults(t *testing.T) {
	cfg, err := Parse([]byte(validConfig + "llm:\n  api_key: k\n"))
	require.NoError(t, err)

	require.NotNil(t, cfg.LLM)
	assert.Equal(t, LLMProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 64, cfg.LLM.MaxTokens)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validConfig), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Agents, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
