// Package config loads and validates Relay configuration.
//
// Configuration is YAML with ${VAR} environment expansion, decoded through
// a SetDefaults/Validate lifecycle. The agent list is ordered: the order
// entries appear in the file is the registration order used for
// deterministic routing defaults and tie-breaking.
package config

import (
	"fmt"
	"time"
)

// LLMProvider identifies the LLM provider type.
type LLMProvider string

const (
	LLMProviderOpenAI    LLMProvider = "openai"
	LLMProviderAnthropic LLMProvider = "anthropic"
)

// Config is the root Relay configuration.
type Config struct {
	// Agents lists the remote agents to discover, in registration order.
	Agents []AgentEntry `yaml:"agents" mapstructure:"agents"`

	// Router configures query routing.
	Router RouterConfig `yaml:"router,omitempty" mapstructure:"router"`

	// LLM configures the model used for routing. Optional; when absent the
	// router runs in fallback-only mode.
	LLM *LLMConfig `yaml:"llm,omitempty" mapstructure:"llm"`

	// Discovery configures agent card fetching.
	Discovery DiscoveryConfig `yaml:"discovery,omitempty" mapstructure:"discovery"`

	// Dispatch configures query forwarding.
	Dispatch DispatchConfig `yaml:"dispatch,omitempty" mapstructure:"dispatch"`

	// Server configures the HTTP server.
	Server ServerConfig `yaml:"server,omitempty" mapstructure:"server"`
}

// AgentEntry pairs a configured agent name with its base URL.
type AgentEntry struct {
	Name string `yaml:"name" mapstructure:"name"`
	URL  string `yaml:"url" mapstructure:"url"`
}

// RouterConfig configures the query router.
type RouterConfig struct {
	// UseLLM enables the model-based routing attempt. Defaults to true.
	UseLLM *bool `yaml:"use_llm,omitempty" mapstructure:"use_llm"`

	// Timeout bounds a single model routing call.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// LLMEnabled reports whether model-based routing is enabled.
func (c *RouterConfig) LLMEnabled() bool {
	return c.UseLLM == nil || *c.UseLLM
}

// LLMConfig configures an LLM provider.
type LLMConfig struct {
	// Provider type (openai, anthropic).
	Provider LLMProvider `yaml:"provider,omitempty" mapstructure:"provider"`

	// Model name (e.g. "gpt-4o-mini", "claude-sonnet-4-20250514").
	Model string `yaml:"model,omitempty" mapstructure:"model"`

	// APIKey for authentication. Supports ${VAR} expansion.
	APIKey string `yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the default API endpoint.
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`

	// MaxTokens limits response length. Routing replies are one token-ish
	// agent names, so the default is small.
	MaxTokens int `yaml:"max_tokens,omitempty" mapstructure:"max_tokens"`

	// Temperature for generation.
	Temperature *float64 `yaml:"temperature,omitempty" mapstructure:"temperature"`
}

// DiscoveryConfig configures agent card fetching.
type DiscoveryConfig struct {
	// Timeout bounds a single agent's card fetch.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`

	// Concurrency limits parallel card fetches. 0 means unbounded.
	Concurrency int `yaml:"concurrency,omitempty" mapstructure:"concurrency"`
}

// DispatchConfig configures query forwarding to agents.
type DispatchConfig struct {
	// Timeout bounds a single dispatch round trip.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host,omitempty" mapstructure:"host"`
	Port int    `yaml:"port,omitempty" mapstructure:"port"`
}

// Address returns the host:port listen address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SetDefaults applies default values.
func (c *Config) SetDefaults() {
	if c.Router.Timeout == 0 {
		c.Router.Timeout = 5 * time.Second
	}
	if c.Discovery.Timeout == 0 {
		c.Discovery.Timeout = 30 * time.Second
	}
	if c.Discovery.Concurrency == 0 {
		c.Discovery.Concurrency = 8
	}
	if c.Dispatch.Timeout == 0 {
		c.Dispatch.Timeout = 120 * time.Second
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}

	if c.LLM != nil {
		if c.LLM.Provider == "" {
			c.LLM.Provider = LLMProviderOpenAI
		}
		if c.LLM.Model == "" {
			switch c.LLM.Provider {
			case LLMProviderOpenAI:
				c.LLM.Model = "gpt-4o-mini"
			case LLMProviderAnthropic:
				c.LLM.Model = "claude-sonnet-4-20250514"
			}
		}
		if c.LLM.MaxTokens == 0 {
			c.LLM.MaxTokens = 64
		}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("at least one agent must be configured")
	}

	seen := make(map[string]bool, len(c.Agents))
	for i, entry := range c.Agents {
		if entry.Name == "" {
			return fmt.Errorf("agents[%d]: name is required", i)
		}
		if entry.URL == "" {
			return fmt.Errorf("agent '%s': url is required", entry.Name)
		}
		if seen[entry.Name] {
			return fmt.Errorf("agent '%s': duplicate name", entry.Name)
		}
		seen[entry.Name] = true
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}

	if c.LLM != nil {
		switch c.LLM.Provider {
		case LLMProviderOpenAI, LLMProviderAnthropic:
		default:
			return fmt.Errorf("unsupported LLM provider: %s (supported: openai, anthropic)", c.LLM.Provider)
		}
	}

	return nil
}
