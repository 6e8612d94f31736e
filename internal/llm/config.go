package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/abhisek/patterndrill/internal/store"
)

// Backend names.
const (
	AnthropicBackend  = "anthropic"
	OpenAIBackend     = "openai"
	GeminiBackend     = "gemini"
	OpenRouterBackend = "openrouter"
	MockBackend       = "mock"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// Model aliases per backend. Unknown names pass through unchanged.
var modelAliases = map[string]map[string]string{
	AnthropicBackend: {
		"":              "claude-haiku-4-5-20251001",
		"claude-haiku":  "claude-haiku-4-5-20251001",
		"claude-sonnet": "claude-sonnet-4-20250514",
	},
	OpenAIBackend: {
		"": "gpt-4o-mini",
	},
	GeminiBackend: {
		"":             "gemini-2.0-flash",
		"gemini-flash": "gemini-2.0-flash",
		"gemini-pro":   "gemini-2.5-pro",
	},
	OpenRouterBackend: {
		"": "google/gemini-2.0-flash-001",
	},
}

func resolveModel(backend, name string) string {
	if id, ok := modelAliases[backend][name]; ok {
		return id
	}
	return name
}

// BackendConfig is the connection setting of one backend.
type BackendConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config selects a backend and its middleware settings.
type Config struct {
	Provider string
	Backend  BackendConfig
	Retry    RetryConfig
	Timeout  time.Duration // per Generate call, retries included
}

// DefaultConfig returns a mock-backed config with default retry settings.
func DefaultConfig() Config {
	return Config{
		Provider: MockBackend,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// apiKeyEnv lists the well-known key variables in discovery order.
var apiKeyEnv = []struct{ backend, env string }{
	{GeminiBackend, "GEMINI_API_KEY"},
	{OpenAIBackend, "OPENAI_API_KEY"},
	{AnthropicBackend, "ANTHROPIC_API_KEY"},
	{OpenRouterBackend, "OPENROUTER_API_KEY"},
}

// ConfigFromEnv reads PATTERNDRILL_LLM_* variables. When no provider is set it
// falls back to the first well-known API key found. The second result is
// false when no backend could be configured.
func ConfigFromEnv() (Config, bool) {
	cfg := DefaultConfig()
	cfg.Backend.Model = os.Getenv("PATTERNDRILL_LLM_MODEL")
	cfg.Backend.BaseURL = os.Getenv("PATTERNDRILL_LLM_BASE_URL")

	if p := os.Getenv("PATTERNDRILL_LLM_PROVIDER"); p != "" {
		return cfg.WithProvider(p), true
	}
	for _, k := range apiKeyEnv {
		if v := os.Getenv(k.env); v != "" {
			cfg.Provider = k.backend
			cfg.Backend.APIKey = v
			return cfg, true
		}
	}
	return cfg, false
}

// WithProvider switches to the named backend and reads its API key from
// PATTERNDRILL_LLM_API_KEY or the backend's well-known variable.
func (c Config) WithProvider(name string) Config {
	c.Provider = strings.ToLower(name)
	c.Backend.APIKey = os.Getenv("PATTERNDRILL_LLM_API_KEY")
	if c.Backend.APIKey == "" {
		for _, k := range apiKeyEnv {
			if k.backend == c.Provider {
				c.Backend.APIKey = os.Getenv(k.env)
			}
		}
	}
	return c
}

// Validate checks the provider name and that a key is present where needed.
func (c Config) Validate() error {
	switch c.Provider {
	case MockBackend:
		return nil
	case AnthropicBackend, OpenAIBackend, GeminiBackend, OpenRouterBackend:
		if c.Backend.APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider (set PATTERNDRILL_LLM_API_KEY)", c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}

// New builds the configured backend wrapped as caller → timeout → retry →
// recorder → backend. repo may be nil.
func New(ctx context.Context, cfg Config, repo store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case MockBackend:
		base = NewMockProvider()
	case AnthropicBackend:
		base, err = NewAnthropicProvider(cfg.Backend)
	case OpenAIBackend, OpenRouterBackend:
		base, err = NewOpenAIProvider(cfg.Provider, cfg.Backend)
	case GeminiBackend:
		base, err = NewGeminiProvider(ctx, cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithRetry(WithRecorder(base, cfg.Provider, repo, logger), cfg.Retry)
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}
