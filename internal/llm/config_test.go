package llm

import (
	"context"
	"math"
	"testing"
)

func clearKeys(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PATTERNDRILL_LLM_PROVIDER", "PATTERNDRILL_LLM_API_KEY", "PATTERNDRILL_LLM_MODEL", "PATTERNDRILL_LLM_BASE_URL",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("nothing set", func(t *testing.T) {
		clearKeys(t)
		if _, found := ConfigFromEnv(); found {
			t.Fatal("expected no config")
		}
	})
	t.Run("discovery order", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("ANTHROPIC_API_KEY", "a")
		t.Setenv("OPENAI_API_KEY", "o")
		cfg, found := ConfigFromEnv()
		if !found || cfg.Provider != OpenAIBackend || cfg.Backend.APIKey != "o" {
			t.Fatalf("cfg = %+v", cfg)
		}
	})
	t.Run("explicit provider", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("PATTERNDRILL_LLM_PROVIDER", "Anthropic")
		t.Setenv("ANTHROPIC_API_KEY", "a")
		t.Setenv("PATTERNDRILL_LLM_MODEL", "claude-sonnet")
		cfg, found := ConfigFromEnv()
		if !found || cfg.Provider != AnthropicBackend || cfg.Backend.APIKey != "a" || cfg.Backend.Model != "claude-sonnet" {
			t.Fatalf("cfg = %+v", cfg)
		}
	})
	t.Run("explicit key wins", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("PATTERNDRILL_LLM_PROVIDER", "gemini")
		t.Setenv("PATTERNDRILL_LLM_API_KEY", "mine")
		t.Setenv("GEMINI_API_KEY", "shared")
		cfg, _ := ConfigFromEnv()
		if cfg.Backend.APIKey != "mine" {
			t.Fatalf("APIKey = %q", cfg.Backend.APIKey)
		}
	})
}

func TestConfig_WithProvider(t *testing.T) {
	clearKeys(t)
	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("ANTHROPIC_API_KEY", "a")

	cfg, _ := ConfigFromEnv()
	if cfg.Provider != GeminiBackend {
		t.Fatalf("provider = %q, want gemini", cfg.Provider)
	}
	cfg = cfg.WithProvider("ANTHROPIC")
	if cfg.Provider != AnthropicBackend || cfg.Backend.APIKey != "a" {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := cfg.WithProvider(OpenAIBackend).Validate(); err == nil {
		t.Error("openai without a key should not validate")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr bool
	}{
		{Config{Provider: MockBackend}, false},
		{Config{Provider: AnthropicBackend, Backend: BackendConfig{APIKey: "k"}}, false},
		{Config{Provider: OpenRouterBackend}, true},
		{Config{Provider: "claude"}, true},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q) error = %v, wantErr %v", tt.cfg.Provider, err, tt.wantErr)
		}
	}
}

func TestNew_Mock(t *testing.T) {
	p, err := New(context.Background(), DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}
}

func TestNew_OpenRouterDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = OpenRouterBackend
	cfg.Backend.APIKey = "k"
	p, err := New(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "google/gemini-2.0-flash-001" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct{ backend, in, want string }{
		{AnthropicBackend, "claude-haiku", "claude-haiku-4-5-20251001"},
		{AnthropicBackend, "", "claude-haiku-4-5-20251001"},
		{GeminiBackend, "gemini-flash", "gemini-2.0-flash"},
		{OpenAIBackend, "", "gpt-4o-mini"},
		{OpenAIBackend, "gpt-4.1-mini", "gpt-4.1-mini"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.backend, tt.in); got != tt.want {
			t.Errorf("resolveModel(%q, %q) = %q, want %q", tt.backend, tt.in, got, tt.want)
		}
	}
}

func TestLookupCost(t *testing.T) {
	c, found := LookupCost("gpt-4o-mini")
	if !found {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Cost = %v, want 0.75", got)
	}
	if _, found := LookupCost("unknown-model"); found {
		t.Error("unknown model should have no pricing")
	}
}
