package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/genai"
)

func serve(t *testing.T, status int, body any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

const explainJSON = `{"summary":"give takes a person and a thing","trap":"me is an object, not a complement"}`

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func anthropicError(kind string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": kind}}
}

func TestAnthropicProvider(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		check   func(error) bool
		wantOut int
	}{
		{"ok", 200, anthropicMessage(explainJSON, "end_turn"), func(err error) bool { return err == nil }, 30},
		{"rate limit", 429, anthropicError("rate_limit_error"), func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}, 0},
		{"server error", 500, anthropicError("api_error"), func(err error) bool {
			var u *ErrProviderUnavailable
			return errors.As(err, &u)
		}, 0},
		{"truncated", 200, anthropicMessage(`{"summary":"giv`, "max_tokens"), func(err error) bool {
			var mt *ErrMaxTokensExceeded
			return errors.As(err, &mt)
		}, 0},
		{"schema mismatch", 200, anthropicMessage(`{"trap":"x"}`, "end_turn"), func(err error) bool {
			var inv *ErrInvalidResponse
			return errors.As(err, &inv)
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewAnthropicProvider(BackendConfig{APIKey: "test-key", BaseURL: serve(t, tt.status, tt.body)})
			if err != nil {
				t.Fatal(err)
			}
			req := Prompt("You explain English sentence patterns.", "Explain: He gave me a book.")
			req.MaxTokens = 256
			req.Schema = testSchema()
			resp, err := p.Generate(context.Background(), req)
			if !tt.check(err) {
				t.Fatalf("unexpected error: %T %v", err, err)
			}
			if err == nil && resp.Usage.OutputTokens != tt.wantOut {
				t.Errorf("output tokens = %d", resp.Usage.OutputTokens)
			}
		})
	}
}

func openAICompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func openAIError() map[string]any {
	return map[string]any{"error": map[string]any{"message": "nope", "type": "server_error"}}
}

func TestOpenAIProvider(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		check  func(error) bool
	}{
		{"ok", 200, openAICompletion(explainJSON, "stop"), func(err error) bool { return err == nil }},
		{"rate limit", 429, openAIError(), func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"server error", 503, openAIError(), func(err error) bool {
			var u *ErrProviderUnavailable
			return errors.As(err, &u)
		}},
		{"truncated", 200, openAICompletion(`{"sum`, "length"), func(err error) bool {
			var mt *ErrMaxTokensExceeded
			return errors.As(err, &mt)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenAIProvider(OpenAIBackend, BackendConfig{APIKey: "test-key", BaseURL: serve(t, tt.status, tt.body) + "/v1"})
			if err != nil {
				t.Fatal(err)
			}
			req := Prompt("sys", "user")
			req.Schema = testSchema()
			resp, err := p.Generate(context.Background(), req)
			if !tt.check(err) {
				t.Fatalf("unexpected error: %T %v", err, err)
			}
			if err == nil && (resp.Usage.InputTokens != 40 || resp.Usage.TotalTokens != 65) {
				t.Errorf("usage = %+v", resp.Usage)
			}
		})
	}
}

func TestNewProviders_RequireKey(t *testing.T) {
	if _, err := NewAnthropicProvider(BackendConfig{}); err == nil {
		t.Error("anthropic without key should fail")
	}
	if _, err := NewOpenAIProvider(OpenRouterBackend, BackendConfig{}); err == nil {
		t.Error("openrouter without key should fail")
	}
	if _, err := NewGeminiProvider(context.Background(), BackendConfig{}); err == nil {
		t.Error("gemini without key should fail")
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(testSchema().Definition)
	if s.Type != genai.TypeObject {
		t.Fatalf("Type = %v", s.Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "summary" {
		t.Errorf("Required = %v", s.Required)
	}
	p := s.Properties["pattern"]
	if p == nil || p.Type != genai.TypeString || len(p.Enum) != 5 {
		t.Errorf("pattern property = %+v", p)
	}

	arr := geminiSchema(map[string]any{"type": "array", "items": map[string]any{"type": "integer"}, "required": []string{"x"}})
	if arr.Type != genai.TypeArray || arr.Items.Type != genai.TypeInteger || arr.Required[0] != "x" {
		t.Errorf("array schema = %+v", arr)
	}
}
