package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: newUsage(10, 5)},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp, err := mock.Generate(context.Background(), Prompt("", "first"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"a":1}` || resp.Usage.TotalTokens != 15 || resp.StopReason != StopEnd {
		t.Fatalf("first response = %+v", resp)
	}
	resp, err = mock.Generate(context.Background(), Prompt("", "second"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"b":2}` {
		t.Fatalf("second content = %s", resp.Content)
	}

	calls := mock.Calls()
	if len(calls) != 2 || calls[1].Messages[0].Content != "second" {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"summary":42}`)})
	req := Prompt("", "x")
	req.Schema = testSchema()
	_, err := mock.Generate(context.Background(), req)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestMockProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	if _, err := mock.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("canceled call should not be recorded")
	}
}

func TestPurpose(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Errorf("default purpose = %q", got)
	}
	if got := PurposeFrom(WithPurpose(context.Background(), "explain")); got != "explain" {
		t.Errorf("purpose = %q", got)
	}
}

func TestErrorMessages(t *testing.T) {
	inner := errors.New("boom")
	tests := []struct {
		err  error
		want string
	}{
		{&ErrProviderUnavailable{}, "LLM provider unavailable"},
		{&ErrProviderUnavailable{Err: inner}, "LLM provider unavailable: boom"},
		{&ErrInvalidResponse{Err: inner}, "invalid LLM response: boom"},
		{&ErrMaxTokensExceeded{}, "LLM response truncated: max tokens exceeded"},
	}
	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
		}
	}
	if !errors.Is(&ErrRateLimit{Err: inner}, inner) {
		t.Error("ErrRateLimit should unwrap")
	}
}
