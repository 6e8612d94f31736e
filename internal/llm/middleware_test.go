package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/patterndrill/internal/store"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

func ok() MockResponse { return MockResponse{Content: json.RawMessage(`{"ok":true}`)} }

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok()}, false, 1},
		{"transient then success", []MockResponse{down(), ok()}, false, 2},
		{"rate limit then success", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, ok()}, false, 2},
		{"all attempts fail", []MockResponse{down(), down(), down(), ok()}, true, 3},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok()}, true, 1},
		{"invalid retried once", []MockResponse{{Err: &ErrInvalidResponse{}}, ok()}, false, 2},
		{"invalid twice gives up", []MockResponse{{Err: &ErrInvalidResponse{}}, {Err: &ErrInvalidResponse{}}, ok()}, true, 2},
		{"canceled not retried", []MockResponse{{Err: context.Canceled}, ok()}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_StopsOnContextCancel(t *testing.T) {
	mock := NewMockProvider(down(), down(), down())
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := p.Generate(ctx, Request{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d", mock.CallCount())
	}
}

func TestRetry_WaitBounds(t *testing.T) {
	r := &retryProvider{cfg: RetryConfig{MaxAttempts: 5, InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}}
	for attempt, base := range []time.Duration{100, 200, 300, 300} {
		base *= time.Millisecond
		got := r.wait(attempt, errors.New("x"))
		lo, hi := time.Duration(float64(base)*0.8), time.Duration(float64(base)*1.2)
		if got < lo || got > hi {
			t.Errorf("wait(%d) = %v, want within [%v, %v]", attempt, got, lo, hi)
		}
	}
	if got := r.wait(0, &ErrRateLimit{RetryAfter: 7 * time.Second}); got != 7*time.Second {
		t.Errorf("RetryAfter not honored: %v", got)
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 5*time.Millisecond)
	if _, err := p.Generate(context.Background(), Request{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if p.ModelID() != "slow" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}
}

// fakeEvents records LLM request events and fails on demand.
type fakeEvents struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	fail   bool
}

func (f *fakeEvents) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("disk full")
	}
	f.events = append(f.events, d)
	return nil
}

func (f *fakeEvents) QueryLLMRequests(context.Context, store.QueryOpts) ([]store.LLMRequestRecord, error) {
	return nil, nil
}

func (f *fakeEvents) AppendCardEvent(context.Context, store.CardEventData) error { return nil }

func (f *fakeEvents) QueryCardEvents(context.Context, store.QueryOpts) ([]store.CardEventRecord, error) {
	return nil, nil
}

func (f *fakeEvents) AppendSessionEvent(context.Context, store.SessionEventData) error { return nil }

func (f *fakeEvents) QuerySessionSummaries(context.Context, store.QueryOpts) ([]store.SessionSummaryRecord, error) {
	return nil, nil
}

func TestRecorder(t *testing.T) {
	repo := &fakeEvents{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: newUsage(12, 8)},
		down(),
	)
	p := WithRecorder(mock, MockBackend, repo, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	ctx := WithPurpose(context.Background(), "explain")

	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 2 {
		t.Fatalf("events = %d", len(repo.events))
	}
	first, second := repo.events[0], repo.events[1]
	if !first.Success || first.InputTokens != 12 || first.OutputTokens != 8 || first.Purpose != "explain" || first.Provider != MockBackend {
		t.Errorf("first event = %+v", first)
	}
	if second.Success || !strings.Contains(second.ErrorMessage, "down") {
		t.Errorf("second event = %+v", second)
	}
}

func TestRecorder_AppendFailureDoesNotFailCall(t *testing.T) {
	var logs bytes.Buffer
	repo := &fakeEvents{fail: true}
	p := WithRecorder(NewMockProvider(ok()), MockBackend, repo, slog.New(slog.NewTextHandler(&logs, nil)))
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(logs.String(), "failed to record llm request") {
		t.Errorf("expected warning, got %q", logs.String())
	}
}

func TestRecorder_NilRepo(t *testing.T) {
	p := WithRecorder(NewMockProvider(ok()), MockBackend, nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatal(err)
	}
}
