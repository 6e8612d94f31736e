package attempt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/pattern"
)

func TestNew(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name          string
		id            string
		chosen        pattern.Pattern
		correct       pattern.Pattern
		latency       int
		wantErr       bool
		wantIsCorrect bool
	}{
		{"correct", "q1", pattern.SVO, pattern.SVO, 1200, false, true},
		{"incorrect", "q1", pattern.SVC, pattern.SVO, 900, false, false},
		{"zero latency", "q1", pattern.SV, pattern.SV, 0, false, true},
		{"negative latency", "q1", pattern.SV, pattern.SV, -1, true, false},
		{"missing id", "", pattern.SV, pattern.SV, 10, true, false},
		{"correct out of range", "q1", pattern.SV, pattern.Pattern(9), 10, true, false},
		{"correct is sentinel", "q1", pattern.SV, pattern.None, 10, true, false},
		{"chosen out of range", "q1", pattern.Pattern(6), pattern.SV, 10, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.id, tt.chosen, tt.correct, tt.latency, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("expected *ValidationError, got %T", err)
				}
				return
			}
			if a.IsCorrect != tt.wantIsCorrect {
				t.Errorf("IsCorrect = %v, want %v", a.IsCorrect, tt.wantIsCorrect)
			}
			if !a.Valid() {
				t.Error("constructed attempt should be Valid()")
			}
			if !a.Timestamp.Equal(now) {
				t.Errorf("Timestamp = %v, want %v", a.Timestamp, now)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	s, err := catalog.NewStimulus("q9", "Let me go.", 4, pattern.SVOC, nil, catalog.Explanation{Summary: "svoc"})
	if err != nil {
		t.Fatal(err)
	}
	a := Timeout(s, 20*time.Second, time.Now())
	if a.IsCorrect {
		t.Error("timeout must never be correct")
	}
	if !a.TimedOut() {
		t.Error("TimedOut() = false")
	}
	if a.LatencyMs != 20000 {
		t.Errorf("LatencyMs = %d, want 20000", a.LatencyMs)
	}
	if a.Correct != pattern.SVOC {
		t.Errorf("Correct = %v, want SVOC", a.Correct)
	}
	if !a.Valid() {
		t.Error("timeout attempt should be Valid()")
	}
}

func TestValid_Malformed(t *testing.T) {
	tests := []struct {
		name string
		a    Attempt
	}{
		{"missing stimulus id", Attempt{StimulusID: " ", Chosen: pattern.SV, Correct: pattern.SV, IsCorrect: true}},
		{"correct flag lies", Attempt{StimulusID: "q", Chosen: pattern.SV, Correct: pattern.SVO, IsCorrect: true}},
		{"incorrect flag lies", Attempt{StimulusID: "q", Chosen: pattern.SV, Correct: pattern.SV, IsCorrect: false}},
		{"negative latency", Attempt{StimulusID: "q", Chosen: pattern.SV, Correct: pattern.SV, IsCorrect: true, LatencyMs: -5}},
		{"correct out of range", Attempt{StimulusID: "q", Chosen: pattern.SV, Correct: pattern.Pattern(8)}},
		{"chosen out of range", Attempt{StimulusID: "q", Chosen: pattern.Pattern(-2), Correct: pattern.SV}},
	}
	for _, tt := range tests {
		if tt.a.Valid() {
			t.Errorf("%s: Valid() = true", tt.name)
		}
	}
}

func TestMemoryLog(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog()
	for i, p := range pattern.All() {
		a, err := New("q", p, pattern.SV, i, time.Now())
		if err != nil {
			t.Fatal(err)
		}
		if err := l.Append(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := l.All(ctx)
	if len(all) != pattern.Count {
		t.Fatalf("len = %d, want %d", len(all), pattern.Count)
	}
	for i, a := range all {
		if a.LatencyMs != i {
			t.Errorf("attempt %d out of insertion order", i)
		}
	}

	// Mutating the returned slice must not affect the log.
	all[0].LatencyMs = 999
	again, _ := l.All(ctx)
	if again[0].LatencyMs == 999 {
		t.Error("All() must return a copy")
	}

	if err := l.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if all, _ := l.All(ctx); len(all) != 0 {
		t.Errorf("after Clear len = %d", len(all))
	}
}
