// Package attempt defines the record of one answered (or timed-out) question
// and the append-only log that holds them.
package attempt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/pattern"
)

var validate = validator.New()

// Attempt is one resolved question. Correct is the stimulus's pattern at the
// time of the attempt, so history stays meaningful if the catalog changes.
type Attempt struct {
	StimulusID string          `validate:"required"`
	Chosen     pattern.Pattern `validate:"min=0,max=5"`
	Correct    pattern.Pattern `validate:"min=1,max=5"`
	IsCorrect  bool
	LatencyMs  int `validate:"min=0"`
	Timestamp  time.Time
}

// New builds a validated attempt. IsCorrect is derived, never supplied.
func New(stimulusID string, chosen, correct pattern.Pattern, latencyMs int, at time.Time) (Attempt, error) {
	a := Attempt{
		StimulusID: strings.TrimSpace(stimulusID),
		Chosen:     chosen,
		Correct:    correct,
		IsCorrect:  chosen == correct,
		LatencyMs:  latencyMs,
		Timestamp:  at,
	}
	if err := validate.Struct(a); err != nil {
		return Attempt{}, &ValidationError{StimulusID: a.StimulusID, Err: err}
	}
	return a, nil
}

// Timeout builds the sentinel attempt recorded when the time limit expires.
// It is never correct and its latency is the full limit.
func Timeout(s catalog.Stimulus, maxLatency time.Duration, at time.Time) Attempt {
	return Attempt{
		StimulusID: s.ID,
		Chosen:     pattern.None,
		Correct:    s.Correct,
		IsCorrect:  false,
		LatencyMs:  int(maxLatency.Milliseconds()),
		Timestamp:  at,
	}
}

// TimedOut reports whether a is a timeout sentinel.
func (a Attempt) TimedOut() bool {
	return a.Chosen == pattern.None
}

// Valid reports whether a historical record is internally consistent.
// Records loaded from storage go through this instead of New.
func (a Attempt) Valid() bool {
	if strings.TrimSpace(a.StimulusID) == "" {
		return false
	}
	if !a.Correct.Valid() {
		return false
	}
	if a.Chosen != pattern.None && !a.Chosen.Valid() {
		return false
	}
	if a.LatencyMs < 0 {
		return false
	}
	return a.IsCorrect == (a.Chosen == a.Correct)
}

// ValidationError wraps the validator failure for an attempt.
type ValidationError struct {
	StimulusID string
	Err        error
}

func (e *ValidationError) Error() string {
	var verrs validator.ValidationErrors
	if errors.As(e.Err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("invalid attempt for %q: %s failed %q", e.StimulusID, fe.Field(), fe.Tag())
	}
	return fmt.Sprintf("invalid attempt for %q: %v", e.StimulusID, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
