// Package judge decides whether a chosen pattern is right and explains why.
package judge

import (
	"fmt"

	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/pattern"
)

// Explanation is what the learner sees after answering.
type Explanation struct {
	Summary string
	Trap    string
}

// Result is the verdict for one answer.
type Result struct {
	IsCorrect   bool
	Correct     pattern.Pattern
	Chosen      pattern.Pattern
	Explanation Explanation
}

// Judge compares chosen with the stimulus's correct pattern. A timeout
// (pattern.None) is always incorrect.
func Judge(s catalog.Stimulus, chosen pattern.Pattern) Result {
	return Result{
		IsCorrect: chosen.Valid() && chosen == s.Correct,
		Correct:   s.Correct,
		Chosen:    chosen,
		Explanation: Explanation{
			Summary: s.Explanation.Summary,
			Trap:    s.Explanation.Trap,
		},
	}
}

// Headline is a one-line verdict for display.
func (r Result) Headline() string {
	switch {
	case r.IsCorrect:
		return fmt.Sprintf("Correct! %s", r.Correct)
	case r.Chosen == pattern.None:
		return fmt.Sprintf("Time's up. The answer was %s", r.Correct)
	default:
		return fmt.Sprintf("Not quite. You chose %s, the answer was %s", r.Chosen, r.Correct)
	}
}
