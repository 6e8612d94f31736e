// Package scheduler picks the next stimulus to present, biased toward
// recently missed and commonly confused patterns.
package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/patterndrill/internal/attempt"
	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/pattern"
	"github.com/abhisek/patterndrill/internal/stats"
)

// ErrEmptyCatalog is returned when no stimulus can be selected.
var ErrEmptyCatalog = errors.New("no stimuli to choose from")

const (
	// RecentWindow is how many trailing attempts count as "recent".
	RecentWindow = 10
	// FocusPairs is how many top confusion pairs feed the focus set.
	FocusPairs = 3

	BaseWeight      = 10
	MissedBoost     = 20
	ConfusionBoost  = 20
	RepeatDampening = 0.1
)

// Rand is the randomness the scheduler needs. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Options is the per-invocation configuration.
type Options struct {
	// Filter restricts candidates to stimuli carrying this exact tag.
	Filter string
	// TimeLimit is for the caller's answer timer. Selection ignores it.
	TimeLimit time.Duration
}

// capBreakpoints maps minimum lifetime correct answers to a level cap.
var capBreakpoints = []struct {
	minCorrect int
	cap        int
}{
	{100, 5},
	{60, 4},
	{30, 3},
	{10, 2},
}

// DifficultyCap returns the highest stimulus level unlocked by correctCount.
func DifficultyCap(correctCount int) int {
	for _, b := range capBreakpoints {
		if correctCount >= b.minCorrect {
			return b.cap
		}
	}
	return 1
}

// Next selects the next stimulus from cat given the attempt history.
func Next(cat []catalog.Stimulus, attempts []attempt.Attempt, filter string, rng Rand) (catalog.Stimulus, error) {
	candidates, err := Candidates(cat, attempts, filter)
	if err != nil {
		return catalog.Stimulus{}, err
	}

	if len(attempts) == 0 {
		pool := atLevel(candidates, catalog.MinLevel)
		if len(pool) == 0 {
			pool = candidates
		}
		return pool[rng.IntN(len(pool))], nil
	}

	return pick(candidates, Weights(candidates, attempts), rng), nil
}

// Candidates applies the deck filter or, without one, the difficulty cap.
// An empty filtered set is an error; an empty capped set falls back to the
// whole catalog.
func Candidates(cat []catalog.Stimulus, attempts []attempt.Attempt, filter string) ([]catalog.Stimulus, error) {
	if filter != "" {
		var out []catalog.Stimulus
		for _, s := range cat {
			if s.HasTag(filter) {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("deck %q: %w", filter, ErrEmptyCatalog)
		}
		return out, nil
	}

	if len(cat) == 0 {
		return nil, ErrEmptyCatalog
	}

	limit := DifficultyCap(correctCount(attempts))
	var out []catalog.Stimulus
	for _, s := range cat {
		if s.Level <= limit {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return cat, nil
	}
	return out, nil
}

// Weights returns the sampling weight of each candidate, index-aligned.
func Weights(candidates []catalog.Stimulus, attempts []attempt.Attempt) []int {
	missed, last, hasLast := recent(attempts)
	focus := focusSet(attempts)

	weights := make([]int, len(candidates))
	for i, s := range candidates {
		w := BaseWeight
		if missed[s.Correct] {
			w += MissedBoost
		}
		if focus[s.Correct] {
			w += ConfusionBoost
		}
		if hasLast && s.Correct == last {
			w = max(1, int(float64(w)*RepeatDampening))
		}
		weights[i] = w
	}
	return weights
}

// FocusPatterns returns the patterns currently boosted by confusion pairs.
func FocusPatterns(attempts []attempt.Attempt) []pattern.Pattern {
	focus := focusSet(attempts)
	var out []pattern.Pattern
	for _, p := range pattern.All() {
		if focus[p] {
			out = append(out, p)
		}
	}
	return out
}

// pick performs roulette-wheel selection in candidate order.
func pick(candidates []catalog.Stimulus, weights []int, rng Rand) catalog.Stimulus {
	total := 0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * float64(total)
	for i, w := range weights {
		r -= float64(w)
		if r <= 0 {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

func atLevel(stimuli []catalog.Stimulus, level int) []catalog.Stimulus {
	var out []catalog.Stimulus
	for _, s := range stimuli {
		if s.Level == level {
			out = append(out, s)
		}
	}
	return out
}

func correctCount(attempts []attempt.Attempt) int {
	n := 0
	for _, a := range attempts {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// recent returns the patterns missed in the last RecentWindow attempts and
// the correct pattern of the latest attempt.
func recent(attempts []attempt.Attempt) (map[pattern.Pattern]bool, pattern.Pattern, bool) {
	missed := make(map[pattern.Pattern]bool)
	if len(attempts) == 0 {
		return missed, pattern.None, false
	}
	window := attempts[max(0, len(attempts)-RecentWindow):]
	for _, a := range window {
		if !a.IsCorrect {
			missed[a.Correct] = true
		}
	}
	return missed, attempts[len(attempts)-1].Correct, true
}

func focusSet(attempts []attempt.Attempt) map[pattern.Pattern]bool {
	focus := make(map[pattern.Pattern]bool)
	for _, c := range stats.TopConfusions(stats.Compute(attempts), FocusPairs) {
		focus[c.Correct] = true
		focus[c.Chosen] = true
	}
	return focus
}

// Uniform picks uniformly among stimuli carrying filter, or the whole catalog
// when filter is empty. History and the difficulty cap are ignored.
func Uniform(cat []catalog.Stimulus, filter string, rng Rand) (catalog.Stimulus, error) {
	pool := cat
	if filter != "" {
		pool = nil
		for _, s := range cat {
			if s.HasTag(filter) {
				pool = append(pool, s)
			}
		}
	}
	if len(pool) == 0 {
		if filter != "" {
			return catalog.Stimulus{}, fmt.Errorf("deck %q: %w", filter, ErrEmptyCatalog)
		}
		return catalog.Stimulus{}, ErrEmptyCatalog
	}
	return pool[rng.IntN(len(pool))], nil
}
