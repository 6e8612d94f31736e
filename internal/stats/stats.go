// Package stats aggregates attempt history into accuracy, latency,
// per-pattern and confusion summaries.
package stats

import (
	"math"
	"sort"

	"github.com/abhisek/patterndrill/internal/attempt"
	"github.com/abhisek/patterndrill/internal/pattern"
)

// PatternStats is the per-pattern tally.
type PatternStats struct {
	Correct int
	Total   int
}

// Accuracy returns Correct/Total, or 0 when nothing was answered.
func (s PatternStats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// ConfusionCount counts incorrect attempts where Correct was the answer
// and Chosen was picked. Chosen is pattern.None for timeouts.
type ConfusionCount struct {
	Correct pattern.Pattern
	Chosen  pattern.Pattern
	Count   int
}

// Summary is the derived view of an attempt history.
type Summary struct {
	TotalQuestions int
	CorrectCount   int
	Accuracy       float64
	AvgLatencyMs   int
	PerPattern     map[pattern.Pattern]PatternStats
	// Confusions are in first-seen order.
	Confusions []ConfusionCount
	// Skipped counts malformed records left out of every total.
	Skipped int
}

// Confusion returns the count for one (correct, chosen) pair.
func (s Summary) Confusion(correct, chosen pattern.Pattern) int {
	for _, c := range s.Confusions {
		if c.Correct == correct && c.Chosen == chosen {
			return c.Count
		}
	}
	return 0
}

// Compute aggregates attempts in one pass. It never fails: malformed
// records are counted in Skipped and otherwise ignored.
func Compute(attempts []attempt.Attempt) Summary {
	sum := Summary{PerPattern: make(map[pattern.Pattern]PatternStats, pattern.Count)}
	for _, p := range pattern.All() {
		sum.PerPattern[p] = PatternStats{}
	}

	confIdx := make(map[[2]pattern.Pattern]int)
	var latency int64
	for _, a := range attempts {
		if !a.Valid() {
			sum.Skipped++
			continue
		}

		sum.TotalQuestions++
		latency += int64(a.LatencyMs)

		ps := sum.PerPattern[a.Correct]
		ps.Total++
		if a.IsCorrect {
			ps.Correct++
			sum.CorrectCount++
		} else {
			key := [2]pattern.Pattern{a.Correct, a.Chosen}
			if i, ok := confIdx[key]; ok {
				sum.Confusions[i].Count++
			} else {
				confIdx[key] = len(sum.Confusions)
				sum.Confusions = append(sum.Confusions, ConfusionCount{Correct: a.Correct, Chosen: a.Chosen, Count: 1})
			}
		}
		sum.PerPattern[a.Correct] = ps
	}

	if sum.TotalQuestions > 0 {
		sum.Accuracy = float64(sum.CorrectCount) / float64(sum.TotalQuestions)
		sum.AvgLatencyMs = int(math.Round(float64(latency) / float64(sum.TotalQuestions)))
	}
	return sum
}

// TopConfusions returns at most n confusion pairs by descending count.
// Equal counts keep first-seen order.
func TopConfusions(s Summary, n int) []ConfusionCount {
	out := append([]ConfusionCount(nil), s.Confusions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Weakest returns up to n answered patterns by ascending accuracy,
// ties broken by pattern order.
func Weakest(s Summary, n int) []pattern.Pattern {
	var answered []pattern.Pattern
	for _, p := range pattern.All() {
		if s.PerPattern[p].Total > 0 {
			answered = append(answered, p)
		}
	}
	sort.SliceStable(answered, func(i, j int) bool {
		return s.PerPattern[answered[i]].Accuracy() < s.PerPattern[answered[j]].Accuracy()
	})
	if n >= 0 && len(answered) > n {
		answered = answered[:n]
	}
	return answered
}
