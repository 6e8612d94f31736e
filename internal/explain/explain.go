// Package explain asks a language model for a short explanation of a missed
// sentence when the catalog has no trap note for it.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/llm"
	"github.com/abhisek/patterndrill/internal/pattern"
)

// Purpose labels explanation calls in the LLM request log.
const Purpose = "explain"

// ErrUnavailable is returned by a nil Service.
var ErrUnavailable = errors.New("explanations are not configured")

// Explanation is a generated summary plus the trap the learner fell into.
type Explanation struct {
	Summary string `json:"summary"`
	Trap    string `json:"trap"`
}

var responseSchema = &llm.Schema{
	Name:        "pattern-explanation",
	Description: "Why a sentence has its sentence pattern and what misled the learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "One sentence naming each element (S, V, O, C) in the sentence.",
			},
			"trap": map[string]any{
				"type":        "string",
				"description": "One sentence on why the chosen pattern is wrong.",
			},
		},
		"required":             []any{"summary", "trap"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You teach the five basic English sentence patterns: SV, SVC, SVO, SVOO, SVOC.
Answer in plain English for a learner. Keep each field to one sentence.`

type cacheKey struct {
	id     string
	chosen pattern.Pattern
}

// Service generates and caches explanations.
type Service struct {
	provider llm.Provider
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[cacheKey]Explanation
}

// New returns a service backed by p, or nil when p is nil.
func New(p llm.Provider, logger *slog.Logger) *Service {
	if p == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: p, logger: logger, cache: make(map[cacheKey]Explanation)}
}

// NeedsHelp reports whether a miss on s lacks a catalog trap note.
func NeedsHelp(s catalog.Stimulus, chosen pattern.Pattern) bool {
	return chosen != s.Correct && s.Explanation.Trap == ""
}

// Explain returns the explanation for choosing chosen on s. Successful results
// are cached per stimulus and choice; failures are not.
func (svc *Service) Explain(ctx context.Context, s catalog.Stimulus, chosen pattern.Pattern) (Explanation, error) {
	if svc == nil {
		return Explanation{}, ErrUnavailable
	}
	key := cacheKey{id: s.ID, chosen: chosen}
	svc.mu.Lock()
	cached, ok := svc.cache[key]
	svc.mu.Unlock()
	if ok {
		return cached, nil
	}

	req := llm.Prompt(systemPrompt, prompt(s, chosen))
	req.Schema = responseSchema
	req.MaxTokens = 300

	resp, err := svc.provider.Generate(llm.WithPurpose(ctx, Purpose), req)
	if err != nil {
		svc.logger.Warn("explanation failed", "stimulus", s.ID, "chosen", chosen.String(), "err", err)
		return Explanation{}, fmt.Errorf("explain %s: %w", s.ID, err)
	}
	var out Explanation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Explanation{}, fmt.Errorf("decode explanation: %w", err)
	}
	out.Summary = strings.TrimSpace(out.Summary)
	out.Trap = strings.TrimSpace(out.Trap)

	svc.mu.Lock()
	svc.cache[key] = out
	svc.mu.Unlock()
	return out, nil
}

func prompt(s catalog.Stimulus, chosen pattern.Pattern) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sentence: %q\n", s.Text)
	fmt.Fprintf(&b, "Correct pattern: %s (%s)\n", s.Correct, s.Correct.Description())
	if chosen == pattern.None {
		b.WriteString("The learner ran out of time.\n")
	} else {
		fmt.Fprintf(&b, "Learner chose: %s (%s)\n", chosen, chosen.Description())
	}
	if s.Explanation.Summary != "" {
		fmt.Fprintf(&b, "Reference explanation: %s\n", s.Explanation.Summary)
	}
	return b.String()
}
