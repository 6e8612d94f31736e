package drill

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/patterndrill/internal/attempt"
	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/judge"
	"github.com/abhisek/patterndrill/internal/pattern"
	"github.com/abhisek/patterndrill/internal/progression"
	"github.com/abhisek/patterndrill/internal/store"
)

var (
	// ErrRoundResolved is returned once a round already has an outcome.
	ErrRoundResolved = errors.New("round already resolved")
	// ErrInvalidChoice rejects a choice outside the five patterns. The
	// round stays open.
	ErrInvalidChoice = errors.New("invalid pattern choice")
)

// Round is one presented stimulus. Exactly one of Answer, AnswerParts or
// Timeout records an outcome; the rest return ErrRoundResolved.
type Round struct {
	session *Session

	Stimulus catalog.Stimulus
	Number   int
	Started  time.Time

	mu      sync.Mutex
	outcome *Outcome
}

// Outcome is everything a resolved round produced.
type Outcome struct {
	Judge    judge.Result
	Attempt  attempt.Attempt
	Progress []progression.Result
	Streak   int
}

// Awards returns the progress results that unlocked or leveled a card.
func (o Outcome) Awards() []progression.Result {
	var out []progression.Result
	for _, p := range o.Progress {
		if p.Unlocked || p.LeveledUp {
			out = append(out, p)
		}
	}
	return out
}

// Answer resolves the round with the learner's pattern choice.
func (r *Round) Answer(ctx context.Context, chosen pattern.Pattern, elapsed time.Duration) (Outcome, error) {
	if !chosen.Valid() {
		return Outcome{}, fmt.Errorf("%w: %d", ErrInvalidChoice, int(chosen))
	}
	return r.resolve(ctx, chosen, elapsed)
}

// AnswerParts resolves a parse-mode round from counted objects and
// complements. A combination no pattern has leaves the round open.
func (r *Round) AnswerParts(ctx context.Context, objects, complements int, elapsed time.Duration) (Outcome, error) {
	p, ok := pattern.FromParts(objects, complements)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %d objects and %d complements", ErrInvalidChoice, objects, complements)
	}
	return r.resolve(ctx, p, elapsed)
}

// Timeout resolves the round as unanswered. Latency is the session's time
// limit, or the time since the round started when untimed.
func (r *Round) Timeout(ctx context.Context) (Outcome, error) {
	limit := r.session.cfg.TimeLimit
	if limit <= 0 {
		limit = r.session.cfg.Now().Sub(r.Started)
	}
	return r.resolve(ctx, pattern.None, limit)
}

// Resolved reports whether the round has an outcome.
func (r *Round) Resolved() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome != nil
}

// resolve runs judge, log append and progression under the round lock, so a
// timer and a key press racing each other record once.
func (r *Round) resolve(ctx context.Context, chosen pattern.Pattern, elapsed time.Duration) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcome != nil {
		return Outcome{}, ErrRoundResolved
	}

	s := r.session
	if elapsed < 0 {
		elapsed = 0
	}
	now := s.cfg.Now()
	var a attempt.Attempt
	if chosen == pattern.None {
		a = attempt.Timeout(r.Stimulus, elapsed, now)
	} else {
		var err error
		a, err = attempt.New(r.Stimulus.ID, chosen, r.Stimulus.Correct, int(elapsed.Milliseconds()), now)
		if err != nil {
			return Outcome{}, err
		}
	}
	verdict := judge.Judge(r.Stimulus, chosen)
	if err := s.cfg.Log.Append(ctx, a); err != nil {
		s.cfg.Logger.Warn("append attempt failed", "stimulus", a.StimulusID, "err", err)
	}

	var progress []progression.Result
	for _, id := range r.Stimulus.EntityIDs() {
		res := s.cfg.Engine.RecordAttempt(ctx, id, verdict.IsCorrect)
		if res.EntityID == "" {
			continue
		}
		progress = append(progress, res)
		s.recordCard(ctx, res)
	}

	out := Outcome{Judge: verdict, Attempt: a, Progress: progress}
	out.Streak = s.record(verdict.IsCorrect, progress)
	r.outcome = &out
	return out, nil
}

func (s *Session) recordCard(ctx context.Context, res progression.Result) {
	if s.cfg.Events == nil || !(res.Unlocked || res.LeveledUp) {
		return
	}
	kind := store.CardLeveled
	if res.Unlocked {
		kind = store.CardUnlocked
	}
	var rarity string
	if e, ok := s.cfg.Catalog.Entity(res.EntityID); ok {
		rarity = string(e.Rarity)
	}
	err := s.cfg.Events.AppendCardEvent(ctx, store.CardEventData{
		Kind:      kind,
		EntityID:  res.EntityID,
		Rarity:    rarity,
		Level:     res.Level,
		SessionID: s.id,
	})
	if err != nil {
		s.cfg.Logger.Warn("record card event failed", "entity", res.EntityID, "err", err)
	}
}
