// Package drill runs a practice session: it picks stimuli, resolves each
// round exactly once, and feeds the attempt log and progression engine.
package drill

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/patterndrill/internal/attempt"
	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/progression"
	"github.com/abhisek/patterndrill/internal/scheduler"
	"github.com/abhisek/patterndrill/internal/stats"
	"github.com/abhisek/patterndrill/internal/store"
)

// Events is the subset of store.EventRepo a session writes to.
type Events interface {
	AppendCardEvent(ctx context.Context, data store.CardEventData) error
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// Config wires a session. Catalog, Log and Engine are required.
type Config struct {
	Catalog *catalog.Catalog
	Log     attempt.Log
	Engine  *progression.Engine
	Events  Events // optional

	Mode Mode
	Deck string
	// TimeLimit bounds each round in timed modes. Zero disables the timer.
	TimeLimit time.Duration

	Rand   scheduler.Rand   // nil uses a time-seeded PCG
	Now    func() time.Time // nil uses time.Now
	Logger *slog.Logger     // nil uses slog.Default()
}

// Session is one sitting of drill rounds.
type Session struct {
	cfg   Config
	id    string
	start time.Time

	mu       sync.Mutex
	served   int
	resolved int
	correct  int
	streak   int
	best     int
	awards   []progression.Result
}

// New creates a session with a fresh id.
func New(cfg Config) *Session {
	if cfg.Mode == "" {
		cfg.Mode = ModeReview
	}
	if !cfg.Mode.Timed() {
		cfg.TimeLimit = 0
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		seed := uint64(cfg.Now().UnixNano())
		cfg.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{cfg: cfg, id: uuid.New().String(), start: cfg.Now()}
}

// ID returns the session id recorded on card and session events.
func (s *Session) ID() string { return s.id }

// Mode returns the session mode.
func (s *Session) Mode() Mode { return s.cfg.Mode }

// Deck returns the deck filter, empty for the whole catalog.
func (s *Session) Deck() string { return s.cfg.Deck }

// TimeLimit returns the per-round limit, zero when untimed.
func (s *Session) TimeLimit() time.Duration { return s.cfg.TimeLimit }

// Catalog returns the stimulus catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.cfg.Catalog }

// Begin records the session start event.
func (s *Session) Begin(ctx context.Context) {
	s.appendSession(ctx, store.SessionStart, Summary{})
}

// Next selects the next stimulus and opens a round for it. A log read
// failure is logged and treated as an empty history.
func (s *Session) Next(ctx context.Context) (*Round, error) {
	stimuli := s.cfg.Catalog.Stimuli()

	var (
		picked catalog.Stimulus
		err    error
	)
	if s.cfg.Mode == ModeReview {
		picked, err = scheduler.Next(stimuli, s.history(ctx), s.cfg.Deck, s.cfg.Rand)
	} else {
		picked, err = scheduler.Uniform(stimuli, s.cfg.Deck, s.cfg.Rand)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.served++
	n := s.served
	s.mu.Unlock()

	return &Round{session: s, Stimulus: picked, Number: n, Started: s.cfg.Now()}, nil
}

// Stats recomputes the aggregate over the whole attempt log.
func (s *Session) Stats(ctx context.Context) stats.Summary {
	return stats.Compute(s.history(ctx))
}

func (s *Session) history(ctx context.Context) []attempt.Attempt {
	all, err := s.cfg.Log.All(ctx)
	if err != nil {
		s.cfg.Logger.Warn("read attempt log failed, using empty history", "err", err)
		return nil
	}
	return all
}

// Streak returns the current and best run of correct answers.
func (s *Session) Streak() (current, best int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streak, s.best
}

// record applies a resolved round to the session counters.
func (s *Session) record(correct bool, progress []progression.Result) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved++
	if correct {
		s.correct++
		s.streak++
		if s.streak > s.best {
			s.best = s.streak
		}
	} else {
		s.streak = 0
	}
	for _, p := range progress {
		if p.Unlocked || p.LeveledUp {
			s.awards = append(s.awards, p)
		}
	}
	return s.streak
}

// Summary is the end-of-session report.
type Summary struct {
	Duration   time.Duration
	Answered   int
	Correct    int
	Accuracy   float64
	BestStreak int
	Awards     []progression.Result
}

// Summary reports the session so far.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := Summary{
		Duration:   s.cfg.Now().Sub(s.start),
		Answered:   s.resolved,
		Correct:    s.correct,
		BestStreak: s.best,
		Awards:     append([]progression.Result(nil), s.awards...),
	}
	if sum.Answered > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Answered)
	}
	return sum
}

// End records the session end event and returns the summary.
func (s *Session) End(ctx context.Context) Summary {
	sum := s.Summary()
	s.appendSession(ctx, store.SessionEnd, sum)
	return sum
}

func (s *Session) appendSession(ctx context.Context, action string, sum Summary) {
	if s.cfg.Events == nil {
		return
	}
	err := s.cfg.Events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:       s.id,
		Action:          action,
		Deck:            s.cfg.Deck,
		QuestionsServed: sum.Answered,
		CorrectAnswers:  sum.Correct,
		BestStreak:      sum.BestStreak,
		DurationSecs:    int(sum.Duration.Seconds()),
	})
	if err != nil {
		s.cfg.Logger.Warn("record session event failed", "action", action, "err", err)
	}
}
