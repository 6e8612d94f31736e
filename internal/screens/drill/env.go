package drill

import (
	"log/slog"
	"time"

	"github.com/abhisek/patterndrill/internal/attempt"
	"github.com/abhisek/patterndrill/internal/catalog"
	sess "github.com/abhisek/patterndrill/internal/drill"
	"github.com/abhisek/patterndrill/internal/explain"
	"github.com/abhisek/patterndrill/internal/progression"
)

// Env is what every drill screen is built from. Screens that launch drills
// hold one and call Start.
type Env struct {
	Catalog *catalog.Catalog
	Log     attempt.Log
	Engine  *progression.Engine
	Events  sess.Events
	// Explainer is nil when no LLM provider is configured.
	Explainer *explain.Service
	Logger    *slog.Logger

	// Mode and TimeLimit are the configured defaults. Other modes use their
	// own default limit.
	Mode      sess.Mode
	TimeLimit time.Duration
}

// LimitFor returns the answer time limit for a mode.
func (e Env) LimitFor(m sess.Mode) time.Duration {
	if m == e.Mode {
		return e.TimeLimit
	}
	return m.DefaultTimeLimit()
}

// Session opens a drill session in mode, restricted to deck.
func (e Env) Session(mode sess.Mode, deck string) *sess.Session {
	return sess.New(sess.Config{
		Catalog:   e.Catalog,
		Log:       e.Log,
		Engine:    e.Engine,
		Events:    e.Events,
		Mode:      mode,
		Deck:      deck,
		TimeLimit: e.LimitFor(mode),
		Logger:    e.Logger,
	})
}

// Start builds a drill screen for a new session.
func (e Env) Start(mode sess.Mode, deck string) *DrillScreen {
	return New(e.Session(mode, deck), e.Explainer)
}
