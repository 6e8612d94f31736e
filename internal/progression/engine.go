// Package progression tracks per-entity experience and levels and decides
// when a card unlocks or levels up.
package progression

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/patterndrill/internal/catalog"
)

// Entities is the read side of the entity catalog. *catalog.Catalog
// satisfies it.
type Entities interface {
	Entity(id string) (catalog.Entity, bool)
	Entities() []catalog.Entity
}

// Result reports what a single attempt did to an entity.
type Result struct {
	EntityID   string
	Unlocked   bool
	LeveledUp  bool
	Level      int
	Experience int
}

// Engine applies attempt outcomes to progression records. It is the only
// writer of the Store.
type Engine struct {
	entities Entities
	store    Store
	logger   *slog.Logger

	// Now is the clock used for LastPlayedAt.
	Now func() time.Time
}

// NewEngine creates an engine. A nil logger uses slog.Default().
func NewEngine(entities Entities, store Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{entities: entities, store: store, logger: logger, Now: time.Now}
}

// RecordAttempt updates the entity's record for one outcome and writes it
// back. Unknown entities are a no-op. Store failures are logged and do not
// change the returned result.
func (e *Engine) RecordAttempt(ctx context.Context, entityID string, isCorrect bool) Result {
	if _, ok := e.entities.Entity(entityID); !ok {
		return Result{}
	}

	rec, err := e.store.Get(ctx, entityID)
	if err != nil {
		e.logger.Warn("read progression failed, starting fresh", "entity", entityID, "err", err)
		rec = nil
	}

	var res Result
	if rec == nil {
		rec = &Record{EntityID: entityID, Level: 1}
		res.Unlocked = true
	}
	rec.EntityID = entityID
	rec.normalize()
	rec.History.LastPlayedAt = e.Now()

	oldLevel := rec.Level
	if isCorrect {
		rec.History.CorrectCount++
		rec.Experience = clampExp(rec.Experience + XPPerWin)
		rec.Level = LevelOf(rec.Experience)
		res.LeveledUp = rec.Level > oldLevel
	} else {
		rec.History.WrongCount++
	}

	res.EntityID = entityID
	res.Level = rec.Level
	res.Experience = rec.Experience

	if err := rec.check(); err != nil {
		e.logger.Warn("progression record rejected", "entity", entityID, "err", err)
		return res
	}
	if err := e.store.Set(ctx, entityID, *rec); err != nil {
		e.logger.Warn("write progression failed", "entity", entityID, "err", err)
	}
	return res
}

// Card joins an entity with its progression, for display.
type Card struct {
	Entity  catalog.Entity
	Locked  bool
	Level   int
	Exp     int
	Next    int
	History History
}

// Progress returns the fraction of the way to the next level, 1 at max.
func (c Card) Progress() float64 {
	if c.Locked {
		return 0
	}
	if c.Level >= MaxLevel {
		return 1
	}
	floor := 0
	if c.Level > 1 {
		floor = levelThresholds[c.Level-2]
	}
	span := c.Next - floor
	if span <= 0 {
		return 0
	}
	return float64(c.Exp-floor) / float64(span)
}

// Collection lists every catalog entity with its progression, in catalog
// order. Entities never attempted are Locked.
func (e *Engine) Collection(ctx context.Context) []Card {
	ents := e.entities.Entities()
	known := e.records(ctx, ents)

	cards := make([]Card, 0, len(ents))
	for _, ent := range ents {
		card := Card{Entity: ent, Locked: true}
		if rec, ok := known[ent.ID]; ok {
			card.Locked = false
			card.Level = rec.Level
			card.Exp = rec.Experience
			card.Next = NextThreshold(rec.Level)
			card.History = rec.History
		}
		cards = append(cards, card)
	}
	return cards
}

// records loads progression for ents, in one call when the store is a Lister.
func (e *Engine) records(ctx context.Context, ents []catalog.Entity) map[string]Record {
	out := make(map[string]Record)
	if l, ok := e.store.(Lister); ok {
		all, err := l.All(ctx)
		if err == nil {
			for _, r := range all {
				out[r.EntityID] = r
			}
			return out
		}
		e.logger.Warn("list progression failed", "err", err)
	}
	for _, ent := range ents {
		rec, err := e.store.Get(ctx, ent.ID)
		if err != nil {
			e.logger.Warn("read progression failed", "entity", ent.ID, "err", err)
			continue
		}
		if rec != nil {
			out[ent.ID] = *rec
		}
	}
	return out
}

// Unlocked counts the cards that are no longer locked.
func Unlocked(cards []Card) int {
	n := 0
	for _, c := range cards {
		if !c.Locked {
			n++
		}
	}
	return n
}
