package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	attemptsTable    = "attempts"
	progressionTable = "progression"
	cardEventsTable  = "card_events"
	sessionTable     = "session_events"
	llmEventsTable   = "llm_request_events"
)

// eventColumns are shared by every append-only table: an auto-increment id,
// the global sequence and the wall-clock timestamp.
func eventColumns() []*schema.Column {
	return []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
}

func eventTable(name string, cols ...*schema.Column) *schema.Table {
	base := eventColumns()
	t := &schema.Table{
		Name:       name,
		Columns:    append(base, cols...),
		PrimaryKey: []*schema.Column{base[0]},
	}
	t.Indexes = []*schema.Index{
		{Name: name + "_timestamp", Columns: []*schema.Column{base[2]}},
	}
	return t
}

func tables() []*schema.Table {
	attempts := eventTable(attemptsTable,
		&schema.Column{Name: "stimulus_id", Type: field.TypeString},
		&schema.Column{Name: "chosen", Type: field.TypeInt},
		&schema.Column{Name: "correct", Type: field.TypeInt},
		&schema.Column{Name: "is_correct", Type: field.TypeBool},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt},
	)

	entityID := &schema.Column{Name: "entity_id", Type: field.TypeString}
	progression := &schema.Table{
		Name: progressionTable,
		Columns: []*schema.Column{
			entityID,
			{Name: "level", Type: field.TypeInt},
			{Name: "experience", Type: field.TypeInt},
			{Name: "correct_count", Type: field.TypeInt},
			{Name: "wrong_count", Type: field.TypeInt},
			{Name: "last_played_at", Type: field.TypeTime},
		},
		PrimaryKey: []*schema.Column{entityID},
	}

	cardSession := &schema.Column{Name: "session_id", Type: field.TypeString}
	cards := eventTable(cardEventsTable,
		&schema.Column{Name: "kind", Type: field.TypeString},
		&schema.Column{Name: "entity_id", Type: field.TypeString},
		&schema.Column{Name: "rarity", Type: field.TypeString},
		&schema.Column{Name: "level", Type: field.TypeInt},
		cardSession,
	)
	cards.Indexes = append(cards.Indexes, &schema.Index{
		Name: "card_events_session", Columns: []*schema.Column{cardSession},
	})

	sessions := eventTable(sessionTable,
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "deck", Type: field.TypeString},
		&schema.Column{Name: "questions_served", Type: field.TypeInt},
		&schema.Column{Name: "correct_answers", Type: field.TypeInt},
		&schema.Column{Name: "best_streak", Type: field.TypeInt},
		&schema.Column{Name: "duration_secs", Type: field.TypeInt},
	)

	llm := eventTable(llmEventsTable,
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Size: 2048},
	)

	return []*schema.Table{attempts, progression, cards, sessions, llm}
}

// migrate creates or alters every table to match tables().
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables()...)
}

// builder returns an SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
