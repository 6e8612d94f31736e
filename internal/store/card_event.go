package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendCardEvent(ctx context.Context, data CardEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(cardEventsTable).
		Columns("sequence", "timestamp", "kind", "entity_id", "rarity", "level", "session_id").
		Values(seqNum, time.Now(), data.Kind, data.EntityID, data.Rarity, data.Level, data.SessionID).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save card event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryCardEvents(ctx context.Context, opts QueryOpts) ([]CardEventRecord, error) {
	sel := builder().
		Select("sequence", "timestamp", "kind", "entity_id", "rarity", "level", "session_id").
		From(entsql.Table(cardEventsTable)).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query card events: %w", err)
	}
	defer rows.Close()

	var records []CardEventRecord
	for rows.Next() {
		var e CardEventRecord
		if err := rows.Scan(&e.Sequence, &e.Timestamp, &e.Kind, &e.EntityID, &e.Rarity, &e.Level, &e.SessionID); err != nil {
			return nil, fmt.Errorf("scan card event: %w", err)
		}
		records = append(records, e)
	}
	return records, rows.Err()
}
