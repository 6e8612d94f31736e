package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(sessionTable).
		Columns("sequence", "timestamp", "session_id", "action", "deck",
			"questions_served", "correct_answers", "best_streak", "duration_secs").
		Values(seqNum, time.Now(), data.SessionID, data.Action, data.Deck,
			data.QuestionsServed, data.CorrectAnswers, data.BestStreak, data.DurationSecs).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	sel := builder().
		Select("session_id", "timestamp", "deck", "questions_served", "correct_answers", "best_streak", "duration_secs").
		From(entsql.Table(sessionTable)).
		Where(entsql.EQ("action", SessionEnd)).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}

	var records []SessionSummaryRecord
	for rows.Next() {
		var s SessionSummaryRecord
		if err := rows.Scan(&s.SessionID, &s.Timestamp, &s.Deck, &s.QuestionsServed,
			&s.CorrectAnswers, &s.BestStreak, &s.DurationSecs); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		records = append(records, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session summaries: %w", err)
	}

	// Count cards for each session.
	for i := range records {
		query, args := builder().Select(entsql.Count("*")).
			From(entsql.Table(cardEventsTable)).
			Where(entsql.EQ("session_id", records[i].SessionID)).
			Query()
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&records[i].CardCount); err != nil {
			return nil, fmt.Errorf("count session cards: %w", err)
		}
	}
	return records, nil
}
