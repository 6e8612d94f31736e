package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/patterndrill/internal/attempt"
	"github.com/abhisek/patterndrill/internal/pattern"
)

// AttemptLog implements attempt.Log on the attempts table. Rows come back
// in global sequence order.
type AttemptLog struct {
	db  dbtx
	seq *sequenceCounter
}

var _ attempt.Log = (*AttemptLog)(nil)

func (l *AttemptLog) Append(ctx context.Context, a attempt.Attempt) error {
	seqNum, err := l.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	query, args := builder().Insert(attemptsTable).
		Columns("sequence", "timestamp", "stimulus_id", "chosen", "correct", "is_correct", "latency_ms").
		Values(seqNum, ts, a.StimulusID, int(a.Chosen), int(a.Correct), a.IsCorrect, a.LatencyMs).
		Query()
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

// All returns every attempt. Stored rows are returned as-is; callers that
// aggregate check Attempt.Valid.
func (l *AttemptLog) All(ctx context.Context) ([]attempt.Attempt, error) {
	return l.query(ctx, QueryOpts{})
}

// Query returns attempts matching opts in sequence order.
func (l *AttemptLog) Query(ctx context.Context, opts QueryOpts) ([]attempt.Attempt, error) {
	return l.query(ctx, opts)
}

func (l *AttemptLog) query(ctx context.Context, opts QueryOpts) ([]attempt.Attempt, error) {
	sel := builder().
		Select("stimulus_id", "chosen", "correct", "is_correct", "latency_ms", "timestamp").
		From(entsql.Table(attemptsTable)).
		OrderBy(entsql.Asc("sequence"))
	applyOpts(sel, opts)

	query, args := sel.Query()
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []attempt.Attempt
	for rows.Next() {
		var (
			a               attempt.Attempt
			chosen, correct int
		)
		if err := rows.Scan(&a.StimulusID, &chosen, &correct, &a.IsCorrect, &a.LatencyMs, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Chosen = pattern.Pattern(chosen)
		a.Correct = pattern.Pattern(correct)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}

func (l *AttemptLog) Clear(ctx context.Context) error {
	query, args := builder().Delete(attemptsTable).Query()
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear attempts: %w", err)
	}
	return nil
}

// Count returns the number of stored attempts.
func (l *AttemptLog) Count(ctx context.Context) (int, error) {
	query, args := builder().Select(entsql.Count("*")).From(entsql.Table(attemptsTable)).Query()
	var n int
	if err := l.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}
