package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/patterndrill/internal/progression"
)

// ProgressionStore implements progression.Store on the progression table,
// one row per entity.
type ProgressionStore struct {
	db dbtx
}

var (
	_ progression.Store    = (*ProgressionStore)(nil)
	_ progression.Lister   = (*ProgressionStore)(nil)
	_ progression.Resetter = (*ProgressionStore)(nil)
)

var progressionColumns = []string{
	"entity_id", "level", "experience", "correct_count", "wrong_count", "last_played_at",
}

func (p *ProgressionStore) Get(ctx context.Context, entityID string) (*progression.Record, error) {
	query, args := builder().Select(progressionColumns...).
		From(entsql.Table(progressionTable)).
		Where(entsql.EQ("entity_id", entityID)).
		Query()

	rec, err := scanRecord(p.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progression %s: %w", entityID, err)
	}
	return rec, nil
}

func (p *ProgressionStore) Set(ctx context.Context, entityID string, rec progression.Record) error {
	query, args := builder().Insert(progressionTable).
		Columns(progressionColumns...).
		Values(entityID, rec.Level, rec.Experience, rec.History.CorrectCount, rec.History.WrongCount,
			rec.History.LastPlayedAt).
		OnConflict(entsql.ConflictColumns("entity_id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save progression %s: %w", entityID, err)
	}
	return nil
}

// All returns every record ordered by first unlock.
func (p *ProgressionStore) All(ctx context.Context) ([]progression.Record, error) {
	query, args := builder().Select(progressionColumns...).
		From(entsql.Table(progressionTable)).
		OrderBy(entsql.Asc("rowid")).
		Query()

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progression: %w", err)
	}
	defer rows.Close()

	var out []progression.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progression: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Reset deletes every progression record.
func (p *ProgressionStore) Reset(ctx context.Context) error {
	query, args := builder().Delete(progressionTable).Query()
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset progression: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*progression.Record, error) {
	var rec progression.Record
	err := s.Scan(&rec.EntityID, &rec.Level, &rec.Experience,
		&rec.History.CorrectCount, &rec.History.WrongCount, &rec.History.LastPlayedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
