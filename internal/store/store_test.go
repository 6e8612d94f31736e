package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/patterndrill/internal/attempt"
	"github.com/abhisek/patterndrill/internal/pattern"
	"github.com/abhisek/patterndrill/internal/progression"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestFileStoreSurvivesReopen.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{attemptsTable, progressionTable, cardEventsTable, sessionTable, llmEventsTable, "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAttemptLog_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	log := s.AttemptLog()
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	want := []attempt.Attempt{
		{StimulusID: "q1", Chosen: pattern.SV, Correct: pattern.SV, IsCorrect: true, LatencyMs: 1500, Timestamp: base},
		{StimulusID: "q4", Chosen: pattern.SVOC, Correct: pattern.SVOO, IsCorrect: false, LatencyMs: 4200, Timestamp: base.Add(time.Minute)},
		{StimulusID: "q9", Chosen: pattern.None, Correct: pattern.SVC, IsCorrect: false, LatencyMs: 20000, Timestamp: base.Add(2 * time.Minute)},
	}
	for _, a := range want {
		require.NoError(t, log.Append(ctx, a))
	}

	got, err := log.All(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].StimulusID, got[i].StimulusID)
		assert.Equal(t, want[i].Chosen, got[i].Chosen)
		assert.Equal(t, want[i].Correct, got[i].Correct)
		assert.Equal(t, want[i].IsCorrect, got[i].IsCorrect)
		assert.Equal(t, want[i].LatencyMs, got[i].LatencyMs)
		assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp), "timestamp %d: %v != %v", i, want[i].Timestamp, got[i].Timestamp)
	}

	n, err := log.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	recent, err := log.Query(ctx, QueryOpts{From: base.Add(30 * time.Second)})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	require.NoError(t, log.Clear(ctx))
	got, err = log.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProgressionStore(t *testing.T) {
	s := openTestStore(t)
	ps := s.ProgressionStore()
	ctx := context.Background()

	rec, err := ps.Get(ctx, "give")
	require.NoError(t, err)
	assert.Nil(t, rec, "absent entity must return nil, nil")

	played := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	first := progression.Record{EntityID: "give", Level: 1, Experience: 10,
		History: progression.History{CorrectCount: 1, LastPlayedAt: played}}
	require.NoError(t, ps.Set(ctx, "give", first))
	require.NoError(t, ps.Set(ctx, "make", progression.Record{EntityID: "make", Level: 1,
		History: progression.History{WrongCount: 1, LastPlayedAt: played}}))

	updated := first
	updated.Experience = 50
	updated.Level = 2
	updated.History.CorrectCount = 5
	require.NoError(t, ps.Set(ctx, "give", updated))

	rec, err = ps.Get(ctx, "give")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 50, rec.Experience)
	assert.Equal(t, 2, rec.Level)
	assert.Equal(t, 5, rec.History.CorrectCount)
	assert.True(t, rec.History.LastPlayedAt.Equal(played))

	all, err := ps.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "give", all[0].EntityID, "upsert must keep first-unlock order")
	assert.Equal(t, "make", all[1].EntityID)

	require.NoError(t, ps.Reset(ctx))
	all, err = ps.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProgressionStore_WithEngine(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ents := fakeEntities{"give"}
	engine := progression.NewEngine(ents, s.ProgressionStore(), nil)
	for i := 0; i < 5; i++ {
		engine.RecordAttempt(ctx, "give", true)
	}

	rec, err := s.ProgressionStore().Get(ctx, "give")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 50, rec.Experience)
	assert.Equal(t, 2, rec.Level)
}

func TestCardEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendCardEvent(ctx, CardEventData{Kind: CardUnlocked, EntityID: "give", Rarity: "R", Level: 1, SessionID: "s1"}))
	require.NoError(t, repo.AppendCardEvent(ctx, CardEventData{Kind: CardLeveled, EntityID: "give", Rarity: "R", Level: 2, SessionID: "s1"}))

	events, err := repo.QueryCardEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, CardLeveled, events[0].Kind, "newest first")
	assert.Greater(t, events[0].Sequence, events[1].Sequence)

	limited, err := repo.QueryCardEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSessionSummaries(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: SessionStart}))
	require.NoError(t, repo.AppendCardEvent(ctx, CardEventData{Kind: CardUnlocked, EntityID: "go", Rarity: "N", Level: 1, SessionID: "s1"}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Action: SessionEnd, Deck: "v:go",
		QuestionsServed: 12, CorrectAnswers: 9, BestStreak: 5, DurationSecs: 300,
	}))

	sums, err := repo.QuerySessionSummaries(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "s1", sums[0].SessionID)
	assert.Equal(t, "v:go", sums[0].Deck)
	assert.Equal(t, 12, sums[0].QuestionsServed)
	assert.Equal(t, 9, sums[0].CorrectAnswers)
	assert.Equal(t, 5, sums[0].BestStreak)
	assert.Equal(t, 1, sums[0].CardCount)
}

func TestLLMRequests(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "m", Purpose: "explain", InputTokens: 100, OutputTokens: 20, LatencyMs: 350, Success: true,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "m", Purpose: "explain", Success: false, ErrorMessage: "rate limited",
	}))

	reqs, err := repo.QueryLLMRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.False(t, reqs[0].Success)
	assert.Equal(t, "rate limited", reqs[0].ErrorMessage)
	assert.True(t, reqs[1].Success)
	assert.Equal(t, 100, reqs[1].InputTokens)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drill.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	a, err := attempt.New("q1", pattern.SV, pattern.SV, 800, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.AttemptLog().Append(ctx, a))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	all, err := s.AttemptLog().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "q1", all[0].StimulusID)

	// The sequence continues after reopen.
	seq, err := s.seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("PATTERNDRILL_DB", filepath.Join(dir, "custom", "x.db"))
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom", "x.db"), p)

	t.Setenv("PATTERNDRILL_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "patterndrill", "patterndrill.db"), p)
}
