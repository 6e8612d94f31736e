package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/patterndrill/internal/attempt"
	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/pattern"
	"github.com/abhisek/patterndrill/internal/progression"
	"github.com/abhisek/patterndrill/internal/store"
)

func TestLoadSettings_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[drill]
mode = "parse"
deck = "SVO"

[log]
level = "debug"
`), 0o644))

	c := &cobra.Command{Use: "test"}
	c.Flags().String("config", "", "")
	c.Flags().String("deck", "", "")
	c.Flags().String("mode", "", "")
	c.Flags().Duration("time-limit", 0, "")
	require.NoError(t, c.Flags().Parse([]string{"--config", path, "--mode", "sniper", "--deck", "SVOC"}))

	s, err := loadSettings(c)
	require.NoError(t, err)
	assert.Equal(t, "sniper", s.Mode)
	assert.Equal(t, "SVOC", s.Deck)
	assert.Equal(t, 2*time.Second, s.TimeLimit)
	assert.Equal(t, "debug", s.LogLevel)

	require.NoError(t, c.Flags().Parse([]string{"--time-limit", "0s"}))
	s, err = loadSettings(c)
	require.NoError(t, err)
	assert.Zero(t, s.TimeLimit)
}

func TestLoadSettings_BadMode(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := &cobra.Command{Use: "test"}
	c.Flags().String("config", filepath.Join(t.TempDir(), "missing.toml"), "")
	c.Flags().String("mode", "", "")
	require.NoError(t, c.Flags().Parse([]string{"--mode", "blitz"}))

	_, err := loadSettings(c)
	assert.ErrorContains(t, err, "blitz")
}

func TestPrintStats(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	all := []attempt.Attempt{
		{StimulusID: "a", Chosen: pattern.SV, Correct: pattern.SV, IsCorrect: true, LatencyMs: 1000, Timestamp: at},
		{StimulusID: "b", Chosen: pattern.SVO, Correct: pattern.SVOO, LatencyMs: 2000, Timestamp: at},
		{StimulusID: "b", Chosen: pattern.SVO, Correct: pattern.SVOO, LatencyMs: 3000, Timestamp: at},
		{StimulusID: "c", Chosen: pattern.None, Correct: pattern.SVC, LatencyMs: 10000, Timestamp: at},
	}

	var buf bytes.Buffer
	printStats(&buf, all, 5)
	out := buf.String()

	assert.Contains(t, out, "Answered  4")
	assert.Contains(t, out, "Correct   1 (25%)")
	assert.Contains(t, out, "Avg time  4.0s")
	assert.Contains(t, out, "SVO taken for SVOO")
	assert.Contains(t, out, "SVC ran out of time")
	assert.Contains(t, out, "Weakest: SVC, SVOO")
}

func TestPrintStats_Empty(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, nil, 5)
	assert.Equal(t, "No answers recorded yet.\n", buf.String())
}

func TestPrintCollection(t *testing.T) {
	give, err := catalog.NewEntity("give", "to hand over", pattern.SVOO, catalog.RarityRare)
	require.NoError(t, err)
	call, err := catalog.NewEntity("call", "to name", pattern.SVOC, catalog.RaritySuperRare)
	require.NoError(t, err)
	cat, err := catalog.New("1.0.0", nil, []catalog.Entity{give, call})
	require.NoError(t, err)

	engine := progression.NewEngine(cat, progression.NewMemoryStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	engine.RecordAttempt(context.Background(), "give", true)
	cards := engine.Collection(context.Background())

	var buf bytes.Buffer
	printCollection(&buf, cards, false)
	out := buf.String()
	assert.Contains(t, out, "1 of 2 cards unlocked")
	assert.Contains(t, out, "give")
	assert.Contains(t, out, "10/50")
	assert.NotContains(t, out, "?????")

	buf.Reset()
	printCollection(&buf, cards, true)
	assert.Contains(t, buf.String(), "?????")
	assert.Contains(t, buf.String(), "Super Rare")
}

func TestPrintLLMUsage(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	events := []store.LLMRequestRecord{
		{LLMRequestEventData: store.LLMRequestEventData{
			Provider: "openai", Model: "gpt-4o-mini", Purpose: "explain",
			InputTokens: 1000, OutputTokens: 200, LatencyMs: 800, Success: true,
		}, Timestamp: at},
		{LLMRequestEventData: store.LLMRequestEventData{
			Provider: "openai", Model: "mystery", Purpose: "explain",
			ErrorMessage: "rate limited",
		}, Timestamp: at},
	}

	var buf bytes.Buffer
	printLLMUsage(&buf, events)
	out := buf.String()
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "✗ rate limited")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: mystery")

	buf.Reset()
	printLLMUsage(&buf, nil)
	assert.Equal(t, "No LLM requests recorded yet.\n", buf.String())
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0050", formatCost(0.005))
	assert.Equal(t, "$1.25", formatCost(1.25))
}
