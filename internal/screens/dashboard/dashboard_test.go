package dashboard

import (
	"io"
	"log/slog"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/patterndrill/internal/attempt"
	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/pattern"
	"github.com/abhisek/patterndrill/internal/progression"
	"github.com/abhisek/patterndrill/internal/router"
	drillscreen "github.com/abhisek/patterndrill/internal/screens/drill"
)

func newDashboard(t *testing.T, attempts ...attempt.Attempt) *DashboardScreen {
	t.Helper()
	s, err := catalog.NewStimulus("q1", "Birds fly.", 1, pattern.SV, []string{"SV"}, catalog.Explanation{Summary: "SV."})
	require.NoError(t, err)
	cat, err := catalog.New("1.0.0", []catalog.Stimulus{s}, nil)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(drillscreen.Env{
		Catalog: cat,
		Log:     attempt.NewMemoryLog(attempts...),
		Engine:  progression.NewEngine(cat, progression.NewMemoryStore(), logger),
		Logger:  logger,
	})
}

func mk(correct, chosen pattern.Pattern) attempt.Attempt {
	return attempt.Attempt{
		StimulusID: "q1",
		Chosen:     chosen,
		Correct:    correct,
		IsCorrect:  correct == chosen,
		LatencyMs:  1500,
		Timestamp:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func load(s *DashboardScreen) {
	s.Update(s.Init()())
}

func TestDashboard_Loading(t *testing.T) {
	s := newDashboard(t)
	assert.Contains(t, s.View(100, 30), "Loading stats")
	load(s)
	assert.Contains(t, s.View(100, 30), "No answers yet")
	assert.Contains(t, s.View(100, 30), "not practiced yet")
}

func TestDashboard_Totals(t *testing.T) {
	s := newDashboard(t,
		mk(pattern.SV, pattern.SV),
		mk(pattern.SVOO, pattern.SVO),
		mk(pattern.SVOO, pattern.SVO),
		mk(pattern.SVC, pattern.None),
	)
	load(s)

	view := s.View(120, 40)
	assert.Contains(t, view, "Answered")
	assert.Contains(t, view, "25%")
	assert.Contains(t, view, "SVOO taken for SVO")
	assert.Contains(t, view, "×2")
	assert.Contains(t, view, "SVC ran out of time")
	assert.Contains(t, view, "1/1")
	assert.Equal(t, 1, s.levelCap)
}

func TestDashboard_CursorBounds(t *testing.T) {
	s := newDashboard(t)
	load(s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.cursor)
	for range 10 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	assert.Equal(t, pattern.Count-1, s.cursor)
}

func TestDashboard_TrainPushesDrill(t *testing.T) {
	s := newDashboard(t)
	load(s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	d, ok := msg.Screen.(*drillscreen.DrillScreen)
	require.True(t, ok)
	assert.Equal(t, "Review · SV", d.Title())
}

func TestDashboard_TrainSkipsEmptyDeck(t *testing.T) {
	s := newDashboard(t)
	load(s)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown}) // SVC has no sentences

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
}
