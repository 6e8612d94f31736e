package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/patterndrill/internal/store"
)

type fakeEvents struct {
	sessions   []store.SessionSummaryRecord
	cards      []store.CardEventRecord
	sessionErr error
	cardErr    error
}

func (f *fakeEvents) QuerySessionSummaries(context.Context, store.QueryOpts) ([]store.SessionSummaryRecord, error) {
	return f.sessions, f.sessionErr
}

func (f *fakeEvents) QueryCardEvents(context.Context, store.QueryOpts) ([]store.CardEventRecord, error) {
	return f.cards, f.cardErr
}

var day = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func load(s *HistoryScreen) {
	s.Update(s.Init()())
}

func TestHistory_Empty(t *testing.T) {
	s := New(&fakeEvents{})
	if got := s.View(100, 30); !strings.Contains(got, "Loading history") {
		t.Errorf("before load view = %q", got)
	}
	load(s)
	if got := s.View(100, 30); !strings.Contains(got, "No sessions yet") {
		t.Errorf("empty view = %q", got)
	}
}

func TestHistory_Error(t *testing.T) {
	s := New(&fakeEvents{sessionErr: errors.New("db locked")})
	load(s)
	if got := s.View(100, 30); !strings.Contains(got, "db locked") {
		t.Errorf("error view = %q", got)
	}
}

func TestHistory_ListAndExpand(t *testing.T) {
	f := &fakeEvents{
		sessions: []store.SessionSummaryRecord{
			{SessionID: "s2", Timestamp: day, Deck: "v:give", QuestionsServed: 4, CorrectAnswers: 3, DurationSecs: 75, BestStreak: 3, CardCount: 1},
			{SessionID: "s1", Timestamp: day.Add(-time.Hour), QuestionsServed: 2, CorrectAnswers: 0, DurationSecs: 20},
		},
		cards: []store.CardEventRecord{
			{CardEventData: store.CardEventData{Kind: store.CardUnlocked, EntityID: "give", Rarity: "R", Level: 1, SessionID: "s2"}},
		},
	}
	s := New(f)
	load(s)

	view := s.View(120, 30)
	for _, want := range []string{"Mar 14, 2026", "1:15", "v:give", "75% accuracy", "1 card", "all"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view = s.View(120, 30)
	if !strings.Contains(view, "Rare give unlocked") || !strings.Contains(view, "Best streak: 3") {
		t.Errorf("expanded view = %q", view)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 30), "No cards this session") {
		t.Error("second session should show no cards")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
}

func TestHistory_CardReadFailureKeepsSessions(t *testing.T) {
	f := &fakeEvents{
		sessions: []store.SessionSummaryRecord{{SessionID: "s1", Timestamp: day, QuestionsServed: 1}},
		cardErr:  errors.New("boom"),
	}
	s := New(f)
	load(s)
	if s.errMsg != "" || len(s.sessions) != 1 {
		t.Errorf("errMsg = %q, sessions = %d", s.errMsg, len(s.sessions))
	}
}
