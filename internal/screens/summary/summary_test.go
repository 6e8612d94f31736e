package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	sess "github.com/abhisek/patterndrill/internal/drill"
	"github.com/abhisek/patterndrill/internal/progression"
	"github.com/abhisek/patterndrill/internal/router"
)

func testSummary() sess.Summary {
	return sess.Summary{
		Duration:   3*time.Minute + 5*time.Second,
		Answered:   12,
		Correct:    9,
		Accuracy:   0.75,
		BestStreak: 5,
		Awards: []progression.Result{
			{EntityID: "give", Unlocked: true, Level: 1},
			{EntityID: "make", LeveledUp: true, Level: 2},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary(), sess.ModeReview, "")
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testSummary(), sess.ModeSniper, "v:give")
	view := s.View(100, 30)
	for _, want := range []string{"Sniper", "v:give", "3:05", "Answered: 12", "75%", "Best streak: 5", "give unlocked", "make reached level 2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_NoAwards(t *testing.T) {
	sum := testSummary()
	sum.Awards = nil
	view := New(sum, sess.ModeReview, "").View(80, 24)
	if strings.Contains(view, "Cards") {
		t.Error("cards section should be hidden without awards")
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(testSummary(), sess.ModeReview, "")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter (pop)")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSummary(), sess.ModeReview, "")
	hints := s.KeyHints()
	if len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
