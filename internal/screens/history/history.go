// Package history lists finished drill sessions and the cards each earned.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/screen"
	"github.com/abhisek/patterndrill/internal/store"
	"github.com/abhisek/patterndrill/internal/ui/components"
	"github.com/abhisek/patterndrill/internal/ui/layout"
	"github.com/abhisek/patterndrill/internal/ui/theme"
)

// sessionLimit is how many past sessions are listed.
const sessionLimit = 50

// Events is the part of store.EventRepo the history screen reads.
type Events interface {
	QuerySessionSummaries(ctx context.Context, opts store.QueryOpts) ([]store.SessionSummaryRecord, error)
	QueryCardEvents(ctx context.Context, opts store.QueryOpts) ([]store.CardEventRecord, error)
}

type historyLoadedMsg struct {
	Sessions []store.SessionSummaryRecord
	Cards    map[string][]store.CardEventRecord // sessionID → card events
	Err      error
}

// HistoryScreen displays past sessions and card awards.
type HistoryScreen struct {
	events   Events
	sessions []store.SessionSummaryRecord
	cards    map[string][]store.CardEventRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(events Events) *HistoryScreen {
	return &HistoryScreen{
		events:   events,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	events := s.events
	return func() tea.Msg {
		ctx := context.Background()

		sessions, err := events.QuerySessionSummaries(ctx, store.QueryOpts{Limit: sessionLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Card events are optional detail; a failed read shows sessions alone.
		byID := make(map[string][]store.CardEventRecord)
		all, err := events.QueryCardEvents(ctx, store.QueryOpts{})
		if err == nil {
			for _, c := range all {
				byID[c.SessionID] = append(byID[c.SessionID], c)
			}
		}
		return historyLoadedMsg{Sessions: sessions, Cards: byID}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.cards = msg.Cards
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start a drill!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+sessionLine(sess))))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, line := range s.detailLines(sess) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func sessionLine(sess store.SessionSummaryRecord) string {
	var accuracy float64
	if sess.QuestionsServed > 0 {
		accuracy = float64(sess.CorrectAnswers) / float64(sess.QuestionsServed) * 100
	}
	deck := sess.Deck
	if deck == "" {
		deck = "all"
	}
	cardStr := ""
	if sess.CardCount > 0 {
		cardStr = fmt.Sprintf("  %d card", sess.CardCount)
		if sess.CardCount > 1 {
			cardStr += "s"
		}
	}
	return fmt.Sprintf("%s  %d:%02d  %-8s %d answered  %.0f%% accuracy%s",
		sess.Timestamp.Format("Jan 02, 2006"),
		sess.DurationSecs/60, sess.DurationSecs%60,
		deck, sess.QuestionsServed, accuracy, cardStr)
}

func (s *HistoryScreen) detailLines(sess store.SessionSummaryRecord) []string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	lines := []string{dim.Render(fmt.Sprintf("    Best streak: %d", sess.BestStreak))}

	cards := s.cards[sess.SessionID]
	if len(cards) == 0 {
		return append(lines, dim.Render("    No cards this session"))
	}
	for _, c := range cards {
		rarity := catalog.Rarity(c.Rarity)
		text := fmt.Sprintf("    %s reached level %d", c.EntityID, c.Level)
		if c.Kind == store.CardUnlocked {
			text = fmt.Sprintf("    %s %s unlocked", rarity.DisplayName(), c.EntityID)
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(components.RarityColor(rarity)).Render(text))
	}
	return lines
}
