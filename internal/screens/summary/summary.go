// Package summary shows the end-of-session report.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/patterndrill/internal/drill"
	"github.com/abhisek/patterndrill/internal/router"
	"github.com/abhisek/patterndrill/internal/screen"
	"github.com/abhisek/patterndrill/internal/ui/components"
	"github.com/abhisek/patterndrill/internal/ui/layout"
	"github.com/abhisek/patterndrill/internal/ui/theme"
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary sess.Summary
	mode    sess.Mode
	deck    string
	button  components.Button
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary sess.Summary, mode sess.Mode, deck string) *SummaryScreen {
	return &SummaryScreen{
		summary: summary,
		mode:    mode,
		deck:    deck,
		button:  components.NewButton("Back to menu", router.Pop),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.button, cmd = s.button.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder

	b.WriteString(center.
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete!"))
	b.WriteString("\n\n")

	mode := s.mode.Title()
	if s.deck != "" {
		mode += " · " + s.deck
	}
	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center.
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s   Duration: %d:%02d", mode, mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Answered: %d    Correct: %d    Accuracy: %.0f%%",
		sum.Answered, sum.Correct, sum.Accuracy*100)
	streak := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Render(fmt.Sprintf("★ Best streak: %d", sum.BestStreak))
	card := components.ArcadeCard(
		lipgloss.NewStyle().Foreground(theme.Text).Render(statsLine)+"\n"+streak,
		components.ContentWidth(width))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	if len(sum.Awards) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", max(min(width-8, 60), 0)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Cards")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, a := range sum.Awards {
			line := fmt.Sprintf("  %s reached level %d", a.EntityID, a.Level)
			if a.Unlocked {
				line = fmt.Sprintf("  %s unlocked", a.EntityID)
			}
			b.WriteString(center.Foreground(theme.ArcadeYellow).Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.button.View()))

	return b.String()
}
