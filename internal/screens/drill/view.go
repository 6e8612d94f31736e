package drill

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/patterndrill/internal/drill"
	"github.com/abhisek/patterndrill/internal/explain"
	"github.com/abhisek/patterndrill/internal/progression"
	"github.com/abhisek/patterndrill/internal/scheduler"
	"github.com/abhisek/patterndrill/internal/ui/components"
	"github.com/abhisek/patterndrill/internal/ui/theme"
)

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
}

// renderRound renders the sentence, the timer and the answer picker.
func (d *DrillScreen) renderRound(width, height int) string {
	if d.round == nil {
		return renderLoading(width, height)
	}

	var b strings.Builder

	cur, best := d.session.Streak()
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s  Level %d", d.session.Mode().Title(), d.round.Stimulus.Level))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d  %s %d  best %d",
			d.round.Number,
			lipgloss.NewStyle().Foreground(theme.Accent).Render("★"),
			cur, best))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if limit := d.session.TimeLimit(); limit > 0 {
		bar := components.NewTimerBar(d.remaining, limit, min(width-8, 50))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n\n")
	}

	sentence := theme.Sentence.Render(d.round.Stimulus.Text)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, sentence))
	b.WriteString("\n\n")

	if d.phase == phaseComplements {
		b.WriteString(centered(width).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Objects: %d", d.objects)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, d.picker.View()))

	if d.notice != "" {
		b.WriteString("\n")
		b.WriteString(centered(width).Foreground(theme.Accent).Render(d.notice))
	}

	return b.String()
}

// renderFeedback renders the verdict, the catalog explanation, any card
// awards and the AI explanation when one was requested.
func (d *DrillScreen) renderFeedback(width, height int) string {
	out := d.outcome
	if out == nil {
		return ""
	}
	verdict := out.Judge

	var b strings.Builder
	b.WriteString("\n")

	headline := centered(width).Bold(true)
	if verdict.IsCorrect {
		headline = headline.Foreground(theme.Success)
	} else {
		headline = headline.Foreground(theme.Error)
	}
	b.WriteString(headline.Render(verdict.Headline()))
	b.WriteString("\n\n")

	b.WriteString(centered(width).
		Foreground(theme.Text).
		Render(d.round.Stimulus.Text))
	b.WriteString("\n")
	b.WriteString(centered(width).
		Foreground(theme.TextDim).
		Render(verdict.Correct.Description()))
	b.WriteString("\n\n")

	textWidth := min(width-8, 70)
	if verdict.Explanation.Summary != "" {
		exp := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Render(verdict.Explanation.Summary)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n")
	}
	if verdict.Explanation.Trap != "" {
		trap := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Accent).Render("Trap: " + verdict.Explanation.Trap)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, trap))
		b.WriteString("\n")
	}

	if ai := d.renderExplanation(textWidth); ai != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, ai))
		b.WriteString("\n")
	}

	if awards := out.Awards(); len(awards) > 0 {
		b.WriteString("\n")
		for _, a := range awards {
			b.WriteString(centered(width).
				Foreground(theme.ArcadeYellow).
				Bold(true).
				Render(awardLine(d.session, a)))
			b.WriteString("\n")
		}
	}

	if out.Streak > 1 {
		b.WriteString("\n")
		b.WriteString(centered(width).
			Foreground(theme.Accent).
			Render(fmt.Sprintf("★ %d in a row", out.Streak)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centered(width).
		Foreground(theme.TextDim).
		Render("Press any key to continue..."))

	return b.String()
}

func (d *DrillScreen) renderExplanation(width int) string {
	style := lipgloss.NewStyle().Width(width)
	switch {
	case d.explaining:
		return style.Foreground(theme.TextDim).Render(d.spinner.View() + " Asking for an explanation...")
	case d.explainErr != nil:
		msg := "Explanation unavailable right now."
		if errors.Is(d.explainErr, explain.ErrUnavailable) {
			msg = "No explanation provider is configured."
		}
		return style.Foreground(theme.TextDim).Render(msg)
	case d.explanation != nil:
		text := d.explanation.Summary
		if d.explanation.Trap != "" {
			text += "\nTrap: " + d.explanation.Trap
		}
		return style.
			Foreground(theme.Secondary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1).
			Render(text)
	case d.canExplain():
		return style.Foreground(theme.TextDim).Italic(true).Render("Press E for an explanation of this miss.")
	}
	return ""
}

func awardLine(s *sess.Session, a progression.Result) string {
	name := a.EntityID
	if e, ok := s.Catalog().Entity(a.EntityID); ok {
		name = fmt.Sprintf("%s (%s)", e.ID, e.Rarity.DisplayName())
	}
	if a.Unlocked {
		return fmt.Sprintf("New card unlocked: %s", name)
	}
	return fmt.Sprintf("%s reached level %d", name, a.Level)
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(centered(width).
		Foreground(theme.Text).
		Bold(true).
		Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(centered(width).
		Foreground(theme.TextDim).
		Render("Answered rounds are already saved."))
	b.WriteString("\n\n")

	b.WriteString(centered(width).
		Foreground(theme.Success).
		Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(centered(width).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width, height int) string {
	return centered(width).
		Foreground(theme.TextDim).
		Render("\n\n\n  Picking a sentence...")
}

// renderError renders why no round could be served.
func renderError(width, height int, err error) string {
	msg := fmt.Sprintf("Error: %v", err)
	if errors.Is(err, scheduler.ErrEmptyCatalog) {
		msg = "No sentences match this deck."
	}
	return centered(width).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  %s\n\n  Press any key to go back.", msg))
}
