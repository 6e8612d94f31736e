package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/patterndrill/internal/ui/components"
	"github.com/abhisek/patterndrill/internal/ui/theme"
)

const arcadeTitleFull = `█▀█ ▄▀█ ▀█▀ ▀█▀ █▀▀ █▀█ █▄ █ █▀▄ █▀█ █ █   █
█▀▀ █▀█  █   █  ██▄ █▀▄ █ ▀█ █▄▀ █▀▄ █ █▄▄ █▄▄`

const arcadeTitleCompact = "P · A · T · T · E · R · N · D · R · I · L · L"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(title))
}

// homeStats is what the stats bar shows.
type homeStats struct {
	answered int
	accuracy float64
	unlocked int
	cards    int
	weakest  string
}

// renderStatsBar renders lifetime stats in a bordered box matching content width.
func renderStatsBar(st homeStats, cw int, compact bool) string {
	accStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	cardStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	weakStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	acc := dimStyle.Render("✓ --")
	if st.answered > 0 {
		acc = accStyle.Render(fmt.Sprintf("✓ %.0f%%", st.accuracy*100))
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			acc,
			cardStyle.Render(fmt.Sprintf("▣%d/%d", st.unlocked, st.cards)),
			weakText(st.weakest, true, weakStyle, dimStyle),
		)
	} else {
		if st.answered > 0 {
			acc = accStyle.Render(fmt.Sprintf("✓ %.0f%% ACCURACY", st.accuracy*100))
		}
		stats = fmt.Sprintf("%s  %s  %s",
			acc,
			cardStyle.Render(fmt.Sprintf("▣ %d/%d CARDS", st.unlocked, st.cards)),
			weakText(st.weakest, false, weakStyle, dimStyle),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func weakText(weakest string, compact bool, active, dim lipgloss.Style) string {
	if weakest == "" {
		if compact {
			return dim.Render("⚡-")
		}
		return dim.Render("⚡ NO WEAK SPOT")
	}
	if compact {
		return active.Render("⚡" + weakest)
	}
	return active.Render("⚡ WEAKEST " + weakest)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	var buttons []string
	for i, label := range items {
		state := components.ButtonNormal
		switch {
		case disabled[i]:
			state = components.ButtonDisabled
		case i == selected:
			state = components.ButtonSelected
		}
		buttons = append(buttons, components.ArcadeButton(label, state, buttonWidth))
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderArcadeMenuCompact renders menu items as simple text lines (no borders)
// for terminals where bordered buttons would overflow.
func renderArcadeMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		switch {
		case disabled[i]:
			line = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("   " + label)
		case i == selected:
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + label + " ")
		default:
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderHint renders the selected item's one-line description.
func renderHint(hint string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Width(cw).
		Align(lipgloss.Center).
		Render(hint)
}

// renderLLMBanner notes that explanations are off when no LLM key is set.
func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ AI explanations are off. Set an LLM API key (see patterndrill --help)")
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

// renderDeckPrompt renders the deck input with its label.
func renderDeckPrompt(input string, cw int) string {
	label := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("Deck tag (Tab completes, Enter starts, Esc cancels)")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Padding(0, 1).
		Render(label + "\n" + input)
}
