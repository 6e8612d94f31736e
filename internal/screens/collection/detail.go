package collection

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/patterndrill/internal/catalog"
	sess "github.com/abhisek/patterndrill/internal/drill"
	"github.com/abhisek/patterndrill/internal/progression"
	"github.com/abhisek/patterndrill/internal/router"
	"github.com/abhisek/patterndrill/internal/screen"
	drillscreen "github.com/abhisek/patterndrill/internal/screens/drill"
	"github.com/abhisek/patterndrill/internal/ui/components"
	"github.com/abhisek/patterndrill/internal/ui/layout"
	"github.com/abhisek/patterndrill/internal/ui/theme"
)

// maxExamples caps the example sentences on a card.
const maxExamples = 4

// CardDetailScreen shows one card and offers a drill on its sentences.
type CardDetailScreen struct {
	card     progression.Card
	examples []catalog.Stimulus
	env      drillscreen.Env
	train    key.Binding
	back     key.Binding
}

var _ screen.Screen = (*CardDetailScreen)(nil)
var _ screen.KeyHintProvider = (*CardDetailScreen)(nil)

func newCardDetail(card progression.Card, env drillscreen.Env) *CardDetailScreen {
	d := &CardDetailScreen{
		card:     card,
		examples: env.Catalog.Tagged(catalog.EntityTag(card.Entity.ID)),
		env:      env,
		train: key.NewBinding(
			key.WithKeys("t", "T", "enter"),
			key.WithHelp("T", "Train this verb"),
		),
		back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
	}
	d.train.SetEnabled(len(d.examples) > 0)
	return d
}

func (d *CardDetailScreen) Init() tea.Cmd { return nil }

func (d *CardDetailScreen) Title() string {
	if d.card.Locked {
		return "Locked card"
	}
	return d.card.Entity.ID
}

func (d *CardDetailScreen) KeyHints() []layout.KeyHint {
	return layout.Hints(d.train, d.back)
}

func (d *CardDetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, d.train) {
		deck := catalog.EntityTag(d.card.Entity.ID)
		return d, router.Replace(d.env.Start(sess.ModeReview, deck))
	}
	return d, nil
}

func (d *CardDetailScreen) View(width, height int) string {
	c := d.card
	contentWidth := min(width-8, 70)

	var b strings.Builder

	name := c.Entity.ID
	if c.Locked {
		name = "?????"
	}
	b.WriteString(lipgloss.NewStyle().
		Foreground(components.RarityColor(c.Entity.Rarity)).
		Bold(true).
		Render(fmt.Sprintf("  %s  %s", name, c.Entity.Rarity.DisplayName())))
	b.WriteString("\n")

	if c.Locked {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("  Answer a sentence with this verb to unlock it."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %s  ·  usually %s", c.Entity.Meaning, c.Entity.TypicalPattern)))
		b.WriteString("\n\n")

		bar := components.NewProgressBar(fmt.Sprintf("Level %d", c.Level), c.Progress(), false, contentWidth)
		b.WriteString("  " + bar.View())
		b.WriteString("\n")
		exp := fmt.Sprintf("  %d XP", c.Exp)
		if c.Level < progression.MaxLevel {
			exp += fmt.Sprintf(" / %d", c.Next)
		} else {
			exp += "  (max level)"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(exp))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("  %d correct, %d wrong", c.History.CorrectCount, c.History.WrongCount)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("  Example sentences"))
	b.WriteString("\n")
	if len(d.examples) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("    None in this catalog"))
		b.WriteString("\n")
	}
	for i, s := range d.examples {
		if i == maxExamples {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
				Render(fmt.Sprintf("    ... %d more", len(d.examples)-maxExamples)))
			b.WriteString("\n")
			break
		}
		text := s.Text
		if !c.Locked {
			text = fmt.Sprintf("%-5s %s", s.Correct, s.Text)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(contentWidth).Render("    " + text))
		b.WriteString("\n")
	}

	return b.String()
}
