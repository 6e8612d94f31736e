// Package collection shows the verb cards the learner has unlocked.
package collection

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/progression"
	"github.com/abhisek/patterndrill/internal/router"
	"github.com/abhisek/patterndrill/internal/screen"
	drillscreen "github.com/abhisek/patterndrill/internal/screens/drill"
	"github.com/abhisek/patterndrill/internal/ui/components"
	"github.com/abhisek/patterndrill/internal/ui/layout"
	"github.com/abhisek/patterndrill/internal/ui/theme"
)

// tabs filter the card list; the empty rarity shows every card.
var tabs = []catalog.Rarity{"", catalog.RarityNormal, catalog.RarityRare, catalog.RaritySuperRare}

type cardsLoadedMsg struct {
	Cards []progression.Card
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Open    key.Binding
	Back    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Navigate")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "Rarity")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Details")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
	}
}

// CollectionScreen lists every card, locked ones greyed out.
type CollectionScreen struct {
	env  drillscreen.Env
	keys keyMap

	cards    []progression.Card
	tab      int
	selected int
	loaded   bool
}

var _ screen.Screen = (*CollectionScreen)(nil)
var _ screen.KeyHintProvider = (*CollectionScreen)(nil)

// New creates a collection screen. Training a card opens a drill from env.
func New(env drillscreen.Env) *CollectionScreen {
	return &CollectionScreen{env: env, keys: newKeyMap()}
}

func (s *CollectionScreen) Init() tea.Cmd {
	engine := s.env.Engine
	return func() tea.Msg {
		return cardsLoadedMsg{Cards: engine.Collection(context.Background())}
	}
}

func (s *CollectionScreen) Title() string {
	return "Collection"
}

func (s *CollectionScreen) KeyHints() []layout.KeyHint {
	return layout.Hints(s.keys.Up, s.keys.NextTab, s.keys.Open, s.keys.Back)
}

func (s *CollectionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case cardsLoadedMsg:
		s.cards = msg.Cards
		s.loaded = true
		s.selected = min(s.selected, max(len(s.filtered())-1, 0))
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.NextTab):
			s.tab = (s.tab + 1) % len(tabs)
			s.selected = 0
		case key.Matches(msg, s.keys.PrevTab):
			s.tab = (s.tab - 1 + len(tabs)) % len(tabs)
			s.selected = 0
		case key.Matches(msg, s.keys.Up):
			if s.selected > 0 {
				s.selected--
			}
		case key.Matches(msg, s.keys.Down):
			if s.selected < len(s.filtered())-1 {
				s.selected++
			}
		case key.Matches(msg, s.keys.Open):
			cards := s.filtered()
			if s.selected < len(cards) {
				return s, router.Push(newCardDetail(cards[s.selected], s.env))
			}
		}
	}
	return s, nil
}

func (s *CollectionScreen) filtered() []progression.Card {
	r := tabs[s.tab]
	if r == "" {
		return s.cards
	}
	var out []progression.Card
	for _, c := range s.cards {
		if c.Entity.Rarity == r {
			out = append(out, c)
		}
	}
	return out
}

func tabName(r catalog.Rarity) string {
	if r == "" {
		return "All"
	}
	return r.DisplayName()
}

func (s *CollectionScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading cards...")
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\n%d of %d cards unlocked\n", progression.Unlocked(s.cards), len(s.cards))))
	b.WriteString("\n")

	var labels []string
	for i, r := range tabs {
		label := tabName(r)
		if i == s.tab {
			labels = append(labels, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(label))
		} else {
			labels = append(labels, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(labels, "     ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	cards := s.filtered()
	if len(cards) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No cards of this rarity"))
		return b.String()
	}

	maxVisible := max(height-10, 3)
	start := 0
	if s.selected >= maxVisible {
		start = s.selected - maxVisible + 1
	}
	end := min(start+maxVisible, len(cards))

	for i := start; i < end; i++ {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderCardRow(cards[i], i == s.selected)))
		b.WriteString("\n")
	}
	if end < len(cards) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(cards)-end)))
	}
	return b.String()
}

func renderCardRow(c progression.Card, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "▸ "
	}
	if c.Locked {
		return lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("%s%-10s %-12s %s", cursor, "?????", c.Entity.Rarity.DisplayName(), "locked"))
	}

	name := lipgloss.NewStyle().Foreground(components.RarityColor(c.Entity.Rarity))
	if selected {
		name = name.Bold(true)
	}
	bar := components.NewProgressBar(fmt.Sprintf("Lv %d", c.Level), c.Progress(), false, 24)
	return fmt.Sprintf("%s%s %-12s %s",
		cursor,
		name.Render(fmt.Sprintf("%-10s", c.Entity.ID)),
		c.Entity.Rarity.DisplayName(),
		bar.View())
}
