// Package home is the arcade-style main menu.
package home

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/patterndrill/internal/attempt"
	sess "github.com/abhisek/patterndrill/internal/drill"
	"github.com/abhisek/patterndrill/internal/progression"
	"github.com/abhisek/patterndrill/internal/router"
	"github.com/abhisek/patterndrill/internal/scheduler"
	"github.com/abhisek/patterndrill/internal/screen"
	"github.com/abhisek/patterndrill/internal/screens/collection"
	"github.com/abhisek/patterndrill/internal/screens/dashboard"
	drillscreen "github.com/abhisek/patterndrill/internal/screens/drill"
	"github.com/abhisek/patterndrill/internal/screens/history"
	"github.com/abhisek/patterndrill/internal/stats"
	"github.com/abhisek/patterndrill/internal/ui/components"
	"github.com/abhisek/patterndrill/internal/ui/layout"
)

// Deps wires the home screen.
type Deps struct {
	Drill drillscreen.Env
	// Deck is the configured default deck for the mode items.
	Deck string
	// Events backs the history screen. Nil disables it.
	Events history.Events
}

type statsLoadedMsg struct {
	stats  homeStats
	mascot MascotVariant
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	deps Deps
	menu components.Menu

	stats  homeStats
	mascot MascotVariant

	prompting bool
	deck      components.TextInput
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.EscapeCapturer = (*HomeScreen)(nil)

// New creates the home screen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	var items []components.MenuItem
	for _, m := range sess.Modes() {
		items = append(items, components.MenuItem{
			Label:  strings.ToUpper(m.Title()),
			Hint:   m.Blurb(),
			Action: func() tea.Cmd { return router.Push(deps.Drill.Start(m, deps.Deck)) },
		})
	}
	items = append(items,
		components.MenuItem{
			Label:  "PICK A DECK",
			Hint:   "Drill only sentences with one tag, like SVOC or v:give",
			Action: h.openPrompt,
		},
		components.MenuItem{
			Label:  "DASHBOARD",
			Hint:   "Accuracy per pattern and your common mix-ups",
			Action: func() tea.Cmd { return router.Push(dashboard.New(deps.Drill)) },
		},
		components.MenuItem{
			Label:  "COLLECTION",
			Hint:   "Verb cards you have unlocked",
			Action: func() tea.Cmd { return router.Push(collection.New(deps.Drill)) },
		},
		components.MenuItem{
			Label:    "HISTORY",
			Hint:     "Past sessions",
			Disabled: deps.Events == nil,
			Action:   func() tea.Cmd { return router.Push(history.New(deps.Events)) },
		},
		components.MenuItem{
			Label:  "EXIT",
			Action: func() tea.Cmd { return tea.Quit },
		},
	)
	h.menu = components.NewMenu(items)
	return h
}

// Init reloads the stats bar. The router calls it again whenever the home
// screen is uncovered.
func (h *HomeScreen) Init() tea.Cmd {
	env := h.deps.Drill
	return func() tea.Msg {
		return loadStats(context.Background(), env.Log, env.Engine)
	}
}

func loadStats(ctx context.Context, log attempt.Log, engine *progression.Engine) statsLoadedMsg {
	var st homeStats
	cards := engine.Collection(ctx)
	st.cards = len(cards)
	st.unlocked = progression.Unlocked(cards)

	all, err := log.All(ctx)
	if err != nil {
		return statsLoadedMsg{stats: st}
	}
	sum := stats.Compute(all)
	st.answered = sum.TotalQuestions
	st.accuracy = sum.Accuracy
	if weak := stats.Weakest(sum, 1); len(weak) > 0 && sum.PerPattern[weak[0]].Accuracy() < 1 {
		st.weakest = weak[0].String()
	}
	confused := len(scheduler.FocusPatterns(all)) > 0
	return statsLoadedMsg{stats: st, mascot: pickMascot(st.answered, st.accuracy, confused)}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// CapturesEscape keeps Esc for closing the deck prompt.
func (h *HomeScreen) CapturesEscape() bool {
	return h.prompting
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.prompting {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Complete"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) openPrompt() tea.Cmd {
	h.prompting = true
	h.deck = components.NewTextInput("SVOC", 32)
	h.deck.Suggest(h.deps.Drill.Catalog.Tags())
	h.deck.Validate = h.validateDeck
	return h.deck.Init()
}

func (h *HomeScreen) validateDeck(tag string) error {
	if tag == "" {
		return errors.New("enter a tag")
	}
	if len(h.deps.Drill.Catalog.Tagged(tag)) == 0 {
		return fmt.Errorf("no sentences tagged %q", tag)
	}
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsLoadedMsg); ok {
		h.stats = m.stats
		h.mascot = m.mascot
		return h, nil
	}
	if h.prompting {
		return h.updatePrompt(msg)
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) updatePrompt(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			h.prompting = false
			return h, nil
		case "enter":
			if err := h.deck.Submit(); err != nil {
				return h, nil
			}
			h.prompting = false
			return h, router.Push(h.deps.Drill.Start(h.deps.Drill.Mode, h.deck.Value()))
		}
	}
	var cmd tea.Cmd
	h.deck, cmd = h.deck.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := layout.IsCompactHeight(termHeight) || layout.IsCompactWidth(width)

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	if !compact && termHeight >= 50 {
		sections = append(sections, renderMascotBox(h.mascot, cw))
	}
	sections = append(sections, renderStatsBar(h.stats, cw, compact))

	if h.prompting {
		sections = append(sections, renderDeckPrompt(h.deck.View(), cw))
	} else {
		labels, disabled := h.menu.Labels(), h.menu.Disabled()
		if !compact && termHeight >= 44 {
			sections = append(sections, renderArcadeMenu(labels, h.menu.Selected, cw, disabled))
		} else {
			sections = append(sections, renderArcadeMenuCompact(labels, h.menu.Selected, cw, disabled))
		}
		if hint := h.menu.Items[h.menu.Selected].Hint; hint != "" {
			sections = append(sections, renderHint(hint, cw))
		}
	}

	if h.deps.Drill.Explainer == nil {
		sections = append(sections, renderLLMBanner(cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}
