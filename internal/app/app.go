// Package app is the root Bubble Tea model: it owns the screen router and
// draws the shared header and footer.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/patterndrill/internal/progression"
	"github.com/abhisek/patterndrill/internal/router"
	"github.com/abhisek/patterndrill/internal/screen"
	"github.com/abhisek/patterndrill/internal/screens/home"
	"github.com/abhisek/patterndrill/internal/ui/layout"
)

// Deps wires the application.
type Deps struct {
	Home   home.Deps
	Logger *slog.Logger
}

// cardsCountMsg carries the unlocked card count for the header.
type cardsCountMsg int

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	engine *progression.Engine
	logger *slog.Logger
	width  int
	height int
	cards  int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(deps Deps) AppModel {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return AppModel{
		router: router.New(home.New(deps.Home)),
		engine: deps.Home.Drill.Engine,
		logger: logger,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.refreshCards())
}

// refreshCards recounts unlocked cards off the update loop.
func (m AppModel) refreshCards() tea.Cmd {
	engine := m.engine
	if engine == nil {
		return nil
	}
	return func() tea.Msg {
		return cardsCountMsg(progression.Unlocked(engine.Collection(context.Background())))
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case cardsCountMsg:
		m.cards = int(msg)
		return m, nil

	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg:
		m.logger.Debug("navigate", "msg", fmt.Sprintf("%T", msg))
		return m, tea.Batch(m.router.Update(msg), m.refreshCards())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if c, ok := m.router.Active().(screen.Closer); ok {
				c.Close()
			}
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.EscapeCapturer); ok && c.CapturesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// streak reads the live streak from the active screen, if it has one.
func (m AppModel) streak() int {
	if s, ok := m.router.Active().(screen.StatusProvider); ok {
		return s.Streak()
	}
	return 0
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.streak(), m.cards, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
