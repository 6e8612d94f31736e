// Package dashboard shows lifetime accuracy per pattern, the most common
// confusions, and lets the learner drill a single pattern.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/patterndrill/internal/attempt"
	sess "github.com/abhisek/patterndrill/internal/drill"
	"github.com/abhisek/patterndrill/internal/pattern"
	"github.com/abhisek/patterndrill/internal/router"
	"github.com/abhisek/patterndrill/internal/scheduler"
	"github.com/abhisek/patterndrill/internal/screen"
	drillscreen "github.com/abhisek/patterndrill/internal/screens/drill"
	"github.com/abhisek/patterndrill/internal/stats"
	"github.com/abhisek/patterndrill/internal/ui/components"
	"github.com/abhisek/patterndrill/internal/ui/layout"
	"github.com/abhisek/patterndrill/internal/ui/theme"
)

// topConfusions is how many confusion pairs the dashboard lists.
const topConfusions = 3

type statsLoadedMsg struct {
	Attempts []attempt.Attempt
	Err      error
}

// DashboardScreen renders the stats summary over the whole attempt log.
type DashboardScreen struct {
	env drillscreen.Env

	summary  stats.Summary
	focus    []pattern.Pattern
	levelCap int
	cursor   int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates a dashboard that trains patterns with env.
func New(env drillscreen.Env) *DashboardScreen {
	return &DashboardScreen{env: env}
}

// Init reloads the attempt log, so returning from a drill refreshes it.
func (s *DashboardScreen) Init() tea.Cmd {
	log := s.env.Log
	return func() tea.Msg {
		all, err := log.All(context.Background())
		return statsLoadedMsg{Attempts: all, Err: err}
	}
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Drill pattern"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.summary = stats.Compute(msg.Attempts)
		s.focus = scheduler.FocusPatterns(msg.Attempts)
		s.levelCap = scheduler.DifficultyCap(s.summary.CorrectCount)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < pattern.Count-1 {
				s.cursor++
			}
		case "enter":
			return s, s.train()
		}
	}
	return s, nil
}

// train opens a review drill restricted to the selected pattern's deck.
func (s *DashboardScreen) train() tea.Cmd {
	p := pattern.All()[s.cursor]
	if len(s.env.Catalog.Tagged(p.String())) == 0 {
		return nil
	}
	return router.Push(s.env.Start(sess.ModeReview, p.String()))
}

func (s *DashboardScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading stats...")
	}

	var lines []string
	lines = append(lines, s.renderTotals(width), "")
	lines = append(lines, renderSectionHeader("PATTERNS", width))
	for i, p := range pattern.All() {
		lines = append(lines, s.renderPatternRow(p, i == s.cursor, width))
	}
	lines = append(lines, "", renderSectionHeader("CONFUSIONS", width))
	lines = append(lines, s.renderConfusions()...)
	return strings.Join(lines, "\n")
}

func (s *DashboardScreen) renderTotals(width int) string {
	sum := s.summary
	if sum.TotalQuestions == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\nNo answers yet. Start a drill!")
	}

	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	value := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	totals := fmt.Sprintf("%s %s    %s %s    %s %s    %s %s",
		label.Render("Answered"), value.Render(fmt.Sprintf("%d", sum.TotalQuestions)),
		label.Render("Correct"), value.Render(fmt.Sprintf("%d", sum.CorrectCount)),
		label.Render("Accuracy"), value.Render(fmt.Sprintf("%.0f%%", sum.Accuracy*100)),
		label.Render("Avg"), value.Render(fmt.Sprintf("%.1fs", float64(sum.AvgLatencyMs)/1000)),
	)

	focus := "none"
	if len(s.focus) > 0 {
		names := make([]string, len(s.focus))
		for i, p := range s.focus {
			names[i] = p.String()
		}
		focus = strings.Join(names, ", ")
	}
	detail := label.Render(fmt.Sprintf("Level cap %d    Focus: %s", s.levelCap, focus))
	if sum.Skipped > 0 {
		detail += label.Render(fmt.Sprintf("    %d unreadable records skipped", sum.Skipped))
	}

	return "\n  " + totals + "\n  " + detail
}

func renderSectionHeader(name string, width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Width(width).
		Padding(1, 0, 0, 2).
		Render(name)
}

func (s *DashboardScreen) renderPatternRow(p pattern.Pattern, selected bool, width int) string {
	ps := s.summary.PerPattern[p]

	nameStyle := lipgloss.NewStyle().Foreground(theme.Text)
	if selected {
		nameStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	if ps.Total == 0 {
		return fmt.Sprintf("  %s%s  %s", cursor,
			nameStyle.Render(fmt.Sprintf("%-5s", p)),
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("not practiced yet"))
	}

	bar := components.NewProgressBar("", ps.Accuracy(), true, min(width-30, 40))
	if ps.Accuracy() < 0.5 {
		bar.Fill = theme.Error
	}
	return fmt.Sprintf("  %s%s  %s  %s", cursor,
		nameStyle.Render(fmt.Sprintf("%-5s", p)),
		bar.View(),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d/%d", ps.Correct, ps.Total)))
}

func (s *DashboardScreen) renderConfusions() []string {
	top := stats.TopConfusions(s.summary, topConfusions)
	if len(top) == 0 {
		return []string{lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("    No mistakes recorded")}
	}
	var lines []string
	for _, c := range top {
		var text string
		if c.Chosen == pattern.None {
			text = fmt.Sprintf("%s ran out of time", c.Correct)
		} else {
			text = fmt.Sprintf("%s taken for %s", c.Correct, c.Chosen)
		}
		lines = append(lines, fmt.Sprintf("    %-28s %s", text,
			lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("×%d", c.Count))))
	}
	return lines
}
