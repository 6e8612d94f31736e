package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/patterndrill/internal/pattern"
	"github.com/abhisek/patterndrill/internal/ui/theme"
)

// Picker is a numbered single-choice selector. Options can be chosen with
// the arrow keys and Enter, or directly with their number key.
type Picker struct {
	Prompt    string
	Options   []string
	Selected  int
	Submitted bool
	Chosen    int
	// Correct is the index highlighted after Reveal, -1 before.
	Correct int
}

// NewPicker creates a picker with the first option selected.
func NewPicker(prompt string, options []string) Picker {
	return Picker{
		Prompt:  prompt,
		Options: options,
		Chosen:  -1,
		Correct: -1,
	}
}

// PatternOptions labels the five patterns in menu order.
func PatternOptions() []string {
	all := pattern.All()
	opts := make([]string, len(all))
	for i, p := range all {
		opts[i] = fmt.Sprintf("%-5s %s", p, p.Description())
	}
	return opts
}

// Init returns nil.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	if p.Submitted {
		return p, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if p.Selected > 0 {
			p.Selected--
		}
	case "down", "j":
		if p.Selected < len(p.Options)-1 {
			p.Selected++
		}
	case "enter":
		p.Submitted = true
		p.Chosen = p.Selected
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(p.Options) {
			p.Selected = n - 1
			p.Submitted = true
			p.Chosen = n - 1
		}
	}

	return p, nil
}

// Reset reopens the picker for another answer.
func (p *Picker) Reset() {
	p.Submitted = false
	p.Chosen = -1
	p.Correct = -1
}

// Reveal marks the correct option for display.
func (p *Picker) Reveal(correct int) {
	p.Correct = correct
}

// View renders the prompt and numbered options.
func (p Picker) View() string {
	var b strings.Builder
	if p.Prompt != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(p.Prompt))
		b.WriteString("\n\n")
	}

	for i, opt := range p.Options {
		prefix := "  "
		if i == p.Selected && !p.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case p.Correct >= 0 && i == p.Correct:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		case p.Submitted && i == p.Chosen:
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		case p.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == p.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		default:
			style = lipgloss.NewStyle().Foreground(theme.Text)
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
