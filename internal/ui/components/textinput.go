package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/patterndrill/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with the app styling and an optional
// validator that runs on Submit.
type TextInput struct {
	Model    textinput.Model
	Validate func(string) error
	err      error
}

// NewTextInput creates a focused text input.
func NewTextInput(placeholder string, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{Model: ti}
}

// Suggest enables tab completion from the given values.
func (t *TextInput) Suggest(values []string) {
	t.Model.ShowSuggestions = len(values) > 0
	t.Model.SetSuggestions(values)
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input and the last validation error.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.err != nil {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+t.err.Error())
	}
	return view
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Submit runs the validator and remembers its error for View.
func (t *TextInput) Submit() error {
	t.err = nil
	if t.Validate != nil {
		t.err = t.Validate(t.Value())
	}
	return t.err
}
