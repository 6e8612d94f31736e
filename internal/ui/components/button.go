package components

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/patterndrill/internal/ui/theme"
)

// Button fires OnPress when its key binding is pressed. A disabled binding
// renders dimmed and ignores keys.
type Button struct {
	Label   string
	Key     key.Binding
	OnPress func() tea.Cmd
}

// NewButton creates a button pressed with Enter or Space.
func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Key:     key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", label)),
		OnPress: onPress,
	}
}

func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || b.OnPress == nil {
		return b, nil
	}
	if key.Matches(kmsg, b.Key) {
		return b, b.OnPress()
	}
	return b, nil
}

func (b Button) View() string {
	label := "  ▸ " + b.Label + " "
	if b.Key.Enabled() {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
