package components

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/patterndrill/internal/ui/theme"
)

func press(s string) tea.KeyPressMsg {
	r := []rune(s)
	return tea.KeyPressMsg{Code: r[0], Text: s}
}

func TestPicker_NumberKeySubmits(t *testing.T) {
	p := NewPicker("Pattern?", PatternOptions())
	p, _ = p.Update(press("4"))

	if !p.Submitted {
		t.Fatal("expected picker to be submitted")
	}
	if p.Chosen != 3 {
		t.Errorf("Chosen = %d, want 3", p.Chosen)
	}
}

func TestPicker_OutOfRangeNumberIgnored(t *testing.T) {
	p := NewPicker("", []string{"a", "b"})
	p, _ = p.Update(press("3"))
	if p.Submitted {
		t.Error("number past the last option should be ignored")
	}
}

func TestPicker_ArrowsAndEnter(t *testing.T) {
	p := NewPicker("", []string{"a", "b", "c"})
	p, _ = p.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	p, _ = p.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	p, _ = p.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	p, _ = p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if p.Chosen != 2 {
		t.Errorf("Chosen = %d, want 2", p.Chosen)
	}

	p, _ = p.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if p.Selected != 2 {
		t.Error("submitted picker should ignore keys")
	}

	p.Reset()
	if p.Submitted || p.Chosen != -1 || p.Correct != -1 {
		t.Errorf("Reset left %+v", p)
	}
}

func TestPicker_View(t *testing.T) {
	p := NewPicker("Which pattern?", PatternOptions())
	p, _ = p.Update(press("1"))
	p.Reveal(2)
	v := p.View()
	for _, want := range []string{"Which pattern?", "1)", "SVOC", "Subject + Verb + Complement"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPatternOptions(t *testing.T) {
	opts := PatternOptions()
	if len(opts) != 5 {
		t.Fatalf("len = %d, want 5", len(opts))
	}
	if !strings.HasPrefix(opts[3], "SVOO") {
		t.Errorf("opts[3] = %q", opts[3])
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	var fired string
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "one", Action: func() tea.Cmd { fired = "one"; return nil }},
		{Label: "two", Disabled: true},
		{Label: "three", Action: func() tea.Cmd { fired = "three"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("Selected = %d, want 3", m.Selected)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if fired != "three" {
		t.Errorf("fired = %q, want three", fired)
	}

	if d := m.Disabled(); !d[0] || !d[2] || d[1] {
		t.Errorf("Disabled() = %v", d)
	}
	if got := strings.Join(m.Labels(), ","); got != "off,one,two,three" {
		t.Errorf("Labels() = %q", got)
	}
}

func TestTimerBar_TurnsRed(t *testing.T) {
	if bar := NewTimerBar(9*time.Second, 10*time.Second, 40); bar.Fill != theme.Success {
		t.Error("expected green bar with plenty of time left")
	}
	if bar := NewTimerBar(time.Second, 10*time.Second, 40); bar.Fill != theme.Error {
		t.Error("expected red bar near the limit")
	}
	if bar := NewTimerBar(time.Second, 0, 40); bar.Percent != 0 {
		t.Errorf("zero limit Percent = %v", bar.Percent)
	}
}

func TestProgressBar_Clamps(t *testing.T) {
	v := NewProgressBar("x", 1.7, true, 30).View()
	if !strings.Contains(v, "100%") {
		t.Errorf("expected clamp to 100%%, got %q", v)
	}
}

func TestTextInput_Submit(t *testing.T) {
	ti := NewTextInput("deck", 20)
	ti.Validate = func(s string) error {
		if s == "" {
			return errors.New("empty")
		}
		return nil
	}
	if err := ti.Submit(); err == nil {
		t.Error("expected validation error")
	}
	if !strings.Contains(ti.View(), "empty") {
		t.Error("view should show the validation error")
	}

	ti.Model.SetValue("  SVO ")
	if err := ti.Submit(); err != nil {
		t.Errorf("Submit() = %v", err)
	}
	if ti.Value() != "SVO" {
		t.Errorf("Value() = %q", ti.Value())
	}
}

func TestButton_PressAndDisable(t *testing.T) {
	pressed := 0
	b := NewButton("Back", func() tea.Cmd {
		pressed++
		return nil
	})

	b, _ = b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	b, _ = b.Update(press("x"))
	if pressed != 1 {
		t.Fatalf("pressed = %d, want 1", pressed)
	}

	b.Key.SetEnabled(false)
	b, _ = b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if pressed != 1 {
		t.Error("disabled button should ignore Enter")
	}
	if !strings.Contains(b.View(), "Back") {
		t.Error("view should show the label")
	}
}
