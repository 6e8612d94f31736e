package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/patterndrill/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default purple
	MascotCelebrating                      // Gold, star eyes: high accuracy
	MascotAlert                            // Orange, exclamation: confusions to fix
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ SVO │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ SVO │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ S?O │
└─────┘`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch v {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.ArcadeYellow
	case MascotAlert:
		art, fg = mascotAlert, theme.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}

// pickMascot celebrates a strong record and raises an alert while the
// scheduler is boosting confused patterns.
func pickMascot(answered int, accuracy float64, confused bool) MascotVariant {
	switch {
	case confused:
		return MascotAlert
	case answered >= celebrateAfter && accuracy >= celebrateAccuracy:
		return MascotCelebrating
	}
	return MascotIdle
}

const (
	celebrateAfter    = 20
	celebrateAccuracy = 0.8
)
