package drill

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects how stimuli are picked and answered.
type Mode string

const (
	// ModeReview picks with the adaptive scheduler.
	ModeReview Mode = "review"
	// ModeSniper picks uniformly and runs a short answer timer.
	ModeSniper Mode = "sniper"
	// ModeParse picks uniformly; the learner counts objects and complements
	// instead of naming the pattern. Untimed.
	ModeParse Mode = "parse"
)

// Modes lists the modes in menu order.
func Modes() []Mode {
	return []Mode{ModeReview, ModeSniper, ModeParse}
}

// ParseMode accepts a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (want review, sniper or parse)", s)
}

// Title is the menu label.
func (m Mode) Title() string {
	switch m {
	case ModeReview:
		return "Review"
	case ModeSniper:
		return "Sniper"
	case ModeParse:
		return "Parse"
	default:
		return string(m)
	}
}

// Blurb is the one-line menu description.
func (m Mode) Blurb() string {
	switch m {
	case ModeReview:
		return "Adaptive drill that leans on your weak spots"
	case ModeSniper:
		return "Random sentences against a two-second clock"
	case ModeParse:
		return "Count the objects and complements, untimed"
	default:
		return ""
	}
}

// Timed reports whether rounds in this mode run an answer timer.
func (m Mode) Timed() bool {
	return m != ModeParse
}

// DefaultTimeLimit is the timer used when none is configured.
func (m Mode) DefaultTimeLimit() time.Duration {
	switch m {
	case ModeSniper:
		return 2 * time.Second
	case ModeParse:
		return 0
	default:
		return 10 * time.Second
	}
}
