package drill

import (
	"time"

	sess "github.com/abhisek/patterndrill/internal/drill"
	"github.com/abhisek/patterndrill/internal/explain"
)

// roundReadyMsg carries the next round, or the reason there is none.
type roundReadyMsg struct {
	Round *sess.Round
	Err   error
}

// timerTickMsg drives the answer timer of one round. Ticks for an older
// round are dropped.
type timerTickMsg struct {
	Round int
	At    time.Time
}

// explainDoneMsg is sent when an AI explanation request finishes.
type explainDoneMsg struct {
	Round       int
	Explanation explain.Explanation
	Err         error
}
