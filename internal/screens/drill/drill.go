// Package drill is the screen that runs a drill session round by round.
package drill

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/patterndrill/internal/drill"
	"github.com/abhisek/patterndrill/internal/explain"
	"github.com/abhisek/patterndrill/internal/pattern"
	"github.com/abhisek/patterndrill/internal/router"
	"github.com/abhisek/patterndrill/internal/screen"
	"github.com/abhisek/patterndrill/internal/screens/summary"
	"github.com/abhisek/patterndrill/internal/ui/components"
	"github.com/abhisek/patterndrill/internal/ui/layout"
	"github.com/abhisek/patterndrill/internal/ui/theme"
)

// tickInterval is how often the answer timer redraws.
const tickInterval = 100 * time.Millisecond

type phase int

const (
	phaseLoading phase = iota
	phaseAsking
	// phaseComplements is the second question of a parse-mode round.
	phaseComplements
	phaseFeedback
	phaseError
)

// DrillScreen presents one round at a time and shows feedback between rounds.
type DrillScreen struct {
	session   *sess.Session
	explainer *explain.Service
	keys      keyMap
	ctx       context.Context
	now       func() time.Time

	started     bool
	ended       bool
	phase       phase
	round       *sess.Round
	shownAt     time.Time
	remaining   time.Duration
	picker      components.Picker
	objects     int
	notice      string
	outcome     *sess.Outcome
	quitConfirm bool
	err         error

	spinner     spinner.Model
	explaining  bool
	explanation *explain.Explanation
	explainErr  error
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)
var _ screen.EscapeCapturer = (*DrillScreen)(nil)
var _ screen.StatusProvider = (*DrillScreen)(nil)
var _ screen.Closer = (*DrillScreen)(nil)

// New creates a drill screen for s. A nil explainer hides the explain key.
func New(s *sess.Session, explainer *explain.Service) *DrillScreen {
	return &DrillScreen{
		session:   s,
		explainer: explainer,
		keys:      newKeyMap(),
		ctx:       context.Background(),
		now:       time.Now,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
	}
}

// Init starts the session on first use. Later calls are no-ops.
func (d *DrillScreen) Init() tea.Cmd {
	if d.started {
		return nil
	}
	d.started = true
	d.session.Begin(d.ctx)
	return d.nextRound()
}

func (d *DrillScreen) Title() string {
	title := d.session.Mode().Title()
	if deck := d.session.Deck(); deck != "" {
		title += " · " + deck
	}
	return title
}

// CapturesEscape keeps Esc for the quit confirmation, so the session end
// event is always written.
func (d *DrillScreen) CapturesEscape() bool {
	return true
}

// Streak reports the current in-session streak for the header.
func (d *DrillScreen) Streak() int {
	cur, _ := d.session.Streak()
	return cur
}

func (d *DrillScreen) KeyHints() []layout.KeyHint {
	switch {
	case d.quitConfirm:
		return layout.Hints(d.keys.Confirm, d.keys.Cancel)
	case d.phase == phaseFeedback:
		hints := []layout.KeyHint{{Key: "any key", Description: "Continue"}}
		if d.canExplain() {
			hints = append(hints, layout.Hints(d.keys.Explain)...)
		}
		return append(hints, layout.Hints(d.keys.Quit)...)
	case d.phase == phaseAsking && d.session.Mode() != sess.ModeParse:
		return layout.Hints(d.keys.Choose, d.keys.Submit, d.keys.Quit)
	case d.phase == phaseAsking || d.phase == phaseComplements:
		return []layout.KeyHint{
			{Key: "0-2", Description: "Count"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (d *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case roundReadyMsg:
		return d.handleRoundReady(msg)
	case timerTickMsg:
		return d.handleTimerTick(msg)
	case explainDoneMsg:
		return d.handleExplainDone(msg)
	case spinner.TickMsg:
		if !d.explaining {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	case tea.KeyMsg:
		return d.handleKey(msg)
	}
	return d, nil
}

func (d *DrillScreen) nextRound() tea.Cmd {
	s, ctx := d.session, d.ctx
	d.phase = phaseLoading
	return func() tea.Msg {
		r, err := s.Next(ctx)
		return roundReadyMsg{Round: r, Err: err}
	}
}

func (d *DrillScreen) handleRoundReady(msg roundReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		d.phase = phaseError
		d.err = msg.Err
		return d, nil
	}

	d.round = msg.Round
	d.outcome = nil
	d.notice = ""
	d.explaining = false
	d.explanation = nil
	d.explainErr = nil
	d.shownAt = d.now()
	d.phase = phaseAsking
	d.resetPicker()

	if limit := d.session.TimeLimit(); limit > 0 {
		d.remaining = limit
		return d, tickCmd(d.round.Number)
	}
	return d, nil
}

func (d *DrillScreen) resetPicker() {
	if d.session.Mode() == sess.ModeParse {
		d.picker = components.NewPicker("How many objects follow the verb?",
			[]string{"No object", "One object", "Two objects"})
		return
	}
	d.picker = components.NewPicker("Which pattern is this?", components.PatternOptions())
}

func (d *DrillScreen) handleTimerTick(msg timerTickMsg) (screen.Screen, tea.Cmd) {
	if d.round == nil || msg.Round != d.round.Number || d.phase != phaseAsking {
		return d, nil
	}

	d.remaining = d.session.TimeLimit() - msg.At.Sub(d.shownAt)
	if d.remaining > 0 {
		return d, tickCmd(d.round.Number)
	}

	d.remaining = 0
	out, err := d.round.Timeout(d.ctx)
	if errors.Is(err, sess.ErrRoundResolved) {
		return d, nil
	}
	return d.showFeedback(out)
}

func (d *DrillScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if d.phase == phaseError {
		d.end()
		return d, router.Pop()
	}

	if d.quitConfirm {
		switch {
		case key.Matches(msg, d.keys.Confirm):
			d.quitConfirm = false
			return d.endSession()
		case key.Matches(msg, d.keys.Cancel):
			d.quitConfirm = false
		}
		return d, nil
	}

	if key.Matches(msg, d.keys.Quit) {
		d.quitConfirm = true
		return d, nil
	}

	switch d.phase {
	case phaseFeedback:
		if key.Matches(msg, d.keys.Explain) && d.canExplain() {
			return d, d.requestExplanation()
		}
		return d, d.nextRound()

	case phaseAsking, phaseComplements:
		if d.session.Mode() == sess.ModeParse {
			return d.handleParseKey(msg)
		}
		d.picker, _ = d.picker.Update(msg)
		if !d.picker.Submitted {
			return d, nil
		}
		chosen := pattern.All()[d.picker.Chosen]
		out, err := d.round.Answer(d.ctx, chosen, d.now().Sub(d.shownAt))
		if err != nil {
			return d, nil
		}
		return d.showFeedback(out)
	}
	return d, nil
}

// handleParseKey collects the object count, then the complement count. Number
// keys are counts here, so "1" means one object rather than option one.
func (d *DrillScreen) handleParseKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if k := msg.String(); len(k) == 1 && k[0] >= '0' && k[0] <= '9' {
		n := int(k[0] - '0')
		if n >= len(d.picker.Options) {
			return d, nil
		}
		d.picker.Selected = n
		d.picker.Submitted = true
		d.picker.Chosen = n
	} else {
		d.picker, _ = d.picker.Update(msg)
		if !d.picker.Submitted {
			return d, nil
		}
	}

	if d.phase == phaseAsking {
		d.objects = d.picker.Chosen
		d.phase = phaseComplements
		d.picker = components.NewPicker("How many complements?",
			[]string{"No complement", "One complement"})
		return d, nil
	}

	complements := d.picker.Chosen
	out, err := d.round.AnswerParts(d.ctx, d.objects, complements, d.now().Sub(d.shownAt))
	if errors.Is(err, sess.ErrInvalidChoice) {
		d.notice = "No pattern has two objects and a complement. Count again."
		d.phase = phaseAsking
		d.resetPicker()
		return d, nil
	}
	if err != nil {
		return d, nil
	}
	return d.showFeedback(out)
}

func (d *DrillScreen) showFeedback(out sess.Outcome) (screen.Screen, tea.Cmd) {
	d.outcome = &out
	d.phase = phaseFeedback
	d.notice = ""
	return d, nil
}

func (d *DrillScreen) canExplain() bool {
	return d.explainer != nil && d.outcome != nil && !d.explaining && d.explanation == nil &&
		explain.NeedsHelp(d.round.Stimulus, d.outcome.Judge.Chosen)
}

func (d *DrillScreen) requestExplanation() tea.Cmd {
	d.explaining = true
	d.explainErr = nil
	svc, ctx := d.explainer, d.ctx
	stim, chosen, n := d.round.Stimulus, d.outcome.Judge.Chosen, d.round.Number
	return tea.Batch(d.spinner.Tick, func() tea.Msg {
		exp, err := svc.Explain(ctx, stim, chosen)
		return explainDoneMsg{Round: n, Explanation: exp, Err: err}
	})
}

func (d *DrillScreen) handleExplainDone(msg explainDoneMsg) (screen.Screen, tea.Cmd) {
	if d.round == nil || msg.Round != d.round.Number {
		return d, nil
	}
	d.explaining = false
	if msg.Err != nil {
		d.explainErr = msg.Err
		return d, nil
	}
	exp := msg.Explanation
	d.explanation = &exp
	return d, nil
}

// endSession records the end event and swaps in the summary screen.
func (d *DrillScreen) endSession() (screen.Screen, tea.Cmd) {
	sum := d.end()
	return d, router.Replace(summary.New(sum, d.session.Mode(), d.session.Deck()))
}

// end records the session end event once.
func (d *DrillScreen) end() sess.Summary {
	if d.ended {
		return d.session.Summary()
	}
	d.ended = true
	return d.session.End(d.ctx)
}

// Close ends a running session when the screen is removed or the program
// quits mid-drill.
func (d *DrillScreen) Close() {
	if d.started {
		d.end()
	}
}

func (d *DrillScreen) View(width, height int) string {
	if d.quitConfirm {
		return renderQuitConfirm(width, height)
	}
	switch d.phase {
	case phaseError:
		return renderError(width, height, d.err)
	case phaseLoading:
		return renderLoading(width, height)
	case phaseFeedback:
		return d.renderFeedback(width, height)
	default:
		return d.renderRound(width, height)
	}
}

// tickCmd schedules the next timer tick for round n.
func tickCmd(n int) tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return timerTickMsg{Round: n, At: t}
	})
}
