package store

import (
	"context"
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// dbtx is the subset of *sql.DB the repositories use.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To))
	}
}

// Card event kinds.
const (
	CardUnlocked = "unlock"
	CardLeveled  = "level_up"
)

// CardEventData captures a card unlock or level-up.
type CardEventData struct {
	Kind      string
	EntityID  string
	Rarity    string
	Level     int
	SessionID string
}

// CardEventRecord is a CardEventData read back with its ordering fields.
type CardEventRecord struct {
	CardEventData
	Sequence  int64
	Timestamp time.Time
}

// Session event actions.
const (
	SessionStart = "start"
	SessionEnd   = "end"
)

// SessionEventData captures the start or end of a drill session.
type SessionEventData struct {
	SessionID       string
	Action          string
	Deck            string
	QuestionsServed int
	CorrectAnswers  int
	BestStreak      int
	DurationSecs    int
}

// SessionSummaryRecord is one finished session, with its card award count.
type SessionSummaryRecord struct {
	SessionID       string
	Timestamp       time.Time
	Deck            string
	QuestionsServed int
	CorrectAnswers  int
	BestStreak      int
	DurationSecs    int
	CardCount       int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestRecord is an LLMRequestEventData read back with its timestamp.
type LLMRequestRecord struct {
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendCardEvent records a card unlock or level-up.
	AppendCardEvent(ctx context.Context, data CardEventData) error
	// QueryCardEvents returns card events, newest first.
	QueryCardEvents(ctx context.Context, opts QueryOpts) ([]CardEventRecord, error)

	// AppendSessionEvent records a session start or end marker.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	// QuerySessionSummaries returns finished sessions, newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	// QueryLLMRequests returns LLM request events, newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestRecord, error)
}

// eventRepo implements EventRepo backed by the global sequence counter.
type eventRepo struct {
	db  dbtx
	seq *sequenceCounter
}
