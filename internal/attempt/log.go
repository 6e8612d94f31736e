package attempt

import (
	"context"
	"sync"
)

// Log is the append-only attempt history. All returns attempts in
// insertion order.
type Log interface {
	Append(ctx context.Context, a Attempt) error
	All(ctx context.Context) ([]Attempt, error)
	Clear(ctx context.Context) error
}

// MemoryLog is an in-process Log.
type MemoryLog struct {
	mu       sync.Mutex
	attempts []Attempt
}

// NewMemoryLog returns a log pre-filled with attempts.
func NewMemoryLog(attempts ...Attempt) *MemoryLog {
	return &MemoryLog{attempts: append([]Attempt(nil), attempts...)}
}

func (l *MemoryLog) Append(_ context.Context, a Attempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = append(l.attempts, a)
	return nil
}

func (l *MemoryLog) All(_ context.Context) ([]Attempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Attempt(nil), l.attempts...), nil
}

func (l *MemoryLog) Clear(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = nil
	return nil
}
