package progression

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// History is the per-entity answer tally.
type History struct {
	CorrectCount int
	WrongCount   int
	LastPlayedAt time.Time
}

// Record is the persisted progression of one entity.
type Record struct {
	EntityID   string
	Level      int
	Experience int
	History    History
}

// check enforces the level/experience invariant before a write.
func (r Record) check() error {
	if r.Experience < 0 || r.Experience > MaxExp {
		return fmt.Errorf("entity %s: experience %d outside 0..%d", r.EntityID, r.Experience, MaxExp)
	}
	if want := LevelOf(r.Experience); r.Level != want {
		return fmt.Errorf("entity %s: level %d does not match experience %d (want %d)", r.EntityID, r.Level, r.Experience, want)
	}
	return nil
}

// normalize pulls a stored record back into range, for records written
// under an older threshold table.
func (r *Record) normalize() {
	r.Experience = clampExp(r.Experience)
	r.Level = LevelOf(r.Experience)
}

// Store persists progression records keyed by entity id.
type Store interface {
	// Get returns the record, or nil with no error when absent.
	Get(ctx context.Context, entityID string) (*Record, error)
	Set(ctx context.Context, entityID string, rec Record) error
}

// Lister is implemented by stores that can enumerate their records.
type Lister interface {
	All(ctx context.Context) ([]Record, error)
}

// Resetter is implemented by stores that can drop every record.
type Resetter interface {
	Reset(ctx context.Context) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	order   []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Get(_ context.Context, entityID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[entityID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemoryStore) Set(_ context.Context, entityID string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[entityID]; !ok {
		m.order = append(m.order, entityID)
	}
	rec.EntityID = entityID
	m.records[entityID] = rec
	return nil
}

func (m *MemoryStore) All(_ context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id])
	}
	return out, nil
}

func (m *MemoryStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]Record)
	m.order = nil
	return nil
}
