package records

import (
	"context"
	"sync"

	"rallytimesbot/pkg/model"
)

// Backend persists the whole collection of records as one unit.
//
// Load returns an empty collection when nothing has been saved yet. Reset
// discards everything and is a no-op when nothing is stored.
type Backend interface {
	Load(ctx context.Context) ([]model.StageRecord, error)
	Save(ctx context.Context, records []model.StageRecord) error
	Reset(ctx context.Context) error
}

// MemoryBackend keeps the records in process memory.
type MemoryBackend struct {
	mu      sync.Mutex
	records []model.StageRecord
	present bool
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Load(ctx context.Context) ([]model.StageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.StageRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *MemoryBackend) Save(ctx context.Context, records []model.StageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make([]model.StageRecord, len(records))
	copy(m.records, records)
	m.present = true
	return nil
}

func (m *MemoryBackend) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = nil
	m.present = false
	return nil
}

// Present reports whether anything has been saved since the last reset.
func (m *MemoryBackend) Present() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.present
}
