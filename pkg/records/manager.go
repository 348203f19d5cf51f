package records

import (
	"context"
	"log"
	"sync"
	"time"

	"rallytimesbot/pkg/metrics"
	"rallytimesbot/pkg/model"
	"rallytimesbot/pkg/pubsub"

	"github.com/google/uuid"
)

// Manager is the record store used by the rest of the program. Every
// load-modify-save cycle runs under one mutex so concurrent requests in this
// process cannot both pass the duplicate check against a stale read.
type Manager struct {
	backend Backend
	policy  Policy
	events  *pubsub.PubSub[model.RecordEvent]
	mu      sync.Mutex
}

func NewManager(backend Backend, policy Policy, events *pubsub.PubSub[model.RecordEvent]) *Manager {
	return &Manager{
		backend: backend,
		policy:  policy,
		events:  events,
	}
}

func (m *Manager) Policy() Policy {
	return m.policy
}

// List returns every record ordered by stage and then by time.
func (m *Manager) List(ctx context.Context) ([]model.StageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, err := m.backend.Load(ctx)
	metrics.ObserveOperation("list", err)
	if err != nil {
		return nil, err
	}
	return Sorted(records), nil
}

// Stage returns the records of one stage ordered by time.
func (m *Manager) Stage(ctx context.Context, stage string) ([]model.StageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, err := m.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ByStage(records, stage), nil
}

// Stats returns the summary of all records; ok is false when there are none.
func (m *Manager) Stats(ctx context.Context) (model.Stats, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, err := m.backend.Load(ctx)
	metrics.ObserveOperation("stats", err)
	if err != nil {
		return model.Stats{}, false, err
	}
	stats, ok := Stats(records)
	return stats, ok, nil
}

func (m *Manager) Insert(ctx context.Context, candidate model.StageRecord) (model.StageRecord, error) {
	var inserted model.StageRecord
	err := m.update(ctx, "insert", func(records []model.StageRecord) ([]model.StageRecord, *model.RecordEvent, error) {
		out, r, err := Insert(records, candidate)
		if err != nil {
			return nil, nil, err
		}
		inserted = r
		return out, &model.RecordEvent{Type: model.EventInserted, Record: &r}, nil
	})
	return inserted, err
}

// Penalize adds delta seconds to the record of driver in stage and returns it.
func (m *Manager) Penalize(ctx context.Context, driver, stage string, delta float64) (model.StageRecord, error) {
	var penalized model.StageRecord
	err := m.update(ctx, "penalize", func(records []model.StageRecord) ([]model.StageRecord, *model.RecordEvent, error) {
		out, r, err := ApplyPenalty(records, driver, stage, delta, m.policy)
		if err != nil {
			return nil, nil, err
		}
		penalized = r
		return out, &model.RecordEvent{Type: model.EventPenalized, Record: &r, Delta: delta}, nil
	})
	return penalized, err
}

func (m *Manager) Remove(ctx context.Context, driver, stage string) (model.StageRecord, error) {
	var removed model.StageRecord
	err := m.update(ctx, "remove", func(records []model.StageRecord) ([]model.StageRecord, *model.RecordEvent, error) {
		out, r, err := Remove(records, driver, stage)
		if err != nil {
			return nil, nil, err
		}
		removed = r
		return out, &model.RecordEvent{Type: model.EventRemoved, Record: &r}, nil
	})
	return removed, err
}

// Reset discards all persisted records. Resetting an empty store succeeds.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.backend.Reset(ctx)
	metrics.ObserveOperation("reset", err)
	if err != nil {
		return err
	}
	metrics.SetRecords(0)
	m.publish(&model.RecordEvent{Type: model.EventReset}, nil)
	return nil
}

func (m *Manager) update(ctx context.Context, op string, apply func([]model.StageRecord) ([]model.StageRecord, *model.RecordEvent, error)) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { metrics.ObserveOperation(op, err) }()

	records, err := m.backend.Load(ctx)
	if err != nil {
		return err
	}
	out, event, err := apply(records)
	if err != nil {
		return err
	}
	if err = m.backend.Save(ctx, out); err != nil {
		log.Printf("error saving records after %s: %s\n", op, err)
		return err
	}

	metrics.SetRecords(len(out))
	m.publish(event, out)
	return nil
}

func (m *Manager) publish(event *model.RecordEvent, records []model.StageRecord) {
	if m.events == nil || event == nil {
		return
	}
	event.ID = uuid.NewString()
	event.At = time.Now()
	if leader, ok := Leader(records); ok {
		event.Leader = leader.Driver
		event.LeaderTime = leader.ElapsedSeconds
	}
	m.events.Publish(pubsub.TopicRecords, *event)
}
