package session

import (
	"context"
	"sync"
	"time"

	"github.com/Priyanshut972/Weatherapp/internal/models"
)

// Store keeps one UIState per session id. Update must be atomic per id; a
// missing session starts from the zero state.
type Store interface {
	Get(ctx context.Context, id string) (models.UIState, bool, error)
	Update(ctx context.Context, id string, fn func(st *models.UIState) error) (models.UIState, error)
}

type memEntry struct {
	state     models.UIState
	expiresAt time.Time
}

// MemoryStore is an in-process Store with a sliding TTL per session.
// Expired entries are invisible immediately and are removed by a sweep that
// runs at most once per TTL.
type MemoryStore struct {
	mu        sync.Mutex
	items     map[string]memEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{items: make(map[string]memEntry), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, id string) (models.UIState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok || m.expired(e) {
		return models.UIState{}, false, nil
	}
	return e.state, true, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, fn func(st *models.UIState) error) (models.UIState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok || m.expired(e) {
		e = memEntry{}
	}
	st := e.state
	if err := fn(&st); err != nil {
		return e.state, err
	}
	m.items[id] = memEntry{state: st, expiresAt: m.now().Add(m.ttl)}
	m.sweepLocked()
	return st, nil
}

func (m *MemoryStore) expired(e memEntry) bool {
	return m.ttl > 0 && m.now().After(e.expiresAt)
}

func (m *MemoryStore) sweepLocked() {
	if m.ttl <= 0 {
		return
	}
	now := m.now()
	if now.Sub(m.lastSweep) < m.ttl {
		return
	}
	m.lastSweep = now
	for id, e := range m.items {
		if m.expired(e) {
			delete(m.items, id)
		}
	}
}
