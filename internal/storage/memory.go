package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/state"
)

type memoryEntry struct {
	session   state.Session
	expiresAt time.Time
}

// MemoryStorage keeps sessions in process. Expired entries are dropped
// lazily on load.
type MemoryStorage struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	pingError error
}

var _ SessionStore = (*MemoryStorage)(nil)

// NewMemoryStorage creates an in-memory session store. A ttl of zero or less
// means sessions never expire.
func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[uuid.UUID]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetPingError configures the store to fail health checks with err
func (m *MemoryStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MemoryStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MemoryStorage) SaveSession(ctx context.Context, s *state.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.UpdatedAt = m.now()
	entry := memoryEntry{session: *s}
	if m.ttl > 0 {
		entry.expiresAt = s.UpdatedAt.Add(m.ttl)
	}
	m.sessions[s.ID] = entry
	return nil
}

func (m *MemoryStorage) LoadSession(ctx context.Context, id uuid.UUID) (*state.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.sessions, id)
		return nil, nil
	}
	s := entry.session
	return &s, nil
}

func (m *MemoryStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
