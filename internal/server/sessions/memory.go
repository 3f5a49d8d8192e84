package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/referralhub/internal/common"
)

var now = time.Now

type memoryEntry struct {
	session Session
	expires time.Time
}

// MemoryStore is the in-process Store used when no Redis address is set.
// Expired entries are dropped when read.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	s := &Session{ID: newID()}
	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if !now().Before(e.expires) {
		delete(m.entries, id)
		return nil, common.ErrorNotFound
	}

	s := e.session
	if s.Draft != nil {
		d := *s.Draft
		s.Draft = &d
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *s
	if s.Draft != nil {
		d := *s.Draft
		stored.Draft = &d
	}
	m.entries[s.ID] = memoryEntry{session: stored, expires: now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}
