package session

import (
	"context"
	"sync"
	"time"

	"github.com/myspotipal/spotipal/pkg/providers"
)

// MemoryStore keeps sessions in process memory. Suitable for tests and
// single-process runs without durability requirements.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry

	// now is swappable for tests.
	now func() time.Time
}

type memoryEntry struct {
	history   []providers.Message
	updatedAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) ([]providers.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	history := make([]providers.Message, len(entry.history))
	copy(history, entry.history)
	return history, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, history []providers.Message) error {
	copied := make([]providers.Message, len(history))
	copy(copied, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &memoryEntry{history: copied, updatedAt: s.now()}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) IdleSince(_ context.Context, cutoff time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, entry := range s.sessions {
		if entry.updatedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *MemoryStore) Close() error { return nil }
