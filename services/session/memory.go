package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"calbot/models"
)

type memoryEntry struct {
	data      []byte
	version   int64
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. It suits a single instance and tests.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration, now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{ttl: ttl, now: now, entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(Key(userID))
	if !ok {
		return nil, ErrNotFound
	}
	var out models.Session
	if err := json.Unmarshal(entry.data, &out); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &out, nil
}

func (s *MemoryStore) Save(_ context.Context, userID string, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(userID)
	var current int64
	if entry, ok := s.live(key); ok {
		current = entry.version
	}
	if current != sess.Version {
		return ErrConflict
	}

	now := s.now()
	next := *sess
	next.Version++
	next.UpdatedAt = now
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	s.entries[key] = memoryEntry{data: data, version: next.Version, expiresAt: now.Add(s.ttl)}
	sess.Version, sess.UpdatedAt = next.Version, next.UpdatedAt
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, Key(userID))
	return nil
}

// live returns the entry if present and unexpired, evicting it otherwise.
// Callers hold s.mu.
func (s *MemoryStore) live(key string) (memoryEntry, bool) {
	entry, ok := s.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return memoryEntry{}, false
	}
	return entry, true
}
