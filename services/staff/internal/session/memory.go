package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryRepository keeps markers in process memory. Sessions are lost on restart.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

type memoryEntry struct {
	marker    Marker
	expiresAt time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]memoryEntry), now: time.Now}
}

func (r *MemoryRepository) Save(_ context.Context, m Marker, ttl time.Duration) error {
	if m.SessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[m.SessionID] = memoryEntry{marker: m, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *MemoryRepository) Load(_ context.Context, id string) (Marker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[id]
	if !ok {
		return Marker{}, ErrNotFound
	}
	if !r.now().Before(entry.expiresAt) {
		delete(r.items, id)
		return Marker{}, ErrNotFound
	}
	return entry.marker, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}
