package repository

import (
	"context"
	"sync"
	"time"

	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
)

type memEntry struct {
	state      []byte
	upload     []byte
	expiresAt  time.Time
	submitting time.Time
}

// MemoryStore keeps sessions in process memory. Expired entries are invisible
// to readers and removed by Sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose sessions expire after ttl of inactivity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]*memEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) live(id string) (*memEntry, bool) {
	e, ok := s.entries[id]
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, false
	}
	return e, true
}

func (s *MemoryStore) Get(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.live(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return append([]byte(nil), e.state...), nil
}

func (s *MemoryStore) Save(_ context.Context, id string, state []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(id)
	if !ok {
		e = &memEntry{}
		s.entries[id] = e
	}
	e.state = append([]byte(nil), state...)
	e.expiresAt = s.now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) GetUpload(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.live(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if e.upload == nil {
		return nil, nil
	}
	return append([]byte(nil), e.upload...), nil
}

func (s *MemoryStore) PutUpload(_ context.Context, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(id)
	if !ok {
		return domain.ErrSessionNotFound
	}
	e.upload = append([]byte{}, data...)
	e.expiresAt = s.now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) DeleteUpload(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.live(id); ok {
		e.upload = nil
	}
	return nil
}

func (s *MemoryStore) AcquireSubmit(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(id)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	now := s.now()
	if !e.submitting.IsZero() && now.Sub(e.submitting) < submitLockTTL {
		return false, nil
	}
	e.submitting = now
	return true, nil
}

func (s *MemoryStore) ReleaseSubmit(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		e.submitting = time.Time{}
	}
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ping always succeeds; it lets health checks treat every store alike.
func (s *MemoryStore) Ping(context.Context) error { return nil }
