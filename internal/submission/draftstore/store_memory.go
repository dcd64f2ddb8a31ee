package draftstore

import (
	"context"
	"sync"
	"time"

	"ouvidoria/internal/submission"
)

// InMemoryStore keeps drafts in process memory with lazy TTL expiry. It backs
// unit tests and Redis-less development.
type InMemoryStore struct {
	mu     sync.RWMutex
	ttl    time.Duration
	drafts map[string]storedDraft
}

type storedDraft struct {
	draft    submission.Draft
	storedAt time.Time
}

func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{
		ttl:    ttl,
		drafts: make(map[string]storedDraft),
	}
}

func (s *InMemoryStore) Save(_ context.Context, key string, draft submission.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[key] = storedDraft{draft: draft, storedAt: time.Now()}
	return nil
}

func (s *InMemoryStore) Load(_ context.Context, key string) (submission.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.drafts[key]
	if !ok || time.Since(stored.storedAt) > s.ttl {
		return submission.Draft{}, ErrNotFound
	}
	return stored.draft, nil
}

func (s *InMemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
	return nil
}
