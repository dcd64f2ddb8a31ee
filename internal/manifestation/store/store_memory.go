package store

import (
	"context"
	"sort"
	"sync"

	"ouvidoria/internal/manifestation"
	id "ouvidoria/pkg/domain"
)

// InMemoryStore keeps manifestations in process memory. It backs unit tests
// and local development and intentionally favors clarity over performance.
type InMemoryStore struct {
	mu        sync.RWMutex
	records   map[id.ManifestationID]manifestation.Manifestation
	protocols map[id.Protocol]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records:   make(map[id.ManifestationID]manifestation.Manifestation),
		protocols: make(map[id.Protocol]struct{}),
	}
}

func (s *InMemoryStore) Create(_ context.Context, m manifestation.Manifestation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.protocols[m.Protocolo]; exists {
		return ErrConflict
	}
	if _, exists := s.records[m.ID]; exists {
		return ErrConflict
	}
	m.Anexos = append([]manifestation.Attachment{}, m.Anexos...)
	s.records[m.ID] = m
	s.protocols[m.Protocolo] = struct{}{}
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, mid id.ManifestationID) (manifestation.Manifestation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.records[mid]; ok {
		return m, nil
	}
	return manifestation.Manifestation{}, ErrNotFound
}

func (s *InMemoryStore) ListByOwner(_ context.Context, owner id.UserID) ([]manifestation.Manifestation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []manifestation.Manifestation
	for _, m := range s.records {
		if m.Owner == owner {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, mid id.ManifestationID, status manifestation.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.records[mid]
	if !ok {
		return ErrNotFound
	}
	m.Status = status
	s.records[mid] = m
	return nil
}
