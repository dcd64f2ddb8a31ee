package store

import (
	"context"
	"sort"
	"sync"

	"ouvidoria/internal/response"
	id "ouvidoria/pkg/domain"
)

// InMemoryStore keeps responses in process memory for unit tests and local
// development.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.ResponseID]response.Response
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.ResponseID]response.Response)}
}

func (s *InMemoryStore) Append(_ context.Context, r response.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[r.ID]; exists {
		return ErrConflict
	}
	s.records[r.ID] = r
	return nil
}

func (s *InMemoryStore) ListByManifestation(_ context.Context, mid id.ManifestationID) ([]response.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []response.Response
	for _, r := range s.records {
		if r.ManifestacaoID == mid {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, rid id.ResponseID) (response.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.records[rid]; ok {
		return r, nil
	}
	return response.Response{}, ErrNotFound
}

func (s *InMemoryStore) MarkRead(_ context.Context, rid id.ResponseID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[rid]
	if !ok {
		return ErrNotFound
	}
	r.Lida = true
	s.records[rid] = r
	return nil
}
