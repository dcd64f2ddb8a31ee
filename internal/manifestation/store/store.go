package store

import (
	"context"

	"ouvidoria/internal/manifestation"
	id "ouvidoria/pkg/domain"
	"ouvidoria/pkg/platform/sentinel"
)

// Stores are interface-driven to keep the domain logic testable and to allow
// swapping in-memory and PostgreSQL persistence without rewiring business
// code.
type Store interface {
	// Create persists a new manifestation. The protocolo uniqueness
	// constraint makes creation atomic with protocol assignment: a duplicate
	// code returns sentinel.ErrConflict and nothing is written.
	Create(ctx context.Context, m manifestation.Manifestation) error
	// FindByID returns sentinel.ErrNotFound when the ID does not resolve.
	FindByID(ctx context.Context, mid id.ManifestationID) (manifestation.Manifestation, error)
	// ListByOwner returns the owner's manifestations newest first.
	ListByOwner(ctx context.Context, owner id.UserID) ([]manifestation.Manifestation, error)
	// UpdateStatus replaces the stored status. Transition legality is the
	// service's concern; the store only persists.
	UpdateStatus(ctx context.Context, mid id.ManifestationID, status manifestation.Status) error
}

// Re-exported so store consumers don't need to import sentinel directly.
var (
	ErrNotFound = sentinel.ErrNotFound
	ErrConflict = sentinel.ErrConflict
)
