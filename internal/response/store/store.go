package store

import (
	"context"

	"ouvidoria/internal/response"
	id "ouvidoria/pkg/domain"
	"ouvidoria/pkg/platform/sentinel"
)

// Store persists the response ledger. Each append and read-mark is an
// independent atomic row operation; ordering across sessions is whatever the
// store commits.
type Store interface {
	// Append persists a new response.
	Append(ctx context.Context, r response.Response) error
	// ListByManifestation returns responses newest first.
	ListByManifestation(ctx context.Context, mid id.ManifestationID) ([]response.Response, error)
	// FindByID returns sentinel.ErrNotFound when the ID does not resolve.
	FindByID(ctx context.Context, rid id.ResponseID) (response.Response, error)
	// MarkRead sets lida = true. Idempotent: marking an already-read
	// response is a no-op, not an error.
	MarkRead(ctx context.Context, rid id.ResponseID) error
}

var (
	ErrNotFound = sentinel.ErrNotFound
	ErrConflict = sentinel.ErrConflict
)
