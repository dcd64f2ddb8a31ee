// Package draftstore persists in-progress submission drafts so the drafted
// text and attachments survive the redirect to authentication and back.
package draftstore

import (
	"context"

	"ouvidoria/internal/submission"
	"ouvidoria/pkg/platform/sentinel"
)

// Store keeps one draft per key. The key is the client's draft token before
// authentication and the user ID afterwards; drafts expire after the
// configured TTL.
type Store interface {
	Save(ctx context.Context, key string, draft submission.Draft) error
	// Load returns sentinel.ErrNotFound when no draft exists for key.
	Load(ctx context.Context, key string) (submission.Draft, error)
	Clear(ctx context.Context, key string) error
}

var ErrNotFound = sentinel.ErrNotFound
