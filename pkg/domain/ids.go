// Package domain defines typed identifiers shared across feature packages.
//
// IDs are distinct types over uuid.UUID so the compiler rejects passing a
// response ID where a manifestation ID is expected. Parsing happens once at
// trust boundaries (HTTP handlers, store scans); everything inward carries
// the typed value.
package domain

import (
	"github.com/google/uuid"

	dErrors "ouvidoria/pkg/domain-errors"
)

type (
	// UserID identifies the citizen who owns a manifestation.
	UserID uuid.UUID
	// ManifestationID identifies a single grievance record.
	ManifestationID uuid.UUID
	// ResponseID identifies one official response within a ledger.
	ResponseID uuid.UUID
)

// NewUserID returns a fresh random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewManifestationID returns a fresh random manifestation ID.
func NewManifestationID() ManifestationID { return ManifestationID(uuid.New()) }

// NewResponseID returns a fresh random response ID.
func NewResponseID() ResponseID { return ResponseID(uuid.New()) }

func (id UserID) String() string          { return uuid.UUID(id).String() }
func (id ManifestationID) String() string { return uuid.UUID(id).String() }
func (id ResponseID) String() string      { return uuid.UUID(id).String() }

// IsZero reports whether the ID is the nil UUID, i.e. unset.
func (id UserID) IsZero() bool          { return uuid.UUID(id) == uuid.Nil }
func (id ManifestationID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id ResponseID) IsZero() bool      { return uuid.UUID(id) == uuid.Nil }

// ParseUserID validates and parses a user ID string.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	return UserID(u), err
}

// ParseManifestationID validates and parses a manifestation ID string.
func ParseManifestationID(s string) (ManifestationID, error) {
	u, err := parseUUID(s)
	return ManifestationID(u), err
}

// ParseResponseID validates and parses a response ID string.
func ParseResponseID(s string) (ResponseID, error) {
	u, err := parseUUID(s)
	return ResponseID(u), err
}

// parseUUID enforces the shared invariant: IDs must be valid, non-nil UUIDs.
func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}
