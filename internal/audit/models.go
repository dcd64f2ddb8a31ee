// Package audit records manifestation lifecycle events for the ombudsman
// back office. Publishing is best-effort: a broker outage never fails the
// citizen-facing operation.
package audit

import (
	"time"
)

// EventType enumerates the lifecycle facts worth recording.
type EventType string

const (
	EventManifestationCreated EventType = "manifestation.created"
	EventStatusChanged        EventType = "manifestation.status_changed"
	EventResponseAppended     EventType = "response.appended"
	EventResponseRead         EventType = "response.read"
)

// Event is one immutable audit fact. IDs are carried as strings so the wire
// shape stays stable regardless of the in-process ID types.
type Event struct {
	Type            EventType `json:"type"`
	ManifestationID string    `json:"manifestation_id"`
	ResponseID      string    `json:"response_id,omitempty"`
	Actor           string    `json:"actor,omitempty"`
	Orgao           string    `json:"orgao,omitempty"`
	FromStatus      string    `json:"from_status,omitempty"`
	ToStatus        string    `json:"to_status,omitempty"`
	ClientIP        string    `json:"client_ip,omitempty"`
	Device          string    `json:"device,omitempty"`
	At              time.Time `json:"at"`
}
