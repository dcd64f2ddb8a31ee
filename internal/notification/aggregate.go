// Package notification derives unread-response indicators from the current
// response set. The derivation is pure and recomputed on demand; there is no
// cached counter to drift under concurrent updates.
package notification

import (
	"ouvidoria/internal/response"
	id "ouvidoria/pkg/domain"
)

// ManifestationResponses pairs a manifestation with its current responses.
type ManifestationResponses struct {
	ManifestationID id.ManifestationID
	Responses       []response.Response
}

// Summary is the derived unread signal for one user.
type Summary struct {
	// PerItem is true for a manifestation iff at least one of its responses
	// is unread.
	PerItem map[id.ManifestationID]bool
	// Global is true iff any manifestation has an unread response. It
	// drives the single top-level notification indicator.
	Global bool
}

// ComputeUnread derives the unread summary from the given response sets.
func ComputeUnread(sets []ManifestationResponses) Summary {
	summary := Summary{PerItem: make(map[id.ManifestationID]bool, len(sets))}
	for _, set := range sets {
		unread := false
		for _, r := range set.Responses {
			if !r.Lida {
				unread = true
				break
			}
		}
		summary.PerItem[set.ManifestationID] = unread
		summary.Global = summary.Global || unread
	}
	return summary
}
