// Package response holds the official-response ledger: replies appended by
// issuing bodies and the per-response read flag owned by the citizen.
package response

import (
	"time"

	id "ouvidoria/pkg/domain"
)

// Response is one official reply attached to a manifestation.
//
// Lida only ever moves false to true, and only the owning user moves it.
// CreatedAt is immutable; listings order newest first.
type Response struct {
	ID             id.ResponseID
	ManifestacaoID id.ManifestationID
	Orgao          string
	Texto          string
	Lida           bool
	CreatedAt      time.Time
}
