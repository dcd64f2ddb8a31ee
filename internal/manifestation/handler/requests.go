package handler

import (
	"strings"

	"ouvidoria/internal/manifestation"
	dErrors "ouvidoria/pkg/domain-errors"
)

// AdvanceStatusRequest is the HTTP request body for
// PATCH /v1/manifestacoes/{manifestationID}/status.
type AdvanceStatusRequest struct {
	Status string `json:"status"`

	parsedStatus manifestation.Status
}

// Validate checks that the requested status names a legal lifecycle value.
// Transition legality against the current status is the service's call.
func (r *AdvanceStatusRequest) Validate() error {
	r.Status = strings.TrimSpace(r.Status)
	if r.Status == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "status is required")
	}
	status := manifestation.Status(r.Status)
	if !status.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "status must be pendente, em_andamento or resolvida")
	}
	r.parsedStatus = status
	return nil
}

func (r *AdvanceStatusRequest) ParsedStatus() manifestation.Status {
	return r.parsedStatus
}
