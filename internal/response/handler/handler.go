// Package handler exposes the response ledger endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ouvidoria/internal/response"
	id "ouvidoria/pkg/domain"
	dErrors "ouvidoria/pkg/domain-errors"
	"ouvidoria/pkg/platform/httputil"
	"ouvidoria/pkg/requestcontext"
)

// Ledger is the slice of the response service the handler needs.
type Ledger interface {
	Append(ctx context.Context, mid id.ManifestationID, orgao, texto string) (response.Response, error)
	MarkRead(ctx context.Context, rid id.ResponseID) error
}

// Handler wires response endpoints to the response ledger.
type Handler struct {
	ledger Ledger
	logger *slog.Logger
}

func New(ledger Ledger, logger *slog.Logger) *Handler {
	return &Handler{ledger: ledger, logger: logger}
}

// Register mounts the citizen-facing read-flag endpoint.
func (h *Handler) Register(r chi.Router) {
	r.Post("/respostas/{responseID}/lida", h.HandleMarkRead)
}

// RegisterStaff mounts the endpoints gated on the staff role.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Post("/manifestacoes/{manifestationID}/respostas", h.HandleAppend)
}

// AppendRequest is the HTTP request body for
// POST /v1/manifestacoes/{manifestationID}/respostas.
type AppendRequest struct {
	Orgao string `json:"orgao"`
	Texto string `json:"texto"`
}

func (r *AppendRequest) Validate() error {
	r.Orgao = strings.TrimSpace(r.Orgao)
	r.Texto = strings.TrimSpace(r.Texto)
	if r.Orgao == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "orgao is required")
	}
	if r.Texto == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "texto is required")
	}
	return nil
}

// AppendResponse is the HTTP response for a successful append.
type AppendResponse struct {
	ID        string    `json:"id"`
	Orgao     string    `json:"orgao"`
	Texto     string    `json:"texto"`
	Lida      bool      `json:"lida"`
	CreatedAt time.Time `json:"created_at"`
}

// HandleAppend handles POST /v1/manifestacoes/{manifestationID}/respostas.
func (h *Handler) HandleAppend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	mid, err := id.ParseManifestationID(chi.URLParam(r, "manifestationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid manifestation id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[AppendRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.ledger.Append(ctx, mid, req.Orgao, req.Texto)
	if err != nil {
		h.logger.ErrorContext(ctx, "response append failed",
			"request_id", requestID,
			"manifestation_id", mid,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "response appended",
		"request_id", requestID,
		"manifestation_id", mid,
		"response_id", resp.ID,
		"orgao", resp.Orgao,
	)
	httputil.WriteJSON(w, http.StatusCreated, AppendResponse{
		ID:        resp.ID.String(),
		Orgao:     resp.Orgao,
		Texto:     resp.Texto,
		Lida:      resp.Lida,
		CreatedAt: resp.CreatedAt,
	})
}

// HandleMarkRead handles POST /v1/respostas/{responseID}/lida.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rid, err := id.ParseResponseID(chi.URLParam(r, "responseID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid response id"))
		return
	}

	if err := h.ledger.MarkRead(ctx, rid); err != nil {
		h.logger.WarnContext(ctx, "mark read rejected",
			"request_id", requestcontext.RequestID(ctx),
			"response_id", rid,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
