// Package handler exposes the manifestation read and status endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ouvidoria/internal/manifestation"
	"ouvidoria/internal/manifestation/service"
	id "ouvidoria/pkg/domain"
	dErrors "ouvidoria/pkg/domain-errors"
	"ouvidoria/pkg/platform/httputil"
	"ouvidoria/pkg/requestcontext"
)

// Service is the slice of the manifestation service the handler needs.
type Service interface {
	Get(ctx context.Context, mid id.ManifestationID) (service.Detail, error)
	List(ctx context.Context) (service.Listing, error)
	AdvanceStatus(ctx context.Context, mid id.ManifestationID, next manifestation.Status) error
}

// Handler wires manifestation endpoints to the manifestation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the citizen-facing read endpoints. Assuntos is public so
// the submission form can offer the vocabulary before login.
func (h *Handler) Register(r chi.Router) {
	r.Get("/manifestacoes", h.HandleList)
	r.Get("/manifestacoes/{manifestationID}", h.HandleGet)
}

// RegisterStaff mounts the endpoints gated on the staff role.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Patch("/manifestacoes/{manifestationID}/status", h.HandleAdvanceStatus)
}

// RegisterPublic mounts the endpoints that need no authentication.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/assuntos", h.HandleAssuntos)
}

// HandleList handles GET /v1/manifestacoes.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	listing, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "manifestation listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromListing(listing))
}

// HandleGet handles GET /v1/manifestacoes/{manifestationID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mid, err := id.ParseManifestationID(chi.URLParam(r, "manifestationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid manifestation id"))
		return
	}

	detail, err := h.service.Get(ctx, mid)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	showOwner := detail.Manifestation.OwnedBy(requestcontext.UserID(ctx)) ||
		requestcontext.CallerRole(ctx) == requestcontext.RoleStaff
	httputil.WriteJSON(w, http.StatusOK, FromDetail(detail, showOwner))
}

// HandleAdvanceStatus handles PATCH /v1/manifestacoes/{manifestationID}/status.
func (h *Handler) HandleAdvanceStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	mid, err := id.ParseManifestationID(chi.URLParam(r, "manifestationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid manifestation id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[AdvanceStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.AdvanceStatus(ctx, mid, req.ParsedStatus()); err != nil {
		h.logger.WarnContext(ctx, "status transition rejected",
			"request_id", requestID,
			"manifestation_id", mid,
			"status", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "status advanced",
		"request_id", requestID,
		"manifestation_id", mid,
		"status", req.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleAssuntos handles GET /v1/assuntos. The optional q parameter filters
// the vocabulary case-insensitively.
func (h *Handler) HandleAssuntos(w http.ResponseWriter, r *http.Request) {
	assuntos := manifestation.FilterAssuntos(r.URL.Query().Get("q"))
	httputil.WriteJSON(w, http.StatusOK, AssuntosResponse{Assuntos: assuntos})
}
