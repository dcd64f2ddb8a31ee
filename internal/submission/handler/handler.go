// Package handler exposes the submission endpoints: finalizing a new
// manifestation and the draft save/restore cycle around login.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ouvidoria/internal/manifestation"
	"ouvidoria/internal/submission"
	"ouvidoria/internal/submission/draftstore"
	id "ouvidoria/pkg/domain"
	dErrors "ouvidoria/pkg/domain-errors"
	"ouvidoria/pkg/platform/httputil"
	"ouvidoria/pkg/platform/sentinel"
	"ouvidoria/pkg/requestcontext"
)

// Submitter is the slice of the pipeline the handler needs.
type Submitter interface {
	Submit(ctx context.Context, owner id.UserID, draft submission.Draft) (submission.Result, error)
}

// Handler wires submission endpoints to the pipeline and the draft store.
type Handler struct {
	pipeline Submitter
	drafts   draftstore.Store
	logger   *slog.Logger
}

func New(pipeline Submitter, drafts draftstore.Store, logger *slog.Logger) *Handler {
	return &Handler{pipeline: pipeline, drafts: drafts, logger: logger}
}

// Register mounts the authenticated submission endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/manifestacoes", h.HandleSubmit)
	r.Put("/rascunho", h.HandleSaveDraft)
	r.Get("/rascunho", h.HandleLoadDraft)
	r.Delete("/rascunho", h.HandleClearDraft)
}

// SubmitRequest is the HTTP request body for POST /v1/manifestacoes.
type SubmitRequest struct {
	Texto   string              `json:"texto"`
	Assunto string              `json:"assunto"`
	Anonima bool                `json:"anonima"`
	Anexos  []AttachmentRequest `json:"anexos"`
}

// AttachmentRequest is one attachment reference in the submission body.
type AttachmentRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	StorageKey  string `json:"storage_key"`
}

func (r *SubmitRequest) Validate() error {
	r.Texto = strings.TrimSpace(r.Texto)
	if r.Texto == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "texto is required")
	}
	if strings.TrimSpace(r.Assunto) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "assunto is required")
	}
	return nil
}

func (r *SubmitRequest) draft() submission.Draft {
	d := submission.Draft{
		Texto:   r.Texto,
		Assunto: r.Assunto,
		Anonima: r.Anonima,
	}
	for _, a := range r.Anexos {
		d.Anexos = append(d.Anexos, manifestation.Attachment{
			Name:        a.Name,
			ContentType: a.ContentType,
			SizeBytes:   a.SizeBytes,
			StorageKey:  a.StorageKey,
		})
	}
	return d
}

// SubmitResponse is the HTTP response for a successful submission. The
// protocol is the citizen's tracking code and is shown exactly once here.
type SubmitResponse struct {
	ID        string `json:"id"`
	Protocolo string `json:"protocolo"`
}

// HandleSubmit handles POST /v1/manifestacoes.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	owner := requestcontext.UserID(ctx)
	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.pipeline.Submit(ctx, owner, req.draft())
	if err != nil {
		h.logger.ErrorContext(ctx, "submission failed",
			"request_id", requestID,
			"assunto", req.Assunto,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// The draft served its purpose once the manifestation exists.
	if err := h.drafts.Clear(ctx, owner.String()); err != nil {
		h.logger.WarnContext(ctx, "draft clear after submit failed",
			"request_id", requestID,
			"error", err,
		)
	}

	h.logger.InfoContext(ctx, "manifestation submitted",
		"request_id", requestID,
		"manifestation_id", result.ManifestationID,
		"assunto", req.Assunto,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, SubmitResponse{
		ID:        result.ManifestationID.String(),
		Protocolo: string(result.Protocolo),
	})
}

// DraftRequest is the HTTP request body for PUT /v1/rascunho. Partial drafts
// are legal; validation happens at submit time.
type DraftRequest struct {
	Texto   string              `json:"texto"`
	Assunto string              `json:"assunto"`
	Anonima bool                `json:"anonima"`
	Anexos  []AttachmentRequest `json:"anexos"`
}

// DraftResponse is the HTTP response for GET /v1/rascunho.
type DraftResponse struct {
	Texto   string              `json:"texto"`
	Assunto string              `json:"assunto"`
	Anonima bool                `json:"anonima"`
	Anexos  []AttachmentRequest `json:"anexos,omitempty"`
}

// HandleSaveDraft handles PUT /v1/rascunho.
func (h *Handler) HandleSaveDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DraftRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	draft := submission.Draft{
		Texto:   req.Texto,
		Assunto: req.Assunto,
		Anonima: req.Anonima,
	}
	for _, a := range req.Anexos {
		draft.Anexos = append(draft.Anexos, manifestation.Attachment{
			Name:        a.Name,
			ContentType: a.ContentType,
			SizeBytes:   a.SizeBytes,
			StorageKey:  a.StorageKey,
		})
	}

	if err := h.drafts.Save(ctx, requestcontext.UserID(ctx).String(), draft); err != nil {
		h.logger.ErrorContext(ctx, "draft save failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeUnavailable, "could not save draft", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLoadDraft handles GET /v1/rascunho.
func (h *Handler) HandleLoadDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	draft, err := h.drafts.Load(ctx, requestcontext.UserID(ctx).String())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no draft saved"))
			return
		}
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeUnavailable, "could not load draft", err))
		return
	}

	resp := DraftResponse{
		Texto:   draft.Texto,
		Assunto: draft.Assunto,
		Anonima: draft.Anonima,
	}
	for _, a := range draft.Anexos {
		resp.Anexos = append(resp.Anexos, AttachmentRequest{
			Name:        a.Name,
			ContentType: a.ContentType,
			SizeBytes:   a.SizeBytes,
			StorageKey:  a.StorageKey,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleClearDraft handles DELETE /v1/rascunho.
func (h *Handler) HandleClearDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.drafts.Clear(ctx, requestcontext.UserID(ctx).String()); err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeUnavailable, "could not clear draft", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
