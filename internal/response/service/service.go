package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"ouvidoria/internal/audit"
	mstore "ouvidoria/internal/manifestation/store"
	"ouvidoria/internal/platform/metrics"
	"ouvidoria/internal/response"
	rstore "ouvidoria/internal/response/store"
	id "ouvidoria/pkg/domain"
	dErrors "ouvidoria/pkg/domain-errors"
	"ouvidoria/pkg/platform/sentinel"
	"ouvidoria/pkg/requestcontext"
)

// Ledger appends official responses and tracks their read flags. Responses are
// append-only: there is no edit or delete path.
type Ledger struct {
	responses      rstore.Store
	manifestations mstore.Store
	publisher      audit.Publisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	tracer         trace.Tracer
}

func NewLedger(
	responses rstore.Store,
	manifestations mstore.Store,
	publisher audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Ledger {
	return &Ledger{
		responses:      responses,
		manifestations: manifestations,
		publisher:      publisher,
		metrics:        m,
		logger:         logger,
		tracer:         otel.Tracer("ouvidoria/response"),
	}
}

// Append records a new response from an issuing body. The handler gates the
// staff role; here we only validate the payload and the target.
func (l *Ledger) Append(ctx context.Context, mid id.ManifestationID, orgao, texto string) (response.Response, error) {
	ctx, span := l.tracer.Start(ctx, "response.Append")
	defer span.End()

	orgao = strings.TrimSpace(orgao)
	texto = strings.TrimSpace(texto)
	if orgao == "" {
		return response.Response{}, dErrors.New(dErrors.CodeInvalidInput, "órgão is required")
	}
	if texto == "" {
		return response.Response{}, dErrors.New(dErrors.CodeInvalidInput, "response text is required")
	}

	if _, err := l.manifestations.FindByID(ctx, mid); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return response.Response{}, dErrors.New(dErrors.CodeNotFound, "manifestation not found")
		}
		return response.Response{}, dErrors.Wrap(dErrors.CodeUnavailable, "could not load manifestation", err)
	}

	r := response.Response{
		ID:             id.NewResponseID(),
		ManifestacaoID: mid,
		Orgao:          orgao,
		Texto:          texto,
		Lida:           false,
		CreatedAt:      requestcontext.Now(ctx),
	}
	if err := l.responses.Append(ctx, r); err != nil {
		return response.Response{}, dErrors.Wrap(dErrors.CodeUnavailable, "could not append response", err)
	}

	l.metrics.ResponsesAppended.Inc()
	l.publish(ctx, audit.Event{
		Type:            audit.EventResponseAppended,
		ManifestationID: mid.String(),
		ResponseID:      r.ID.String(),
		Actor:           requestcontext.UserID(ctx).String(),
		Orgao:           orgao,
		ClientIP:        requestcontext.ClientIP(ctx),
		Device:          requestcontext.Device(ctx),
		At:              r.CreatedAt,
	})
	return r, nil
}

// MarkRead flips the read flag of one response. Only the owner of the parent
// manifestation may mark it, and doing so twice is a harmless repeat.
func (l *Ledger) MarkRead(ctx context.Context, rid id.ResponseID) error {
	ctx, span := l.tracer.Start(ctx, "response.MarkRead")
	defer span.End()

	caller := requestcontext.UserID(ctx)
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthenticated, "login required")
	}

	r, err := l.responses.FindByID(ctx, rid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "response not found")
		}
		return dErrors.Wrap(dErrors.CodeUnavailable, "could not load response", err)
	}

	m, err := l.manifestations.FindByID(ctx, r.ManifestacaoID)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "could not load manifestation", err)
	}
	if !m.OwnedBy(caller) {
		return dErrors.New(dErrors.CodeForbidden, "not your manifestation")
	}

	if r.Lida {
		return nil
	}
	if err := l.responses.MarkRead(ctx, rid); err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "could not mark response read", err)
	}

	l.metrics.ResponsesRead.Inc()
	l.publish(ctx, audit.Event{
		Type:            audit.EventResponseRead,
		ManifestationID: r.ManifestacaoID.String(),
		ResponseID:      rid.String(),
		Actor:           caller.String(),
		ClientIP:        requestcontext.ClientIP(ctx),
		Device:          requestcontext.Device(ctx),
		At:              requestcontext.Now(ctx),
	})
	return nil
}

func (l *Ledger) publish(ctx context.Context, event audit.Event) {
	if err := l.publisher.Publish(ctx, event); err != nil {
		l.logger.ErrorContext(ctx, "audit publish failed",
			"type", string(event.Type),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
