package submission

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ouvidoria/internal/audit"
	"ouvidoria/internal/manifestation"
	mstore "ouvidoria/internal/manifestation/store"
	"ouvidoria/internal/platform/metrics"
	"ouvidoria/internal/protocol"
	id "ouvidoria/pkg/domain"
	dErrors "ouvidoria/pkg/domain-errors"
	"ouvidoria/pkg/platform/sentinel"
	"ouvidoria/pkg/requestcontext"
)

// maxProtocolAttempts bounds regeneration on protocolo collisions. With a
// 36^10 space, more than one retry already signals something badly wrong.
const maxProtocolAttempts = 5

// Pipeline validates and finalizes submission drafts into manifestations.
type Pipeline struct {
	manifestations mstore.Store
	protocols      *protocol.Generator
	publisher      audit.Publisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	tracer         trace.Tracer

	maxAttachmentBytes int64
}

func NewPipeline(
	manifestations mstore.Store,
	protocols *protocol.Generator,
	publisher audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	maxAttachmentBytes int64,
) *Pipeline {
	return &Pipeline{
		manifestations:     manifestations,
		protocols:          protocols,
		publisher:          publisher,
		metrics:            m,
		logger:             logger,
		tracer:             otel.Tracer("ouvidoria/submission"),
		maxAttachmentBytes: maxAttachmentBytes,
	}
}

// Result is what a successful submission hands back to the caller for
// confirmation display.
type Result struct {
	ManifestationID id.ManifestationID
	Protocolo       id.Protocol
}

// Submit finalizes a draft into exactly one manifestation with status
// pendente and a freshly assigned protocol.
//
// Validation failures perform zero store writes. A protocolo collision is the
// only retryable failure inside the pipeline and is retried transparently.
// The create is all-or-nothing: on failure no protocol is considered consumed
// and no partial record is left behind.
func (p *Pipeline) Submit(ctx context.Context, owner id.UserID, draft Draft) (Result, error) {
	ctx, span := p.tracer.Start(ctx, "submission.Submit")
	defer span.End()

	if owner.IsZero() {
		return Result{}, dErrors.New(dErrors.CodeUnauthenticated, "login required to submit a manifestation")
	}
	if strings.TrimSpace(draft.Texto) == "" {
		return Result{}, dErrors.New(dErrors.CodeInvalidInput, "texto must not be empty")
	}
	if draft.Assunto == "" {
		return Result{}, dErrors.New(dErrors.CodeInvalidInput, "an assunto must be chosen before submitting")
	}
	if !manifestation.IsValidAssunto(draft.Assunto) {
		return Result{}, dErrors.New(dErrors.CodeInvalidInput, "assunto is not in the controlled vocabulary")
	}

	anexos, rejected := FilterAttachments(draft.Anexos, p.maxAttachmentBytes)
	if len(rejected) > 0 {
		// Rejected files are dropped, not fatal; the valid remainder is kept.
		p.logger.WarnContext(ctx, "attachments rejected by acceptance filter",
			"rejected", len(rejected),
			"accepted", len(anexos),
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	now := requestcontext.Now(ctx)

	for attempt := 1; attempt <= maxProtocolAttempts; attempt++ {
		protocolo, err := p.protocols.Generate()
		if err != nil {
			return Result{}, dErrors.Wrap(dErrors.CodeInternal, "could not generate protocol", err)
		}

		m := manifestation.Manifestation{
			ID:        id.NewManifestationID(),
			Protocolo: protocolo,
			Texto:     draft.Texto,
			Assunto:   draft.Assunto,
			Anonima:   draft.Anonima,
			Status:    manifestation.StatusPendente,
			Anexos:    anexos,
			Owner:     owner,
			CreatedAt: now,
		}

		err = p.manifestations.Create(ctx, m)
		if err == nil {
			span.SetAttributes(attribute.Int("submission.protocol_attempts", attempt))
			p.metrics.ManifestationsCreated.Inc()
			p.publishCreated(ctx, m)
			return Result{ManifestationID: m.ID, Protocolo: m.Protocolo}, nil
		}
		if errors.Is(err, sentinel.ErrConflict) {
			p.metrics.ProtocolConflicts.Inc()
			p.logger.WarnContext(ctx, "protocol collision, regenerating",
				"attempt", attempt,
				"request_id", requestcontext.RequestID(ctx),
			)
			continue
		}
		p.logger.ErrorContext(ctx, "manifestation create failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return Result{}, dErrors.Wrap(dErrors.CodeUnavailable, "could not save manifestation", err)
	}

	return Result{}, dErrors.New(dErrors.CodeUnavailable, "could not assign a unique protocol")
}

func (p *Pipeline) publishCreated(ctx context.Context, m manifestation.Manifestation) {
	event := audit.Event{
		Type:            audit.EventManifestationCreated,
		ManifestationID: m.ID.String(),
		ClientIP:        requestcontext.ClientIP(ctx),
		Device:          requestcontext.Device(ctx),
		At:              m.CreatedAt,
	}
	// The owner identity stays out of the audit stream for anonymous
	// manifestations.
	if !m.Anonima {
		event.Actor = m.Owner.String()
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "audit publish failed",
			"type", string(event.Type),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
