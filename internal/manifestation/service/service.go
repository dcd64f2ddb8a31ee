package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"ouvidoria/internal/audit"
	"ouvidoria/internal/manifestation"
	mstore "ouvidoria/internal/manifestation/store"
	"ouvidoria/internal/notification"
	"ouvidoria/internal/platform/metrics"
	"ouvidoria/internal/response"
	rstore "ouvidoria/internal/response/store"
	id "ouvidoria/pkg/domain"
	dErrors "ouvidoria/pkg/domain-errors"
	"ouvidoria/pkg/platform/sentinel"
	"ouvidoria/pkg/requestcontext"
)

// Service answers read queries over manifestations and applies status
// transitions. Creation goes through the submission pipeline instead.
type Service struct {
	manifestations mstore.Store
	responses      rstore.Store
	notifications  *notification.Service
	publisher      audit.Publisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	tracer         trace.Tracer
}

func NewService(
	manifestations mstore.Store,
	responses rstore.Store,
	notifications *notification.Service,
	publisher audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		manifestations: manifestations,
		responses:      responses,
		notifications:  notifications,
		publisher:      publisher,
		metrics:        m,
		logger:         logger,
		tracer:         otel.Tracer("ouvidoria/manifestation"),
	}
}

// Detail is a manifestation with its ordered responses, ready for display.
type Detail struct {
	Manifestation manifestation.Manifestation
	Responses     []response.Response
}

// Annotated is a list entry carrying the derived unread flag.
type Annotated struct {
	Manifestation manifestation.Manifestation
	HasUnread     bool
}

// Listing is the owner's manifestations plus the global unread indicator.
type Listing struct {
	Items     []Annotated
	HasUnread bool
}

// Get returns one manifestation with its responses. Only the owner and
// issuing-body staff may read it; other citizens get Forbidden regardless of
// the anonymity flag.
func (s *Service) Get(ctx context.Context, mid id.ManifestationID) (Detail, error) {
	m, err := s.manifestations.FindByID(ctx, mid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Detail{}, dErrors.New(dErrors.CodeNotFound, "manifestation not found")
		}
		return Detail{}, dErrors.Wrap(dErrors.CodeUnavailable, "could not load manifestation", err)
	}

	caller := requestcontext.UserID(ctx)
	if !m.OwnedBy(caller) && requestcontext.CallerRole(ctx) != requestcontext.RoleStaff {
		return Detail{}, dErrors.New(dErrors.CodeForbidden, "not your manifestation")
	}

	responses, err := s.responses.ListByManifestation(ctx, mid)
	if err != nil {
		return Detail{}, dErrors.Wrap(dErrors.CodeUnavailable, "could not load responses", err)
	}

	return Detail{Manifestation: m, Responses: responses}, nil
}

// List returns the caller's manifestations newest first, each annotated with
// its unread flag, plus the global indicator.
func (s *Service) List(ctx context.Context) (Listing, error) {
	ctx, span := s.tracer.Start(ctx, "manifestation.List")
	defer span.End()

	owner := requestcontext.UserID(ctx)
	if owner.IsZero() {
		return Listing{}, dErrors.New(dErrors.CodeUnauthenticated, "login required")
	}

	items, err := s.manifestations.ListByOwner(ctx, owner)
	if err != nil {
		return Listing{}, dErrors.Wrap(dErrors.CodeUnavailable, "could not list manifestations", err)
	}

	summary, err := s.notifications.SummaryFor(ctx, items)
	if err != nil {
		return Listing{}, dErrors.Wrap(dErrors.CodeUnavailable, "could not compute unread responses", err)
	}

	listing := Listing{HasUnread: summary.Global}
	for _, m := range items {
		listing.Items = append(listing.Items, Annotated{
			Manifestation: m,
			HasUnread:     summary.PerItem[m.ID],
		})
	}
	return listing, nil
}

// AdvanceStatus applies a forward status transition on behalf of issuing-body
// staff. Backward and self transitions are rejected; the handler gates the
// staff role before calling here.
func (s *Service) AdvanceStatus(ctx context.Context, mid id.ManifestationID, next manifestation.Status) error {
	ctx, span := s.tracer.Start(ctx, "manifestation.AdvanceStatus")
	defer span.End()

	if !next.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "status must be pendente, em_andamento or resolvida")
	}

	m, err := s.manifestations.FindByID(ctx, mid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "manifestation not found")
		}
		return dErrors.Wrap(dErrors.CodeUnavailable, "could not load manifestation", err)
	}

	if !m.Status.CanTransition(next) {
		return dErrors.New(dErrors.CodeConflict, "illegal status transition")
	}

	if err := s.manifestations.UpdateStatus(ctx, mid, next); err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "could not update status", err)
	}

	s.metrics.StatusTransitions.WithLabelValues(string(next)).Inc()
	s.publishStatusChanged(ctx, m, next)
	return nil
}

func (s *Service) publishStatusChanged(ctx context.Context, m manifestation.Manifestation, next manifestation.Status) {
	event := audit.Event{
		Type:            audit.EventStatusChanged,
		ManifestationID: m.ID.String(),
		Actor:           requestcontext.UserID(ctx).String(),
		FromStatus:      string(m.Status),
		ToStatus:        string(next),
		ClientIP:        requestcontext.ClientIP(ctx),
		Device:          requestcontext.Device(ctx),
		At:              requestcontext.Now(ctx),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit publish failed",
			"type", string(event.Type),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
